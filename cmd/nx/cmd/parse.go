package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nx-lang/nx-go/pkg/nx"
)

var dumpTree bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a file and report syntax diagnostics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		result := nx.ParseFile(path)

		if len(result.Errors) > 0 {
			src := readSourceForDiagnostics(path)
			fmt.Fprint(os.Stderr, nx.RenderDiagnostics(result.Errors, path, src))
		}
		if result.Tree != nil && dumpTree {
			fmt.Print(result.Tree.Dump())
		}
		if !result.IsOk() {
			os.Exit(1)
		}
	},
}

func readSourceForDiagnostics(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func init() {
	parseCmd.Flags().BoolVar(&dumpTree, "dump", false, "dump the syntax tree")
	rootCmd.AddCommand(parseCmd)
}
