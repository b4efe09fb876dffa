package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nx-lang/nx-go/pkg/nx"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Type-check files and render diagnostics",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := nx.NewSession()
		for _, path := range args {
			if err := session.AddFileFromDisk(path); err != nil {
				exitWithError("cannot read %s: %v", path, err)
			}
		}

		failed := false
		for _, path := range args {
			result, err := session.CheckFile(path)
			if err != nil {
				exitWithError("%v", err)
			}
			if len(result.Diagnostics) > 0 {
				src := readSourceForDiagnostics(path)
				fmt.Fprint(os.Stderr, nx.RenderDiagnostics(result.Diagnostics, path, src))
			}
			if !result.IsOk() {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
