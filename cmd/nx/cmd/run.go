package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nx-lang/nx-go/pkg/nx"
)

var (
	recursionLimit int
	operationLimit int
)

var runCmd = &cobra.Command{
	Use:   "run <file> <function> [arg]...",
	Short: "Execute a function of a checked module",
	Long: `run type-checks the file and executes the named function.

Arguments are parsed as NX scalar literals: integers, reals, booleans,
null, and everything else as a string. Array arguments use a comma-
separated form in brackets, e.g. [1,2,3].`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, function := args[0], args[1]
		result := nx.CheckFile(path)
		if len(result.Diagnostics) > 0 {
			src := readSourceForDiagnostics(path)
			fmt.Fprint(os.Stderr, nx.RenderDiagnostics(result.Diagnostics, path, src))
		}
		if !result.IsOk() || result.Module == nil {
			os.Exit(1)
		}

		values := make([]nx.Value, 0, len(args)-2)
		for _, raw := range args[2:] {
			values = append(values, parseArgument(raw))
		}

		limits := nx.DefaultLimits()
		if recursionLimit > 0 {
			limits.RecursionLimit = recursionLimit
		}
		if operationLimit > 0 {
			limits.OperationLimit = operationLimit
		}

		value, runErr := nx.ExecuteWithLimits(result.Module, function, values, limits)
		if runErr != nil {
			src := readSourceForDiagnostics(path)
			fmt.Fprint(os.Stderr, runErr.Render(path, src))
			os.Exit(1)
		}
		fmt.Println(value.String())
	},
}

// parseArgument turns a command-line token into a runtime value.
func parseArgument(raw string) nx.Value {
	switch raw {
	case "true":
		return nx.Bool(true)
	case "false":
		return nx.Bool(false)
	case "null":
		return nx.Null()
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		body := strings.TrimSpace(raw[1 : len(raw)-1])
		if body == "" {
			return nx.Array()
		}
		var elems []nx.Value
		for _, part := range strings.Split(body, ",") {
			elems = append(elems, parseArgument(strings.TrimSpace(part)))
		}
		return nx.Array(elems...)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return nx.Int(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return nx.Float(f)
	}
	return nx.Str(raw)
}

func init() {
	runCmd.Flags().IntVar(&recursionLimit, "recursion-limit", 0, "override the recursion limit")
	runCmd.Flags().IntVar(&operationLimit, "operation-limit", 0, "override the operation limit")
	rootCmd.AddCommand(runCmd)
}
