package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nx",
	Short: "NX language core driver",
	Long: `nx drives the NX language core: a strongly-typed functional markup
language unifying XML-like elements with expressions, functions, and types.

The driver exposes the three pipeline stages:
  parse   tokenize and parse a file, reporting syntax diagnostics
          (--dump also prints the syntax tree)
  check   parse, lower, and type-check, rendering diagnostics
  run     execute a function of a checked module`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
