// Package cmd is tinderc's cobra command tree, laid out the way the
// teacher's cmd/dwscript/cmd is: one file per subcommand, a shared root.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tinderc",
	Short: "Tinder compiler front end",
	Long: `tinderc is the front end for Tinder, a statically-typed,
curly-braced language with local nullability inference.

It lexes, parses, and runs the semantic pipeline (structural checks, symbol
definition and typing, expression typing, default initialization, and flow
validation) over a Tinder source file and reports diagnostics. Emitting
target code and the interactive HTTP demo are handled elsewhere; tinderc's
job is the front end and the demo's compile seam.`,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("config", "tinder.yaml", "path to tinder.yaml")
	rootCmd.PersistentFlags().Bool("warnings-as-errors", false, "promote warning diagnostics to errors")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
