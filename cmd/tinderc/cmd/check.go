package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/driver"
)

var checkShowSource bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run the full semantic pipeline and report diagnostics",
	Long: `Run every pass of spec.md §2's pipeline (tokenizer through flow
validation) over a Tinder file and print its diagnostics in the §6 wire
format. Exits non-zero iff the module is absent: errors were reported, or
warningsAsErrors (tinder.yaml or --warnings-as-errors) promoted a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkShowSource, "show-source", false, "render each diagnostic with its source line and a caret")
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	cfg := loadConfig(cmd)
	mod, diags := driver.Compile(filename, source, driver.Options{WarningsAsErrors: cfg.WarningsAsErrors})

	if checkShowSource {
		fmt.Print(diagnostics.RenderWithSource(diags, source, colorEnabled(cfg)))
	} else {
		fmt.Println(diagnostics.Format(diags))
	}
	fmt.Fprintln(os.Stderr, diagnostics.Summary(diags))

	if mod == nil {
		return fmt.Errorf("%s did not compile", filename)
	}
	return nil
}
