package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/config"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
)

// loadConfig reads the --config path (SPEC_FULL.md §4.12), falling back to
// config.Default() when the file is absent.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError("failed to load config %s: %v", path, err)
	}
	warningsAsErrors, _ := cmd.Flags().GetBool("warnings-as-errors")
	if warningsAsErrors {
		cfg.WarningsAsErrors = true
	}
	return cfg
}

// colorEnabled resolves SPEC_FULL.md §4.10's color policy: cfg.Color
// overrides diagnostics.AutoColor's isatty-gated detection of stderr.
func colorEnabled(cfg *config.Config) bool {
	if cfg.Color != nil {
		return *cfg.Color
	}
	return diagnostics.AutoColor(os.Stderr)
}
