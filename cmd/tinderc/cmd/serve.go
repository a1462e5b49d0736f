package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/server"
)

var (
	serveAddr       string
	serveDB         string
	serveHistoryN   int
	showHistoryOnly bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive compile demo's HTTP seam",
	Long: `Start the HTTP interface SPEC_FULL.md §4.15 carves out for the
interactive demo: POST /compile runs driver.Compile over a request body and
returns its diagnostics; GET /history returns the rolling compile history
kept in a modernc.org/sqlite-backed store. This is the seam the demo's
XML/UI rendering sits behind, not the demo itself.

--history prints the stored history to stdout instead of starting a
listener, for inspecting a demo's compile log without curling it.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVar(&serveDB, "db", "tinderc-history.sqlite", "path to the compile history database")
	serveCmd.Flags().BoolVar(&showHistoryOnly, "history", false, "print compile history and exit, without starting the server")
	serveCmd.Flags().IntVar(&serveHistoryN, "limit", 20, "number of history records to print with --history")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)

	store, err := server.OpenStore(serveDB)
	if err != nil {
		return fmt.Errorf("failed to open history store %s: %w", serveDB, err)
	}
	defer store.Close()

	srv := server.New(store, cfg.WarningsAsErrors)

	if showHistoryOnly {
		records, err := srv.History(serveHistoryN)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		for _, rec := range records {
			fmt.Printf("%s  %-24s  %d diagnostic(s)  %s\n",
				rec.SessionID, rec.FileName, rec.Diagnostics, rec.CompiledAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	fmt.Fprintf(os.Stderr, "tinderc serve listening on %s (history: %s)\n", serveAddr, serveDB)
	return http.ListenAndServe(serveAddr, srv.Routes())
}
