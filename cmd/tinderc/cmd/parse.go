package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the untyped AST for a Tinder file",
	Long: `Lex and parse a Tinder source file, then print the resulting
module's untyped syntax tree (spec.md §4.2's Pratt parser, before any
semantic pass runs).`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	lx := lexer.New(filename, string(content))
	tokens := lexer.Disambiguate(lx.Tokenize())
	log := diagnostics.NewLog(false)
	mod := parser.New(filename, tokens, log).ParseModule()
	if log.HasErrors() {
		fmt.Fprintln(os.Stderr, diagnostics.Format(log.Diagnostics()))
		return fmt.Errorf("parsing failed with %d error(s)", len(log.Diagnostics()))
	}

	fmt.Println(mod.String())
	return nil
}
