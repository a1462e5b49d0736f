package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
)

var lexShowPos bool

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the disambiguated token stream for a Tinder file",
	Long: `Tokenize a Tinder source file and print the disambiguated token
stream (spec.md §4.1): the raw scan followed by the bracket-stack pass that
reclassifies speculative '<'/'>' pairs into type-parameter delimiters.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", true, "show each token's line:column")
}

func runLex(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	lx := lexer.New(filename, string(content))
	tokens := lexer.Disambiguate(lx.Tokenize())
	for _, tok := range tokens {
		if lexShowPos {
			fmt.Println(tok.String())
		} else {
			fmt.Printf("%s(%q)\n", tok.Kind, tok.Text)
		}
	}
	return nil
}
