// Command tinderc is the Tinder compiler front end's CLI entry point.
package main

import (
	"os"

	"github.com/dineshkummarc/TheDS-next2Tinder/cmd/tinderc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
