package passes

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/parser"
)

// parseModule lexes and parses src, failing the test on any syntax error.
func parseModule(t *testing.T, src string) (*ast.Module, *diagnostics.Log) {
	t.Helper()
	lx := lexer.New("t.td", src)
	tokens := lexer.Disambiguate(lx.Tokenize())
	log := diagnostics.NewLog(false)
	mod := parser.New("t.td", tokens, log).ParseModule()
	if log.HasErrors() {
		t.Fatalf("parse errors: %s", diagnostics.Format(log.Diagnostics()))
	}
	return mod, log
}

// runUpTo parses src and runs every pass in order up to and including the
// named stopAt pass, failing the test if stopAt isn't reached without
// errors from an earlier pass.
func runUpTo(t *testing.T, src string, stopAt string) *Context {
	t.Helper()
	mod, log := parseModule(t, src)
	ctx := NewContext(mod, log)

	pipeline := []interface {
		Name() string
		Run(*Context)
	}{
		NewStructuralCheck(),
		NewDefineSymbols(),
		NewComputeSymbolTypes(),
		NewComputeTypes(),
		NewDefaultInitialize(),
	}
	for _, p := range pipeline {
		p.Run(ctx)
		if p.Name() == stopAt {
			return ctx
		}
		if log.HasErrors() {
			t.Fatalf("pass %s reported errors before reaching %s: %s", p.Name(), stopAt, diagnostics.Format(log.Diagnostics()))
		}
	}
	t.Fatalf("pass %q not found in pipeline", stopAt)
	return nil
}
