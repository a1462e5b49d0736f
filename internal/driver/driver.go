// Package driver implements spec.md §6's compiler entry point: lex, parse,
// then run the semantic pipeline pass by pass, skipping every later pass as
// soon as an earlier stage reports an error, mirroring the teacher's own
// driver shape (_examples/CWBudde-go-dws/internal/driver).
package driver

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/flow"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/parser"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/passes"
)

// Pass is the common shape shared by every passes.* type and flow.FlowValidation.
type Pass interface {
	Name() string
	Run(*passes.Context)
}

// Options configures a Compile run with emitter-specific concerns that don't
// belong in the core pipeline: spec.md §9 resolved warnings-as-errors and
// rename targets as driver-level configuration, not compiler state.
type Options struct {
	WarningsAsErrors bool
	Rename           *passes.RenameSymbols // nil skips renaming (e.g. `tinderc check`)
}

// Compile lexes and parses source, then runs spec.md §4.3-§4.9's pipeline in
// order, stopping after the first pass that reports an error. The returned
// module is non-nil only when every pass that ran reported no errors.
func Compile(fileName, source string, opts Options) (*ast.Module, []diagnostics.Diagnostic) {
	log := diagnostics.NewLog(opts.WarningsAsErrors)

	lx := lexer.New(fileName, source)
	tokens := lexer.Disambiguate(lx.Tokenize())

	// Fold the raw scanner's own issues (unterminated literals, unknown
	// escapes) into the shared log before parsing, per spec.md §7's
	// unterminated-literal handling and lexer.go's Issue doc comment.
	for _, issue := range lx.Issues() {
		severity := diagnostics.Warning
		if issue.IsFatal {
			severity = diagnostics.Error
		}
		log.ReportSeverity(diagnostics.SyntaxError, severity, issue.Pos, "%s", issue.Message)
	}
	if log.HasErrors() {
		return nil, log.Diagnostics()
	}

	mod := parser.New(fileName, tokens, log).ParseModule()
	if log.HasErrors() {
		return nil, log.Diagnostics()
	}

	ctx := passes.NewContext(mod, log)
	pipeline := []Pass{
		passes.NewStructuralCheck(),
		passes.NewDefineSymbols(),
		passes.NewComputeSymbolTypes(),
		passes.NewComputeTypes(),
		passes.NewDefaultInitialize(),
		flow.NewFlowValidation(),
	}
	if opts.Rename != nil {
		pipeline = append(pipeline, opts.Rename)
	}

	for _, p := range pipeline {
		p.Run(ctx)
		if log.HasErrors() {
			return nil, log.Diagnostics()
		}
	}
	return mod, log.Diagnostics()
}
