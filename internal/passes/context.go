// Package passes implements the semantic analysis pipeline of spec.md §4.3–
// §4.7 (StructuralCheck, DefineSymbols, ComputeSymbolTypes, ComputeTypes,
// DefaultInitialize) plus the RenameSymbols emitter pass (§4.9). FlowValidation
// (§4.8) lives in the sibling internal/flow package, since its reverse-CFG
// machinery doesn't share the others' straightforward tree walk.
//
// Each pass follows the teacher's shape
// (_examples/CWBudde-go-dws/internal/passes): a small exported Pass type with
// a Run method, backed by an unexported walker struct that carries whatever
// traversal state that pass alone needs. Context carries only what's genuinely
// shared: the diagnostic sink and the module under compilation.
package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
)

// Context is the thin shared state every pass receives (spec.md §5: each
// pass mutates the same in-place AST, run to completion in sequence).
type Context struct {
	Log    *diagnostics.Log
	Module *ast.Module
}

// NewContext creates a Context over module, reporting to log.
func NewContext(module *ast.Module, log *diagnostics.Log) *Context {
	return &Context{Log: log, Module: module}
}
