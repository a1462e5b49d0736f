package flow

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/parser"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/passes"
)

// compile runs every pass up to and including FlowValidation, matching
// spec.md §6's pipeline order, and returns the diagnostics produced.
func compile(t *testing.T, src string) []diagnostics.Diagnostic {
	t.Helper()
	lx := lexer.New("t.td", src)
	tokens := lexer.Disambiguate(lx.Tokenize())
	log := diagnostics.NewLog(false)
	mod := parser.New("t.td", tokens, log).ParseModule()
	if log.HasErrors() {
		t.Fatalf("parse errors: %s", diagnostics.Format(log.Diagnostics()))
	}

	ctx := passes.NewContext(mod, log)
	pipeline := []interface {
		Name() string
		Run(*passes.Context)
	}{
		passes.NewStructuralCheck(),
		passes.NewDefineSymbols(),
		passes.NewComputeSymbolTypes(),
		passes.NewComputeTypes(),
		passes.NewDefaultInitialize(),
	}
	for _, p := range pipeline {
		p.Run(ctx)
		if log.HasErrors() {
			t.Fatalf("pass %s reported errors: %s", p.Name(), diagnostics.Format(log.Diagnostics()))
		}
	}
	NewFlowValidation().Run(ctx)
	return log.Diagnostics()
}

func kinds(diags []diagnostics.Diagnostic) []diagnostics.Kind {
	out := make([]diagnostics.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func hasKind(diags []diagnostics.Diagnostic, k diagnostics.Kind) bool {
	for _, d := range diags {
		if d.Kind == k {
			return true
		}
	}
	return false
}

const fooClass = "class Foo {\n  int n\n}\n"

// Scenario A: a nullable local, narrowed nowhere, dereferenced with a bare
// `.` - a possibly-null warning on the implicit unwrap ComputeTypes inserted.
func TestPossiblyNullDereference(t *testing.T) {
	diags := compile(t, fooClass+"int use(Foo? f) {\n  int w = f.n\n  return w\n}\n")
	if !hasKind(diags, diagnostics.NullableDereference) {
		t.Fatalf("got %v, want NullableDereference", kinds(diags))
	}
}

// Scenario B: narrowing via `!= null` removes the warning on the guarded
// path.
func TestNarrowingSuppressesWarning(t *testing.T) {
	diags := compile(t, fooClass+"int use(Foo? f) {\n  if f != null {\n    int w = f.n\n    return w\n  }\n  return 0\n}\n")
	if hasKind(diags, diagnostics.NullableDereference) || hasKind(diags, diagnostics.NullDereference) {
		t.Fatalf("got %v, want no dereference diagnostics", kinds(diags))
	}
}

// Scenario C: dereferencing a value known definitely null.
func TestDefiniteNullDereference(t *testing.T) {
	diags := compile(t, fooClass+"int use() {\n  Foo? f = null\n  int w = f.n\n  return w\n}\n")
	if !hasKind(diags, diagnostics.NullDereference) {
		t.Fatalf("got %v, want NullDereference", kinds(diags))
	}
}

// Scenario D: a non-void function with a branch that falls off the end.
func TestNotAllPathsReturn(t *testing.T) {
	diags := compile(t, "int use(bool b) {\n  if b {\n    return 1\n  }\n}\n")
	if !hasKind(diags, diagnostics.NotAllPathsReturnValue) {
		t.Fatalf("got %v, want NotAllPathsReturnValue", kinds(diags))
	}
}

// Every path returning should not trigger the diagnostic.
func TestAllPathsReturnIsClean(t *testing.T) {
	diags := compile(t, "int use(bool b) {\n  if b {\n    return 1\n  }\n  return 0\n}\n")
	if hasKind(diags, diagnostics.NotAllPathsReturnValue) {
		t.Fatalf("got %v, want no NotAllPathsReturnValue", kinds(diags))
	}
}

// Scenario F: a statement following an unconditional return is dead.
func TestDeadCodeAfterReturn(t *testing.T) {
	diags := compile(t, "int use() {\n  return 1\n  int x = 2\n}\n")
	if !hasKind(diags, diagnostics.DeadCode) {
		t.Fatalf("got %v, want DeadCode", kinds(diags))
	}
}

func TestNoDeadCodeWithoutEarlyReturn(t *testing.T) {
	diags := compile(t, "int use() {\n  int x = 2\n  return x\n}\n")
	if hasKind(diags, diagnostics.DeadCode) {
		t.Fatalf("got %v, want no DeadCode", kinds(diags))
	}
}

// while-loop narrowing: the loop guard `f != null` narrows f to non-null on
// entry to the body, even though f is reassigned to null at the bottom of
// the loop.
func TestWhileNarrowing(t *testing.T) {
	diags := compile(t, fooClass+"int use(Foo? f) {\n  while f != null {\n    int w = f.n\n    f = null\n  }\n  return 0\n}\n")
	if hasKind(diags, diagnostics.NullDereference) {
		t.Fatalf("got %v, want no NullDereference", kinds(diags))
	}
}

// Aliasing a nullable argument into another local carries its nullability
// along rather than resetting to Unknown.
func TestAliasPropagatesNullability(t *testing.T) {
	diags := compile(t, fooClass+"int use(Foo? v) {\n  Foo? w = v\n  int x = w.n\n  return x\n}\n")
	if !hasKind(diags, diagnostics.NullableDereference) {
		t.Fatalf("got %v, want NullableDereference propagated through alias", kinds(diags))
	}
}
