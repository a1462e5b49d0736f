package driver

import "testing"

func TestCompileCleanProgram(t *testing.T) {
	mod, diags := Compile("t.td", "int add(int a, int b) {\n  return a + b\n}\n", Options{})
	if mod == nil {
		t.Fatalf("got nil module, diagnostics: %v", diags)
	}
}

func TestCompileStopsAtFirstFailingPass(t *testing.T) {
	// Undefined symbol fails ComputeTypes; later passes (DefaultInitialize,
	// FlowValidation) must not run, so no flow diagnostics should appear.
	mod, diags := Compile("t.td", "int use() {\n  return missing\n}\n", Options{})
	if mod != nil {
		t.Fatalf("got non-nil module for a program with an undefined symbol")
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	mod, diags := Compile("t.td", "int x = \n", Options{})
	if mod != nil {
		t.Fatalf("got non-nil module for invalid syntax")
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
}
