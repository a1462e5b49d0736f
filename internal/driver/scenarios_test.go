package driver

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
)

// These mirror spec.md §8's end-to-end scenarios A-D, F and G (scenario E,
// overload selection, is tested in internal/passes); the rendered
// diagnostic text is pinned with go-snaps the way the teacher's own fixture
// suite pins interpreter output (internal/interp/fixture_test.go).

func TestScenarioA_SimpleDereference(t *testing.T) {
	_, diags := Compile("a.td", "void use(int a) {}\nvoid f(int? x) {\n  use(x)\n}\n", Options{})
	snaps.MatchSnapshot(t, "scenario_a", diagnostics.Format(diags))
}

func TestScenarioB_NarrowingWorks(t *testing.T) {
	_, diags := Compile("b.td", "void use(int a) {}\nvoid f(int? x) {\n  if x != null {\n    use(x)\n  }\n}\n", Options{})
	if len(diags) != 0 {
		t.Fatalf("got %v, want no diagnostics", diags)
	}
}

func TestScenarioC_DefiniteNull(t *testing.T) {
	_, diags := Compile("c.td", "void use(int a) {}\nvoid f() {\n  int? x = null\n  use(x)\n}\n", Options{})
	snaps.MatchSnapshot(t, "scenario_c", diagnostics.Format(diags))
}

func TestScenarioD_NotAllPathsReturn(t *testing.T) {
	_, diags := Compile("d.td", "int f(int? x) {\n  if x != null {\n    return x\n  }\n}\n", Options{})
	snaps.MatchSnapshot(t, "scenario_d", diagnostics.Format(diags))
}

func TestScenarioF_DeadCodeAfterReturn(t *testing.T) {
	_, diags := Compile("f.td", "int f() {\n  return 1\n  return 2\n}\n", Options{})
	snaps.MatchSnapshot(t, "scenario_f", diagnostics.Format(diags))
}

func TestScenarioG_GenericListElementMismatch(t *testing.T) {
	_, diags := Compile("g.td", "void f() {\n  list<int> xs = [1, 1.5]\n}\n", Options{})
	snaps.MatchSnapshot(t, "scenario_g", diagnostics.Format(diags))
}
