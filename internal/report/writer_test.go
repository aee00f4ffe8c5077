package report

import (
	"strings"
	"testing"

	"github.com/gitrdm/realpaver/pkg/ncsp"
)

func buildTestProblem(t *testing.T) (*ncsp.Problem, *ncsp.Box) {
	t.Helper()
	x, err := ncsp.NewVariable(0, "x", ncsp.VarReal, ncsp.NewInterval(-10, 10), ncsp.DefaultTolerance())
	if err != nil {
		t.Fatalf("unexpected error building variable x: %v", err)
	}
	y, err := ncsp.NewVariable(1, "y", ncsp.VarReal, ncsp.NewInterval(-10, 10), ncsp.DefaultTolerance())
	if err != nil {
		t.Fatalf("unexpected error building variable y: %v", err)
	}
	scope := ncsp.NewScope(x, y)
	dag := ncsp.NewDag(scope)
	problem := &ncsp.Problem{Scope: scope, Dag: dag}

	box := ncsp.NewBox(scope)
	box.SetDomain(x, ncsp.NewIntervalDomain(ncsp.NewInterval(1, 2)))
	box.SetDomain(y, ncsp.NewIntervalDomain(ncsp.NewInterval(3, 4)))
	return problem, box
}

func TestWriterVerticalAlignsNamesAndReportsTag(t *testing.T) {
	problem, box := buildTestProblem(t)
	w := NewWriter(problem, StyleVertical)

	var sb strings.Builder
	err := w.WriteSolution(&sb, ncsp.Solution{Box: box, Proof: ncsp.Feasible})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "(F)\n") {
		t.Fatalf("expected output to start with the Feasible tag, got %q", out)
	}
	if !strings.Contains(out, "x = ") || !strings.Contains(out, "y = ") {
		t.Fatalf("expected both variables reported, got %q", out)
	}
}

func TestWriterSingleLineFormatsAsParenthesizedList(t *testing.T) {
	problem, box := buildTestProblem(t)
	w := NewWriter(problem, StyleSingleLine)

	var sb strings.Builder
	err := w.WriteSolution(&sb, ncsp.Solution{Box: box, Proof: ncsp.Inner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "(I)") {
		t.Fatalf("expected the Inner tag, got %q", out)
	}
	if !strings.Contains(out, "x = ") || !strings.Contains(out, "y = ") {
		t.Fatalf("expected both variables in single-line form, got %q", out)
	}
}

func TestWriterRemoveDropsEntity(t *testing.T) {
	problem, box := buildTestProblem(t)
	w := NewWriter(problem, StyleSingleLine)
	w.Remove("y")

	var sb strings.Builder
	if err := w.WriteSolution(&sb, ncsp.Solution{Box: box, Proof: ncsp.Feasible}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sb.String(), "y = ") {
		t.Fatalf("expected y to be removed from the report, got %q", sb.String())
	}
}

func TestWriterPendingRendersHeaderAndEachBox(t *testing.T) {
	problem, box := buildTestProblem(t)
	w := NewWriter(problem, StyleVertical)

	var sb strings.Builder
	if err := w.WritePending(&sb, []*ncsp.Box{box, box.Clone()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "PENDING\n") {
		t.Fatalf("expected output to start with PENDING header, got %q", out)
	}
	if strings.Count(out, "x = ") != 2 {
		t.Fatalf("expected two rendered boxes, got %q", out)
	}
}
