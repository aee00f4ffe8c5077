package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gitrdm/realpaver/internal/report"
	"github.com/gitrdm/realpaver/pkg/ncsp"
)

func TestLoadParamsDefaultsWhenNoFileOrPreset(t *testing.T) {
	p, err := loadParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PropagationBase != "HC4" {
		t.Fatalf("expected stock default PropagationBase, got %q", p.PropagationBase)
	}
}

func TestLoadParamsAppliesNamedPreset(t *testing.T) {
	p, err := loadParams("", "fast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NodeLimit != 5000 {
		t.Fatalf("expected the fast preset's NODE_LIMIT override, got %d", p.NodeLimit)
	}
}

func TestLoadParamsRejectsUnknownPreset(t *testing.T) {
	if _, err := loadParams("", "nonexistent"); err == nil {
		t.Fatalf("expected an error for an unknown preset")
	}
}

func TestLoadParamsReadsParamFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.txt")
	writeFile(t, path, "NODE_LIMIT 10\n")
	p, err := loadParams(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NodeLimit != 10 {
		t.Fatalf("expected NODE_LIMIT 10 from file, got %d", p.NodeLimit)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("unexpected error writing %s: %v", path, err)
	}
}

func TestReportStyleMapsSingleAndDefaultsToVertical(t *testing.T) {
	if reportStyle("single") != report.StyleSingleLine {
		t.Fatalf("expected \"single\" to map to StyleSingleLine")
	}
	if reportStyle("vertical") != report.StyleVertical {
		t.Fatalf("expected \"vertical\" to map to StyleVertical")
	}
	if reportStyle("anything-else") != report.StyleVertical {
		t.Fatalf("expected an unrecognized style to default to StyleVertical")
	}
}

func TestBuildSolverConfigRejectsUnknownSelector(t *testing.T) {
	problem := buildTrivialProblem(t)
	p := ncsp.DefaultParams()
	p.SplitSelector = "NOT_A_SELECTOR"
	if _, err := buildSolverConfig(problem, p, nil); err == nil {
		t.Fatalf("expected an error for an unrecognized SPLIT_SELECTOR")
	}
}

func TestBuildSolverConfigRejectsUnknownSearchSpace(t *testing.T) {
	problem := buildTrivialProblem(t)
	p := ncsp.DefaultParams()
	p.BPNodeSelection = "NOT_A_STRATEGY"
	if _, err := buildSolverConfig(problem, p, nil); err == nil {
		t.Fatalf("expected an error for an unrecognized BP_NODE_SELECTION")
	}
}

func TestBuildSolverConfigWiresDefaultsEndToEnd(t *testing.T) {
	problem := buildTrivialProblem(t)
	cfg, err := buildSolverConfig(problem, ncsp.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pool == nil || cfg.Selector == nil || cfg.Space == nil || cfg.Slicer == nil {
		t.Fatalf("expected every solver component to be wired, got %+v", cfg)
	}
	if cfg.Prover == nil {
		t.Fatalf("expected a prover for a square system")
	}
}

func buildTrivialProblem(t *testing.T) *ncsp.Problem {
	t.Helper()
	x, err := ncsp.NewVariable(0, "x", ncsp.VarReal, ncsp.NewInterval(-10, 10), ncsp.DefaultTolerance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scope := ncsp.NewScope(x)
	dag := ncsp.NewDag(scope)
	problem := &ncsp.Problem{Scope: scope, Dag: dag}
	c := dag.InsertConstraint("c1", ncsp.VarTerm(x), ncsp.ConstTerm(1), ncsp.RelEq)
	problem.Constraints = append(problem.Constraints, c)
	return problem
}

func TestRunRejectsMissingModelArgument(t *testing.T) {
	if code := run([]string{"solve"}); code != 1 {
		t.Fatalf("expected exit code 1 with no model argument, got %d", code)
	}
}

func TestRunRejectsUnknownSubcommand(t *testing.T) {
	if code := run([]string{"explain"}); code != 1 {
		t.Fatalf("expected exit code 1 for an unrecognized subcommand, got %d", code)
	}
}

func TestRunRejectsMissingModelFile(t *testing.T) {
	if code := run([]string{"solve", "/nonexistent/model.rp"}); code != 1 {
		t.Fatalf("expected exit code 1 for a missing model file, got %d", code)
	}
}

func TestRunSolvesTrivialModelToCompletion(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.rp")
	writeFile(t, modelPath, "Variables\nx in [-10, 10];\nConstraints\nx == 3;\n")

	checkpointPath := filepath.Join(dir, "run.checkpoint")
	code := run([]string{"solve", modelPath, "--checkpoint", checkpointPath})
	if code != 0 {
		t.Fatalf("expected exit code 0 solving a trivial model, got %d", code)
	}
}

func TestRunRejectsMalformedModel(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "bad.rp")
	writeFile(t, modelPath, "Variables\nx in [-10, 10]\nConstraints\nx == ;\n")

	checkpointPath := filepath.Join(dir, "run.checkpoint")
	code := run([]string{"solve", modelPath, "--checkpoint", checkpointPath})
	if code != 1 {
		t.Fatalf("expected exit code 1 for a malformed model, got %d", code)
	}
}
