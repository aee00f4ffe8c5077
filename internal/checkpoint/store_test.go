package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gitrdm/realpaver/pkg/ncsp"
)

func buildTestScope(t *testing.T) (*ncsp.Scope, *ncsp.Variable, *ncsp.Variable) {
	t.Helper()
	x, err := ncsp.NewVariable(0, "x", ncsp.VarReal, ncsp.NewInterval(-10, 10), ncsp.DefaultTolerance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := ncsp.NewVariable(1, "n", ncsp.VarInteger, ncsp.NewInterval(0, 10), ncsp.DefaultTolerance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ncsp.NewScope(x, n), x, n
}

func TestStoreSavesAndLoadsPendingAndSolutions(t *testing.T) {
	scope, x, n := buildTestScope(t)

	box := ncsp.NewBox(scope)
	box.SetDomain(x, ncsp.NewIntervalDomain(ncsp.NewInterval(1, 2)))
	box.SetDomain(n, ncsp.NewIntegerDomain(3, 3))

	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "checkpoint.db"))
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	defer store.Close()

	pending := []*ncsp.SearchNode{{Box: box, Depth: 2}}
	solutions := []ncsp.Solution{{Box: box.Clone(), Proof: ncsp.Feasible}}

	if err := store.Save("run-1", pending, solutions); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	gotPending, gotSolutions, err := store.Load("run-1", scope)
	if err != nil {
		t.Fatalf("unexpected error loading: %v", err)
	}
	if len(gotPending) != 1 || gotPending[0].Depth != 2 {
		t.Fatalf("expected one pending node at depth 2, got %+v", gotPending)
	}
	if got := gotPending[0].Box.Interval(x); got.Lo() != 1 || got.Hi() != 2 {
		t.Fatalf("expected x=[1,2], got %v", got)
	}
	if got := gotPending[0].Box.Domain(n).Hull(); got.Lo() != 3 || got.Hi() != 3 {
		t.Fatalf("expected n=3, got %v", got)
	}

	if len(gotSolutions) != 1 || gotSolutions[0].Proof != ncsp.Feasible {
		t.Fatalf("expected one Feasible solution, got %+v", gotSolutions)
	}
}

func TestStoreLoadMissingRunReturnsError(t *testing.T) {
	scope, _, _ := buildTestScope(t)
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "checkpoint.db"))
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	defer store.Close()

	if _, _, err := store.Load("nonexistent", scope); err == nil {
		t.Fatalf("expected an error for a missing run")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	scope, x, _ := buildTestScope(t)
	box := ncsp.NewBox(scope)
	box.SetDomain(x, ncsp.NewIntervalDomain(ncsp.NewInterval(5, 6)))

	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	if err := store.Save("run-2", []*ncsp.SearchNode{{Box: box, Depth: 0}}, nil); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error closing: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error reopening: %v", err)
	}
	defer reopened.Close()

	pending, _, err := reopened.Load("run-2", scope)
	if err != nil {
		t.Fatalf("unexpected error loading after reopen: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending node after reopen, got %d", len(pending))
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected checkpoint file to exist on disk: %v", err)
	}
}
