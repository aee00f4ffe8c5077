package ncsp

import (
	"testing"
	"time"
)

func TestBudgetsExceededReportsFirstFiredLimit(t *testing.T) {
	b := Budgets{TimeLimit: time.Second, NodeLimit: 10, SolutionLimit: 5}
	if k := b.exceeded(2*time.Second, 1, 0); k != LimitTime {
		t.Fatalf("expected LimitTime, got %s", k)
	}
	if k := b.exceeded(0, 11, 0); k != LimitNode {
		t.Fatalf("expected LimitNode, got %s", k)
	}
	if k := b.exceeded(0, 0, 5); k != LimitSolution {
		t.Fatalf("expected LimitSolution, got %s", k)
	}
	if k := b.exceeded(0, 0, 0); k != LimitNone {
		t.Fatalf("expected LimitNone, got %s", k)
	}
}

func TestBudgetsZeroMeansUnbounded(t *testing.T) {
	b := Budgets{}
	if k := b.exceeded(time.Hour, 1000000, 1000000); k != LimitNone {
		t.Fatalf("expected an all-zero Budgets to never fire, got %s", k)
	}
	if b.depthExceeded(1000) {
		t.Fatalf("expected a zero DepthLimit to never trip")
	}
}

func TestBudgetsDepthExceeded(t *testing.T) {
	b := Budgets{DepthLimit: 5}
	if !b.depthExceeded(5) {
		t.Fatalf("expected depth 5 to trip a DepthLimit of 5")
	}
	if b.depthExceeded(4) {
		t.Fatalf("expected depth 4 to not trip a DepthLimit of 5")
	}
}
