package ncsp

import "testing"

func TestDFSSearchSpacePopsLIFO(t *testing.T) {
	s := NewDFSSearchSpace()
	a := &SearchNode{Depth: 0}
	b := &SearchNode{Depth: 1}
	s.Insert(a)
	s.Insert(b)
	if n, ok := s.PopNext(); !ok || n != b {
		t.Fatalf("expected b (last inserted) first")
	}
	if n, ok := s.PopNext(); !ok || n != a {
		t.Fatalf("expected a second")
	}
	if _, ok := s.PopNext(); ok {
		t.Fatalf("expected empty space to report false")
	}
}

func TestBFSSearchSpacePopsFIFO(t *testing.T) {
	s := NewBFSSearchSpace()
	a := &SearchNode{Depth: 0}
	b := &SearchNode{Depth: 1}
	s.Insert(a)
	s.Insert(b)
	if n, ok := s.PopNext(); !ok || n != a {
		t.Fatalf("expected a (first inserted) first")
	}
	if s.Size() != 1 {
		t.Fatalf("expected size 1 after one pop, got %d", s.Size())
	}
	if n, ok := s.PopNext(); !ok || n != b {
		t.Fatalf("expected b second")
	}
}

func TestDMDFSSearchSpacePopsDeepestFirst(t *testing.T) {
	s := NewDMDFSSearchSpace()
	shallow := &SearchNode{Depth: 1}
	deep := &SearchNode{Depth: 5}
	mid := &SearchNode{Depth: 3}
	s.Insert(shallow)
	s.Insert(deep)
	s.Insert(mid)
	if n, ok := s.PopNext(); !ok || n != deep {
		t.Fatalf("expected deepest node first")
	}
	if n, ok := s.PopNext(); !ok || n != mid {
		t.Fatalf("expected depth-3 node second")
	}
}

func TestDMDFSSearchSpaceTiesBreakByInsertionOrder(t *testing.T) {
	s := NewDMDFSSearchSpace()
	first := &SearchNode{Depth: 2}
	second := &SearchNode{Depth: 2}
	s.Insert(first)
	s.Insert(second)
	if n, ok := s.PopNext(); !ok || n != first {
		t.Fatalf("expected the earlier-inserted node to win a depth tie")
	}
}

func TestHybridSearchSpaceAlternatesDFSAndBestFirst(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	boxWide := NewBox(scope)
	boxWide.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 100)))
	boxNarrow := NewBox(scope)
	boxNarrow.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 1)))

	s := NewHybridSearchSpace(MetricBoxPerimeter, 2)
	wide := &SearchNode{Box: boxWide, Depth: 0}
	narrow := &SearchNode{Box: boxNarrow, Depth: 1}
	s.Insert(wide)
	s.Insert(narrow)

	// call 1 (not a multiple of period): plain DFS pop -> narrow (last inserted)
	n1, _ := s.PopNext()
	if n1 != narrow {
		t.Fatalf("expected the first pop to be the LIFO top")
	}
	s.Insert(narrow)
	// call 2 (multiple of period): best-first by smallest box perimeter -> narrow
	n2, _ := s.PopNext()
	if n2 != narrow {
		t.Fatalf("expected the best-first pop to prefer the narrower box")
	}
}

func TestBoxPerimeterAndGridPerimeter(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 2)))
	box.SetDomain(vars["y"], NewIntervalDomain(NewInterval(0, 4)))
	if p := boxPerimeter(box); p != 6 {
		t.Fatalf("expected box perimeter 6, got %v", p)
	}
	if gridPerimeter(box) <= 0 {
		t.Fatalf("expected a positive grid perimeter")
	}
}
