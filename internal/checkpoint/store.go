// Package checkpoint persists a paused run's pending search nodes and
// collected solutions, keyed by run ID, via a boltdb/bolt-backed store,
// so `--resume RUNID` can retrieve the remaining state without
// re-solving from scratch (SPEC_FULL.md's domain-stack entry for
// boltdb/bolt). This is a supplement to spec.md, not named by it: the
// spec's own budgets (§4.9) only say a tripped limit "leaves remaining
// pending nodes retrievable by the caller" without committing to how.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/gitrdm/realpaver/pkg/ncsp"
)

var runsBucket = []byte("runs")

// domainSnapshot is a serialization-friendly projection of a ncsp.Domain:
// its sum-type case plus the interval bounds needed to rebuild it against
// a live Scope. Unions record one [lo,hi] pair per disjoint part.
type domainSnapshot struct {
	Kind  string       `json:"kind"` // "interval" | "integer" | "union"
	Parts [][2]float64 `json:"parts"`
}

type nodeSnapshot struct {
	Depth   int              `json:"depth"`
	Domains []domainSnapshot `json:"domains"`
}

type solutionSnapshot struct {
	Proof   int              `json:"proof"`
	Domains []domainSnapshot `json:"domains"`
}

type runSnapshot struct {
	Pending   []nodeSnapshot     `json:"pending"`
	Solutions []solutionSnapshot `json:"solutions"`
}

// Store wraps an open bolt database file holding one runSnapshot per run
// ID under the "runs" bucket.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpoint: initializing bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// Save snapshots every pending search node and every collected solution
// under runID, overwriting any prior checkpoint for that run.
func (s *Store) Save(runID string, pending []*ncsp.SearchNode, solutions []ncsp.Solution) error {
	snap := runSnapshot{
		Pending:   make([]nodeSnapshot, len(pending)),
		Solutions: make([]solutionSnapshot, len(solutions)),
	}
	for i, n := range pending {
		snap.Pending[i] = nodeSnapshot{Depth: n.Depth, Domains: snapshotBox(n.Box)}
	}
	for i, sol := range solutions {
		snap.Solutions[i] = solutionSnapshot{Proof: int(sol.Proof), Domains: snapshotBox(sol.Box)}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("checkpoint: encoding run %s: %w", runID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(runID), data)
	})
}

// Load rebuilds the pending search nodes and collected solutions saved
// under runID, rehydrating each snapshot's domains against scope.
func (s *Store) Load(runID string, scope *ncsp.Scope) ([]*ncsp.SearchNode, []ncsp.Solution, error) {
	var snap runSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(runsBucket).Get([]byte(runID))
		if data == nil {
			return fmt.Errorf("checkpoint: no saved run %q", runID)
		}
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return nil, nil, err
	}

	pending := make([]*ncsp.SearchNode, len(snap.Pending))
	for i, ns := range snap.Pending {
		pending[i] = &ncsp.SearchNode{Box: rehydrateBox(scope, ns.Domains), Depth: ns.Depth}
	}
	solutions := make([]ncsp.Solution, len(snap.Solutions))
	for i, ss := range snap.Solutions {
		solutions[i] = ncsp.Solution{Box: rehydrateBox(scope, ss.Domains), Proof: ncsp.Proof(ss.Proof)}
	}
	return pending, solutions, nil
}

func snapshotBox(box *ncsp.Box) []domainSnapshot {
	scope := box.Scope()
	out := make([]domainSnapshot, scope.Size())
	for slot, v := range scope.Variables() {
		dom := box.DomainAt(slot)
		if v.Kind() == ncsp.VarInteger {
			hull := dom.Hull()
			out[slot] = domainSnapshot{Kind: "integer", Parts: [][2]float64{{hull.Lo(), hull.Hi()}}}
			continue
		}
		if u, ok := dom.(*ncsp.UnionDomain); ok {
			out[slot] = domainSnapshot{Kind: "union", Parts: partsOf(u)}
			continue
		}
		hull := dom.Hull()
		out[slot] = domainSnapshot{Kind: "interval", Parts: [][2]float64{{hull.Lo(), hull.Hi()}}}
	}
	return out
}

func partsOf(u *ncsp.UnionDomain) [][2]float64 {
	parts := u.Parts()
	out := make([][2]float64, len(parts))
	for i, p := range parts {
		out[i] = [2]float64{p.Lo(), p.Hi()}
	}
	return out
}

func rehydrateBox(scope *ncsp.Scope, snaps []domainSnapshot) *ncsp.Box {
	box := ncsp.NewBox(scope)
	for slot, ds := range snaps {
		switch ds.Kind {
		case "integer":
			lo, hi := ds.Parts[0][0], ds.Parts[0][1]
			box.SetDomainAt(slot, ncsp.NewIntegerDomain(int64(lo), int64(hi)))
		case "union":
			ivs := make([]ncsp.Interval, len(ds.Parts))
			for i, p := range ds.Parts {
				ivs[i] = ncsp.NewInterval(p[0], p[1])
			}
			box.SetDomainAt(slot, ncsp.NewUnionDomain(ivs...))
		default:
			p := ds.Parts[0]
			box.SetDomainAt(slot, ncsp.NewIntervalDomain(ncsp.NewInterval(p[0], p[1])))
		}
	}
	return box
}
