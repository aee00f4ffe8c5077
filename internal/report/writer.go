// Package report renders solution and pending-box output in the two
// modes §6 names: vertical (one `name = domain` per line) and single-line
// (`(name = domain, name = domain, ...)`), grounded on
// original_source/BoxReporter.cpp.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/realpaver/pkg/ncsp"
)

// Style selects the output layout.
type Style int

const (
	// StyleVertical reports each entity on its own line, names padded to
	// align every "=".
	StyleVertical Style = iota
	// StyleSingleLine reports every entity on one comma-separated line.
	StyleSingleLine
)

// entity is the Go analogue of BoxReporter.cpp's EntityReported: a name
// plus a way to render its value against a box, unifying variables and
// aliases behind one interface the way the original's
// VariableReported/AliasReported do.
type entity struct {
	name string
	eval func(box *ncsp.Box) string
}

// Writer reports solution and pending boxes for a fixed list of entities
// (variables plus aliases), mirroring BoxReporter's ents_ vector.
type Writer struct {
	ents  []entity
	style Style
}

// NewWriter builds a Writer over every variable in problem's scope and
// every declared alias, in that order -- the same default BoxReporter's
// Problem-constructor overload uses before any selective addVariable/
// addAlias/remove calls.
func NewWriter(problem *ncsp.Problem, style Style) *Writer {
	w := &Writer{style: style}
	for _, v := range problem.Scope.Variables() {
		v := v
		w.ents = append(w.ents, entity{
			name: v.Name(),
			eval: func(box *ncsp.Box) string { return box.Domain(v).String() },
		})
	}
	for _, a := range problem.Aliases {
		a := a
		w.ents = append(w.ents, entity{
			name: a.Name,
			eval: func(box *ncsp.Box) string { return a.Eval(box).String() },
		})
	}
	return w
}

// Remove drops the named entity from this writer's report, matching
// BoxReporter::remove.
func (w *Writer) Remove(name string) {
	kept := w.ents[:0]
	for _, e := range w.ents {
		if e.name != name {
			kept = append(kept, e)
		}
	}
	w.ents = kept
}

func (w *Writer) maxNameLength() int {
	max := 0
	for _, e := range w.ents {
		if len(e.name) > max {
			max = len(e.name)
		}
	}
	return max
}

// WriteSolution renders one tagged solution: the Proof tag ((I)/(F)/(U))
// followed by every entity's name/domain pair, vertical or single-line
// per the Writer's Style.
func (w *Writer) WriteSolution(out io.Writer, sol ncsp.Solution) error {
	if _, err := fmt.Fprintln(out, sol.Proof.Tag()); err != nil {
		return err
	}
	return w.writeEntities(out, sol.Box)
}

// WritePending renders the PENDING section header followed by every
// remaining search-space box, unreported (no Proof tag, since a pending
// box has not been classified).
func (w *Writer) WritePending(out io.Writer, boxes []*ncsp.Box) error {
	if _, err := fmt.Fprintln(out, "PENDING"); err != nil {
		return err
	}
	for _, b := range boxes {
		if err := w.writeEntities(out, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeEntities(out io.Writer, box *ncsp.Box) error {
	if w.style == StyleVertical {
		lmax := w.maxNameLength()
		for _, e := range w.ents {
			pad := strings.Repeat(" ", lmax-len(e.name))
			if _, err := fmt.Fprintf(out, "%s%s = %s\n", e.name, pad, e.eval(box)); err != nil {
				return err
			}
		}
		return nil
	}

	parts := make([]string, len(w.ents))
	for i, e := range w.ents {
		parts[i] = fmt.Sprintf("%s = %s", e.name, e.eval(box))
	}
	_, err := fmt.Fprintf(out, "(%s)\n", strings.Join(parts, ", "))
	return err
}
