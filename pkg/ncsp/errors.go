package ncsp

import (
	"fmt"

	goerrors "gopkg.in/src-d/go-errors.v1"

	pkgerrors "github.com/pkg/errors"
)

// Error taxonomy, §7. Contractors never signal Empty through these: Empty
// is a Proof value. These Kinds are reserved for the four categories that
// are allowed to cross a package boundary as an actual error.
var (
	// ErrInput marks a malformed model or parameter file (§7 category 1).
	// Always fatal; the CLI maps it to exit code 1.
	ErrInput = goerrors.NewKind("input error: %s")

	// ErrDomain marks an arithmetic precondition violated at construction
	// time, e.g. pow with a non-positive integer exponent, or an empty
	// initial variable interval (§7 category 2). Fatal at build time.
	ErrDomain = goerrors.NewKind("domain error: %s")

	// ErrLimitReached is not itself fatal (§7 category 4): the driver
	// returns its current partial result and records which budget fired
	// on the Environment. Nothing in this module returns it; it is
	// modeled as a Kind so a caller can report a fired budget as an error.
	ErrLimitReached = goerrors.NewKind("limit reached: %s")

	// ErrAssertion marks an internal invariant violation (§7 category 5):
	// an unrecoverable bug. Call sites that detect one wrap it with
	// WrapAssertion and panic with the result; nothing recovers it.
	ErrAssertion = goerrors.NewKind("assertion failure: %s")
)

// WrapAssertion attaches a stack trace to an assertion failure before it
// leaves the package that discovered the broken invariant; call sites
// panic with the result. Nothing in solver.go recovers such a panic, so
// it ends the run (§7: "Assertion failure ... treated as an
// unrecoverable bug").
func WrapAssertion(format string, args ...interface{}) error {
	return pkgerrors.WithStack(ErrAssertion.New(fmt.Sprintf(format, args...)))
}
