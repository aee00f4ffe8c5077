// Package params loads the §6 flat `KEY VALUE` parameter file (and named
// YAML presets, see preset.go) into a ncsp.Params value the solver driver
// consumes.
package params

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/gitrdm/realpaver/pkg/ncsp"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"
)

// Parse reads a flat `KEY VALUE` parameter file, one assignment per line,
// blank lines and `#` comments ignored, and applies every recognized key
// on top of ncsp.DefaultParams(). Every malformed line and every
// unrecognized key is collected rather than aborting at the first one,
// then surfaced together as a single ncsp.ErrInput (§7 category 1).
func Parse(text string) (ncsp.Params, error) {
	p := ncsp.DefaultParams()
	var errs *multierror.Error

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			errs = multierror.Append(errs, fmt.Errorf("line %d: expected KEY VALUE, found %q", lineNo, line))
			continue
		}
		key := fields[0]
		value := strings.Join(fields[1:], " ")
		if err := apply(&p, key, value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %v", lineNo, err))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return p, ncsp.ErrInput.New(err.Error())
	}
	return p, nil
}

func apply(p *ncsp.Params, key, value string) error {
	switch key {
	case "PREPROCESSING":
		return assignBool(&p.Preprocessing, value)
	case "PROPAGATION_BASE":
		return assignEnum(&p.PropagationBase, value, "HC4", "BC4")
	case "PROPAGATION_DTOL":
		return assignFloat(&p.PropagationDTol, value)
	case "PROPAGATION_ITER_LIMIT":
		return assignInt(&p.PropagationIterLimit, value)
	case "PROPAGATION_WITH_CID":
		return assignBool(&p.PropagationWithCID, value)
	case "PROPAGATION_WITH_POLYTOPE":
		return assignEnum(&p.PropagationWithPolytope, value, "no", "RLT", "TAYLOR")
	case "PROPAGATION_WITH_NEWTON":
		return assignBool(&p.PropagationWithNewton, value)
	case "NEWTON_XTOL":
		return assignFloat(&p.NewtonXTol, value)
	case "NEWTON_DTOL":
		return assignFloat(&p.NewtonDTol, value)
	case "NEWTON_ITER_LIMIT":
		return assignInt(&p.NewtonIterLimit, value)
	case "INFLATION_DELTA":
		return assignFloat(&p.InflationDelta, value)
	case "INFLATION_CHI":
		return assignFloat(&p.InflationChi, value)
	case "GAUSS_SEIDEL_XTOL":
		return assignFloat(&p.GaussSeidelXTol, value)
	case "GAUSS_SEIDEL_DTOL":
		return assignFloat(&p.GaussSeidelDTol, value)
	case "GAUSS_SEIDEL_ITER_LIMIT":
		return assignInt(&p.GaussSeidelIterLimit, value)
	case "BP_NODE_SELECTION":
		return assignEnum(&p.BPNodeSelection, value, "DFS", "BFS", "DMDFS", "IDFS", "PDFS", "GPDFS")
	case "SPLIT_SELECTOR":
		return assignEnum(&p.SplitSelector, value, "RR", "LF", "SF", "MIXED_SLF", "SSR")
	case "SPLIT_SLICER":
		return assignEnum(&p.SplitSlicer, value, "BISECTION")
	case "SPLIT_INNER":
		return assignBool(&p.SplitInner, value)
	case "TIME_LIMIT":
		return assignDuration(&p.TimeLimit, value)
	case "NODE_LIMIT":
		return assignInt(&p.NodeLimit, value)
	case "SOLUTION_LIMIT":
		return assignInt(&p.SolutionLimit, value)
	case "DEPTH_LIMIT":
		return assignInt(&p.DepthLimit, value)
	case "SOLUTION_CLUSTER_GAP":
		return assignFloat(&p.SolutionClusterGap, value)
	case "RELAXATION_EQ_TOL":
		return assignFloat(&p.RelaxationEqTol, value)
	case "NEWTON_CERTIFY_ITER_LIMIT":
		return assignInt(&p.NewtonCertifyIterLimit, value)
	case "NEWTON_CERTIFY_DTOL":
		return assignFloat(&p.NewtonCertifyDTol, value)
	default:
		return fmt.Errorf("unrecognized parameter key %q", key)
	}
}

func assignFloat(dst *float64, value string) error {
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return fmt.Errorf("expected a number, found %q: %v", value, err)
	}
	*dst = v
	return nil
}

func assignInt(dst *int, value string) error {
	v, err := cast.ToIntE(value)
	if err != nil {
		return fmt.Errorf("expected an integer, found %q: %v", value, err)
	}
	*dst = v
	return nil
}

func assignBool(dst *bool, value string) error {
	v, err := cast.ToBoolE(normalizeYesNo(value))
	if err != nil {
		return fmt.Errorf("expected yes/no, found %q: %v", value, err)
	}
	*dst = v
	return nil
}

func assignDuration(dst *time.Duration, value string) error {
	seconds, err := cast.ToFloat64E(value)
	if err != nil {
		return fmt.Errorf("expected a number of seconds, found %q: %v", value, err)
	}
	*dst = time.Duration(seconds * float64(time.Second))
	return nil
}

func assignEnum(dst *string, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			*dst = a
			return nil
		}
	}
	return fmt.Errorf("expected one of %v, found %q", allowed, value)
}

func normalizeYesNo(value string) string {
	switch strings.ToLower(value) {
	case "yes":
		return "true"
	case "no":
		return "false"
	default:
		return value
	}
}
