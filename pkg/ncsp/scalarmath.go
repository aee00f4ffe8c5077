package ncsp

import "math"

// Scalar counterparts of the Interval transcendentals, used only by
// Term's constant folding (term.go): when every child of a composite
// term is already a constant, the fold evaluates in plain float64
// rather than building a degenerate singleton Interval and unwrapping
// it again.

func sqrtFloat(x float64) float64 { return math.Sqrt(x) }
func expFloat(x float64) float64  { return math.Exp(x) }
func logFloat(x float64) float64  { return math.Log(x) }
func cosFloat(x float64) float64  { return math.Cos(x) }
func sinFloat(x float64) float64  { return math.Sin(x) }
func tanFloat(x float64) float64  { return math.Tan(x) }
