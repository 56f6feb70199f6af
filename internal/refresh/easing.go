package refresh

import "math"

const (
	shiftCutoff  = 160.0
	shiftCeiling = 100.0
)

// shiftCoefficients are c0..c4 of the resistance polynomial.
var shiftCoefficients = [5]float64{
	1.3737447856830951e+000,
	7.6879472420430739e-001,
	2.8697969370004082e-003,
	-3.5206414956983544e-005,
	7.0853953049069964e-008,
}

// ShiftForDelta maps a raw gesture translation to an effective shift with
// diminishing returns: 0 for non-positive input, a quartic resistance curve
// up to the cutoff, and a flat 100 beyond it.
func ShiftForDelta(delta float64) float64 {
	if delta <= 0 {
		return 0
	}
	if delta > shiftCutoff {
		return shiftCeiling
	}

	// Horner form of c0 + c1·d + c2·d² + c3·d³ + c4·d⁴
	c := shiftCoefficients
	y := c[0] + delta*(c[1]+delta*(c[2]+delta*(c[3]+delta*c[4])))
	return math.Min(y, shiftCeiling)
}
