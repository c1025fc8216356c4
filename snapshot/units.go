package snapshot

import "math"

// The host models parameter values in a single internal unit per measurement
// family: centimeters for lengths, radians for angles. A parameter's declared
// unit only affects presentation.
const internalUnit = "internalUnits"

// unitScale maps a unit name to its size in internal units. internalUnits
// itself scales by 1 regardless of family, which makes conversion a single
// ratio in both directions.
var unitScale = map[string]float64{
	internalUnit: 1,

	// Lengths, in centimeters.
	"mm": 0.1,
	"cm": 1,
	"m":  100,
	"in": 2.54,
	"ft": 30.48,

	// Angles, in radians.
	"rad": 1,
	"deg": math.Pi / 180,
}

// KnownUnit reports whether name is a convertible unit.
func KnownUnit(name string) bool {
	_, ok := unitScale[name]

	return ok
}

// Convert converts value between unit names. Unknown units pass the value
// through unchanged, keeping rendering total: a bad unit shows up as an
// unconverted number rather than a failed render.
func (s *Snapshot) Convert(value float64, fromUnit, toUnit string) float64 {
	from, ok := unitScale[fromUnit]
	if !ok {
		return value
	}

	to, ok := unitScale[toUnit]
	if !ok {
		return value
	}

	return value * from / to
}
