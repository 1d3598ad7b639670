package score

import "math"

// Cmp is how a band compares its bound with the measured value.
type Cmp int

const (
	AtLeast Cmp = iota // value >= Bound
	Above              // value > Bound
	AtMost             // value <= Bound
)

// Band maps a value range to a quality ratio.
type Band struct {
	Cmp   Cmp
	Bound float64
	Ratio float64
}

func (b Band) match(v float64) bool {
	switch b.Cmp {
	case Above:
		return v > b.Bound
	case AtMost:
		return v <= b.Bound
	default:
		return v >= b.Bound
	}
}

// Bands is evaluated top to bottom; the first matching band wins and
// Fallback applies when none match.
type Bands struct {
	Table    []Band
	Fallback float64
}

// Ratio returns the quality ratio for v.
func (bs Bands) Ratio(v float64) float64 {
	for _, b := range bs.Table {
		if b.match(v) {
			return b.Ratio
		}
	}
	return bs.Fallback
}

var (
	// Over-uneven lengths rank below the ideal 0.35–0.70 window.
	sentenceBands = Bands{
		Table: []Band{
			{Above, 0.70, 0.85},
			{AtLeast, 0.35, 1.00},
			{AtLeast, 0.20, 0.70},
		},
		Fallback: 0.40,
	}
	personalBands = Bands{
		Table: []Band{
			{AtLeast, 0.30, 1.00},
			{AtLeast, 0.15, 0.75},
			{AtLeast, 0.05, 0.45},
		},
		Fallback: 0.20,
	}
	// Lower is better.
	patternBands = Bands{
		Table: []Band{
			{AtMost, 1, 1.00},
			{AtMost, 3, 0.75},
			{AtMost, 6, 0.45},
		},
		Fallback: 0.20,
	}
	paragraphBands = Bands{
		Table: []Band{
			{AtLeast, 0.40, 1.00},
			{AtLeast, 0.25, 0.70},
			{AtLeast, 0.15, 0.45},
		},
		Fallback: 0.20,
	}
	colloquialBands = Bands{
		Table: []Band{
			{AtLeast, 0.40, 1.00},
			{AtLeast, 0.20, 0.70},
			{AtLeast, 0.10, 0.40},
		},
		Fallback: 0.15,
	}
	informalBands = Bands{
		Table: []Band{
			{AtLeast, 3, 1.00},
			{AtLeast, 1.5, 0.70},
			{AtLeast, 0.5, 0.45},
		},
		Fallback: 0.15,
	}
)

// weighted scales weight by ratio, rounding half away from zero, and keeps
// the result inside [0, weight].
func weighted(weight int, ratio float64) int {
	if weight <= 0 {
		return 0
	}
	s := int(math.Round(float64(weight) * ratio))
	if s < 0 {
		return 0
	}
	if s > weight {
		return weight
	}
	return s
}
