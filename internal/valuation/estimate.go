package valuation

import "math"

const (
	revenueWeight = 3
	perEmployee   = 75_000
	fundingWeight = 0.5

	// ±15% band around the point estimate.
	rangeLow  = 0.85
	rangeHigh = 1.15

	// Point estimates are clamped to [0, maxPoint] so the band always fits
	// an int64.
	maxPoint = 1e15
)

// Range is the published valuation band, in whole currency units.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// IsZero reports whether no estimate has been computed.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Breakdown exposes the intermediate terms of an estimate. It is what the
// report prints under "How we got here".
type Breakdown struct {
	Base       float64
	Revenue    float64
	Employees  float64
	Funding    float64
	Multiplier float64
	Point      int64
	Range      Range
}

// Estimate computes the valuation band for a set of answers. It is pure: the
// same answers always yield the same range.
func Estimate(a Answers) Range {
	return Explain(a).Range
}

// Explain is Estimate with the intermediate terms kept.
func Explain(a Answers) Breakdown {
	var b Breakdown

	b.Base = defaultBaseValue
	if v, ok := stageBaseValues[BusinessStage(a.BusinessStage)]; ok {
		b.Base = v
	}

	b.Revenue = parseAmount(a.Revenue) * revenueWeight
	b.Employees = float64(employeeLowerBound(a.Employees)) * perEmployee
	if funding := parseAmount(a.Funding); funding > 0 {
		b.Funding = funding * fundingWeight
	}

	b.Multiplier = 1.0
	for _, f := range factors {
		if m, ok := f.mult(a.Get(f.field)); ok {
			b.Multiplier *= m
		}
	}

	total := b.Base + b.Revenue + b.Employees + b.Funding
	b.Point = clampPoint(total * b.Multiplier)
	b.Range = bandAround(b.Point)
	return b
}

func clampPoint(v float64) int64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= maxPoint:
		return maxPoint
	}
	return int64(math.Round(v))
}

func bandAround(point int64) Range {
	p := float64(point)
	return Range{
		Min: int64(math.Round(p * rangeLow)),
		Max: int64(math.Round(p * rangeHigh)),
	}
}
