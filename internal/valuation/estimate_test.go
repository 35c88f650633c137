package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateWorkedExample(t *testing.T) {
	a := Answers{
		BusinessStage:    "seed",
		Revenue:          "10000",
		Employees:        "6-20",
		Funding:          "0",
		GrowthRate:       "25-50",
		MarketSize:       "medium",
		CompetitionLevel: "low",
	}

	b := Explain(a)
	assert.Equal(t, 100_000.0, b.Base)
	assert.Equal(t, 30_000.0, b.Revenue)
	assert.Equal(t, 450_000.0, b.Employees)
	assert.Zero(t, b.Funding)
	assert.InDelta(t, 1.5*1.3*1.5, b.Multiplier, 1e-9)
	assert.Equal(t, int64(1_696_500), b.Point)
	assert.Equal(t, Range{Min: 1_442_025, Max: 1_950_975}, Estimate(a))
}

func TestEstimateDefaultsAndParsing(t *testing.T) {
	tests := []struct {
		name string
		a    Answers
		want int64
	}{
		{"empty answers use default base and one employee", Answers{}, 50_000 + 75_000},
		{"unknown stage falls back", Answers{BusinessStage: "ipo"}, 50_000 + 75_000},
		{"currency formatting tolerated", Answers{BusinessStage: "pre-seed", Revenue: "$1,000", Employees: "1-5"}, 25_000 + 3_000 + 75_000},
		{"negative revenue ignored", Answers{BusinessStage: "pre-seed", Revenue: "-500", Employees: "1-5"}, 25_000 + 75_000},
		{"funding adds half", Answers{BusinessStage: "pre-seed", Employees: "1-5", Funding: "200000"}, 25_000 + 75_000 + 100_000},
		{"open-ended band", Answers{BusinessStage: "growth", Employees: "200+"}, 5_000_000 + 200*75_000},
		{"zero band counts as one", Answers{BusinessStage: "pre-seed", Employees: "0"}, 25_000 + 75_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.a).Point)
		})
	}
}

func TestEstimateRangeProperties(t *testing.T) {
	stages := Options(FieldBusinessStage)
	growth := Options(FieldGrowthRate)
	risks := Options(FieldRiskLevel)
	require.NotEmpty(t, stages)

	for _, st := range stages {
		for _, g := range growth {
			for _, r := range risks {
				a := Answers{
					BusinessStage: st, GrowthRate: g, RiskLevel: r,
					Revenue: "123456", Employees: "21-50", Funding: "75000",
					MarketSize: "large", CompetitionLevel: "high",
				}
				b := Explain(a)
				rng := Estimate(a)
				assert.LessOrEqual(t, rng.Min, rng.Max)
				assert.InDelta(t, 0.30*float64(b.Point), float64(rng.Max-rng.Min), 1.0)
				// deterministic
				assert.Equal(t, rng, Estimate(a))
			}
		}
	}
}

func TestEstimateExtremeAmounts(t *testing.T) {
	for _, v := range []string{"Inf", "-Inf", "NaN", "1e300", "9e18", "5e18"} {
		t.Run(v, func(t *testing.T) {
			a := Answers{
				BusinessStage: "growth", Revenue: v, Funding: v, Employees: "200+",
				GrowthRate: "100+", MarketSize: "very-large", TeamExperience: "serial",
				Scalability: "very-high",
			}
			rng := Estimate(a)
			assert.Positive(t, rng.Min)
			assert.LessOrEqual(t, rng.Min, rng.Max)
		})
	}

	capped := Explain(Answers{Revenue: "1e300"})
	assert.Equal(t, MaxAmount*revenueWeight, capped.Revenue)
}

func TestClampPoint(t *testing.T) {
	assert.Zero(t, clampPoint(math.NaN()))
	assert.Zero(t, clampPoint(-10))
	assert.Equal(t, int64(maxPoint), clampPoint(math.Inf(1)))
	assert.Equal(t, int64(maxPoint), clampPoint(1e30))
	assert.Equal(t, int64(1_235), clampPoint(1_234.6))

	b := bandAround(clampPoint(math.Inf(1)))
	assert.Less(t, b.Min, b.Max)
}

func TestEstimateMultipliersCompose(t *testing.T) {
	base := Answers{BusinessStage: "early", Employees: "1-5"}
	plain := Explain(base).Point

	boosted := base
	boosted.TeamExperience = "serial"
	boosted.Scalability = "very-high"
	got := Explain(boosted).Point
	assert.Equal(t, int64(math.Round(float64(plain)*1.6*1.6)), got)
}

func TestOptionsSortedByWeight(t *testing.T) {
	assert.Equal(t, []string{"pre-seed", "seed", "early", "series-a", "growth"}, Options(FieldBusinessStage))
	assert.Equal(t, []string{"very-high", "high", "medium", "low"}, Options(FieldCompetitionLevel))
	assert.Nil(t, Options(FieldCompanyName))
}
