package valuation

import (
	"cmp"
	"slices"
	"strings"
)

// BusinessStage selects the base value of the estimate.
type BusinessStage string

const (
	StagePreSeed BusinessStage = "pre-seed"
	StageSeed    BusinessStage = "seed"
	StageEarly   BusinessStage = "early"
	StageSeriesA BusinessStage = "series-a"
	StageGrowth  BusinessStage = "growth"
)

const defaultBaseValue = 50_000

var stageBaseValues = map[BusinessStage]float64{
	StagePreSeed: 25_000,
	StageSeed:    100_000,
	StageEarly:   250_000,
	StageSeriesA: 1_000_000,
	StageGrowth:  5_000_000,
}

type GrowthRate string

const (
	GrowthNegative GrowthRate = "negative"
	Growth0To10    GrowthRate = "0-10"
	Growth10To25   GrowthRate = "10-25"
	Growth25To50   GrowthRate = "25-50"
	Growth50To100  GrowthRate = "50-100"
	GrowthOver100  GrowthRate = "100+"
)

var growthRateMultipliers = map[GrowthRate]float64{
	GrowthNegative: 0.6,
	Growth0To10:    0.9,
	Growth10To25:   1.2,
	Growth25To50:   1.5,
	Growth50To100:  2.0,
	GrowthOver100:  3.0,
}

type MarketSize string

const (
	MarketSmall     MarketSize = "small"
	MarketMedium    MarketSize = "medium"
	MarketLarge     MarketSize = "large"
	MarketVeryLarge MarketSize = "very-large"
)

var marketSizeMultipliers = map[MarketSize]float64{
	MarketSmall:     0.8,
	MarketMedium:    1.3,
	MarketLarge:     1.8,
	MarketVeryLarge: 2.5,
}

// CompetitionLevel is inverted: less competition is worth more.
type CompetitionLevel string

const (
	CompetitionLow      CompetitionLevel = "low"
	CompetitionMedium   CompetitionLevel = "medium"
	CompetitionHigh     CompetitionLevel = "high"
	CompetitionVeryHigh CompetitionLevel = "very-high"
)

var competitionMultipliers = map[CompetitionLevel]float64{
	CompetitionLow:      1.5,
	CompetitionMedium:   1.1,
	CompetitionHigh:     0.8,
	CompetitionVeryHigh: 0.6,
}

type TeamExperience string

const (
	TeamFirstTime   TeamExperience = "first-time"
	TeamSome        TeamExperience = "some"
	TeamExperienced TeamExperience = "experienced"
	TeamSerial      TeamExperience = "serial"
)

var teamExperienceMultipliers = map[TeamExperience]float64{
	TeamFirstTime:   0.8,
	TeamSome:        1.0,
	TeamExperienced: 1.3,
	TeamSerial:      1.6,
}

type TechnologyLevel string

const (
	TechBasic       TechnologyLevel = "basic"
	TechModerate    TechnologyLevel = "moderate"
	TechAdvanced    TechnologyLevel = "advanced"
	TechCuttingEdge TechnologyLevel = "cutting-edge"
)

var technologyMultipliers = map[TechnologyLevel]float64{
	TechBasic:       0.8,
	TechModerate:    1.0,
	TechAdvanced:    1.3,
	TechCuttingEdge: 1.6,
}

type IPStatus string

const (
	IPNone      IPStatus = "none"
	IPPending   IPStatus = "pending"
	IPGranted   IPStatus = "granted"
	IPPortfolio IPStatus = "portfolio"
)

var ipMultipliers = map[IPStatus]float64{
	IPNone:      0.9,
	IPPending:   1.1,
	IPGranted:   1.4,
	IPPortfolio: 1.7,
}

type CustomerBase string

const (
	CustomersNone       CustomerBase = "none"
	CustomersSmall      CustomerBase = "small"
	CustomersGrowing    CustomerBase = "growing"
	CustomersLarge      CustomerBase = "large"
	CustomersEnterprise CustomerBase = "enterprise"
)

var customerBaseMultipliers = map[CustomerBase]float64{
	CustomersNone:       0.7,
	CustomersSmall:      0.9,
	CustomersGrowing:    1.2,
	CustomersLarge:      1.5,
	CustomersEnterprise: 1.8,
}

type FinancialHealth string

const (
	HealthPoor      FinancialHealth = "poor"
	HealthFair      FinancialHealth = "fair"
	HealthGood      FinancialHealth = "good"
	HealthExcellent FinancialHealth = "excellent"
)

var financialHealthMultipliers = map[FinancialHealth]float64{
	HealthPoor:      0.6,
	HealthFair:      0.9,
	HealthGood:      1.2,
	HealthExcellent: 1.5,
}

// RiskLevel is inverted: lower risk is worth more.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very-high"
)

var riskMultipliers = map[RiskLevel]float64{
	RiskLow:      1.3,
	RiskMedium:   1.0,
	RiskHigh:     0.8,
	RiskVeryHigh: 0.6,
}

type GrowthOpportunities string

const (
	OpportunitiesLimited     GrowthOpportunities = "limited"
	OpportunitiesModerate    GrowthOpportunities = "moderate"
	OpportunitiesSignificant GrowthOpportunities = "significant"
	OpportunitiesExceptional GrowthOpportunities = "exceptional"
)

var opportunityMultipliers = map[GrowthOpportunities]float64{
	OpportunitiesLimited:     0.8,
	OpportunitiesModerate:    1.0,
	OpportunitiesSignificant: 1.3,
	OpportunitiesExceptional: 1.6,
}

type Scalability string

const (
	ScalabilityLow      Scalability = "low"
	ScalabilityMedium   Scalability = "medium"
	ScalabilityHigh     Scalability = "high"
	ScalabilityVeryHigh Scalability = "very-high"
)

var scalabilityMultipliers = map[Scalability]float64{
	ScalabilityLow:      0.8,
	ScalabilityMedium:   1.0,
	ScalabilityHigh:     1.3,
	ScalabilityVeryHigh: 1.6,
}

func lookup[K ~string](table map[K]float64) func(string) (float64, bool) {
	return func(v string) (float64, bool) {
		m, ok := table[K(v)]
		return m, ok
	}
}

type factor struct {
	field Field
	mult  func(string) (float64, bool)
}

// factors is applied in this exact order; the order is part of the published
// formula even though multiplication commutes, so that float rounding matches.
var factors = []factor{
	{FieldGrowthRate, lookup(growthRateMultipliers)},
	{FieldMarketSize, lookup(marketSizeMultipliers)},
	{FieldCompetitionLevel, lookup(competitionMultipliers)},
	{FieldTeamExperience, lookup(teamExperienceMultipliers)},
	{FieldTechnologyLevel, lookup(technologyMultipliers)},
	{FieldIntellectualProperty, lookup(ipMultipliers)},
	{FieldCustomerBase, lookup(customerBaseMultipliers)},
	{FieldFinancialHealth, lookup(financialHealthMultipliers)},
	{FieldRiskLevel, lookup(riskMultipliers)},
	{FieldGrowthOpportunities, lookup(opportunityMultipliers)},
	{FieldScalability, lookup(scalabilityMultipliers)},
}

// Options returns the accepted values of a categorical field, or nil when the
// field is free text.
func Options(f Field) []string {
	switch f {
	case FieldBusinessStage:
		return keys(stageBaseValues)
	case FieldGrowthRate:
		return keys(growthRateMultipliers)
	case FieldMarketSize:
		return keys(marketSizeMultipliers)
	case FieldCompetitionLevel:
		return keys(competitionMultipliers)
	case FieldTeamExperience:
		return keys(teamExperienceMultipliers)
	case FieldTechnologyLevel:
		return keys(technologyMultipliers)
	case FieldIntellectualProperty:
		return keys(ipMultipliers)
	case FieldCustomerBase:
		return keys(customerBaseMultipliers)
	case FieldFinancialHealth:
		return keys(financialHealthMultipliers)
	case FieldRiskLevel:
		return keys(riskMultipliers)
	case FieldGrowthOpportunities:
		return keys(opportunityMultipliers)
	case FieldScalability:
		return keys(scalabilityMultipliers)
	}
	return nil
}

func keys[K ~string](table map[K]float64) []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, string(k))
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(table[K(a)], table[K(b)]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}
