package valuation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names a single wizard answer. The string value doubles as the JSON key
// used in the persisted form data.
type Field string

const (
	FieldCompanyName          Field = "companyName"
	FieldWebsite              Field = "website"
	FieldCountry              Field = "country"
	FieldIndustry             Field = "industry"
	FieldBusinessStage        Field = "businessStage"
	FieldFoundedYear          Field = "foundedYear"
	FieldRevenue              Field = "revenue"
	FieldEmployees            Field = "employees"
	FieldFunding              Field = "funding"
	FieldProfitMargin         Field = "profitMargin"
	FieldGrowthRate           Field = "growthRate"
	FieldMarketSize           Field = "marketSize"
	FieldCompetitionLevel     Field = "competitionLevel"
	FieldTeamExperience       Field = "teamExperience"
	FieldTechnologyLevel      Field = "technologyLevel"
	FieldIntellectualProperty Field = "intellectualProperty"
	FieldCustomerBase         Field = "customerBase"
	FieldFinancialHealth      Field = "financialHealth"
	FieldRiskLevel            Field = "riskLevel"
	FieldGrowthOpportunities  Field = "growthOpportunities"
	FieldScalability          Field = "scalability"
	FieldContactName          Field = "contactName"
	FieldEmail                Field = "email"
)

// Answers holds everything the user typed or selected. All fields are optional
// here; required-ness is enforced per step by ValidateStep.
type Answers struct {
	CompanyName          string `json:"companyName"`
	Website              string `json:"website"`
	Country              string `json:"country"`
	Industry             string `json:"industry"`
	BusinessStage        string `json:"businessStage"`
	FoundedYear          string `json:"foundedYear"`
	Revenue              string `json:"revenue"`
	Employees            string `json:"employees"`
	Funding              string `json:"funding"`
	ProfitMargin         string `json:"profitMargin"`
	GrowthRate           string `json:"growthRate"`
	MarketSize           string `json:"marketSize"`
	CompetitionLevel     string `json:"competitionLevel"`
	TeamExperience       string `json:"teamExperience"`
	TechnologyLevel      string `json:"technologyLevel"`
	IntellectualProperty string `json:"intellectualProperty"`
	CustomerBase         string `json:"customerBase"`
	FinancialHealth      string `json:"financialHealth"`
	RiskLevel            string `json:"riskLevel"`
	GrowthOpportunities  string `json:"growthOpportunities"`
	Scalability          string `json:"scalability"`
	ContactName          string `json:"contactName"`
	Email                string `json:"email"`
}

var fieldRefs = map[Field]func(a *Answers) *string{
	FieldCompanyName:          func(a *Answers) *string { return &a.CompanyName },
	FieldWebsite:              func(a *Answers) *string { return &a.Website },
	FieldCountry:              func(a *Answers) *string { return &a.Country },
	FieldIndustry:             func(a *Answers) *string { return &a.Industry },
	FieldBusinessStage:        func(a *Answers) *string { return &a.BusinessStage },
	FieldFoundedYear:          func(a *Answers) *string { return &a.FoundedYear },
	FieldRevenue:              func(a *Answers) *string { return &a.Revenue },
	FieldEmployees:            func(a *Answers) *string { return &a.Employees },
	FieldFunding:              func(a *Answers) *string { return &a.Funding },
	FieldProfitMargin:         func(a *Answers) *string { return &a.ProfitMargin },
	FieldGrowthRate:           func(a *Answers) *string { return &a.GrowthRate },
	FieldMarketSize:           func(a *Answers) *string { return &a.MarketSize },
	FieldCompetitionLevel:     func(a *Answers) *string { return &a.CompetitionLevel },
	FieldTeamExperience:       func(a *Answers) *string { return &a.TeamExperience },
	FieldTechnologyLevel:      func(a *Answers) *string { return &a.TechnologyLevel },
	FieldIntellectualProperty: func(a *Answers) *string { return &a.IntellectualProperty },
	FieldCustomerBase:         func(a *Answers) *string { return &a.CustomerBase },
	FieldFinancialHealth:      func(a *Answers) *string { return &a.FinancialHealth },
	FieldRiskLevel:            func(a *Answers) *string { return &a.RiskLevel },
	FieldGrowthOpportunities:  func(a *Answers) *string { return &a.GrowthOpportunities },
	FieldScalability:          func(a *Answers) *string { return &a.Scalability },
	FieldContactName:          func(a *Answers) *string { return &a.ContactName },
	FieldEmail:                func(a *Answers) *string { return &a.Email },
}

// Fields lists every answer field in form order.
var Fields = []Field{
	FieldCompanyName, FieldWebsite, FieldCountry, FieldIndustry, FieldBusinessStage,
	FieldFoundedYear, FieldRevenue, FieldEmployees, FieldFunding, FieldProfitMargin,
	FieldGrowthRate, FieldMarketSize, FieldCompetitionLevel, FieldTeamExperience,
	FieldTechnologyLevel, FieldIntellectualProperty, FieldCustomerBase, FieldFinancialHealth,
	FieldRiskLevel, FieldGrowthOpportunities, FieldScalability, FieldContactName, FieldEmail,
}

var ErrUnknownField = errors.New("unknown field")

// IsField reports whether f names an answer.
func IsField(f Field) bool {
	_, ok := fieldRefs[f]
	return ok
}

// Get returns the value of f, or "" for an unknown field.
func (a *Answers) Get(f Field) string {
	ref, ok := fieldRefs[f]
	if !ok {
		return ""
	}
	return *ref(a)
}

// Set assigns v to f.
func (a *Answers) Set(f Field, v string) error {
	ref, ok := fieldRefs[f]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, f)
	}
	*ref(a) = v
	return nil
}

// IsEmpty reports whether no field has been filled in.
func (a Answers) IsEmpty() bool {
	return a == Answers{}
}

// MaxAmount is the largest revenue or funding figure the form accepts.
const MaxAmount = 1e12

// readAmount parses a user-entered money figure. Thousands separators and a
// leading currency sign are tolerated. NaN and infinities are rejected.
func readAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseAmount is readAmount for the estimate: anything unparseable or
// negative is 0 and figures above MaxAmount are capped.
func parseAmount(s string) float64 {
	v, ok := readAmount(s)
	if !ok || v < 0 {
		return 0
	}
	return min(v, MaxAmount)
}

// employeeLowerBound extracts the lower bound of a band like "6-20" or "200+".
// Unparseable or zero bands count as a single employee.
func employeeLowerBound(band string) int {
	band = strings.TrimSpace(band)
	end := 0
	for end < len(band) && band[end] >= '0' && band[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(band[:end])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
