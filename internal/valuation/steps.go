package valuation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Step is a position in the wizard. Steps 1 through 8 collect data;
// StepComputing and StepReport are display states the user cannot edit.
type Step int

const (
	StepCompany Step = iota + 1
	StepFinancials
	StepMarket
	StepTeam
	StepAssets
	StepRisk
	StepOpportunity
	StepContact
	StepComputing
	StepReport
)

// String renders the step the way it is persisted: 1..8, "8.5" while
// computing, "9" for the report.
func (s Step) String() string {
	switch s {
	case StepComputing:
		return "8.5"
	case StepReport:
		return "9"
	}
	return strconv.Itoa(int(s))
}

// ParseStep is the inverse of Step.String.
func ParseStep(v string) (Step, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "8.5":
		return StepComputing, nil
	case "9":
		return StepReport, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < int(StepCompany) || n > int(StepContact) {
		return 0, fmt.Errorf("invalid step %q", v)
	}
	return Step(n), nil
}

// MarshalJSON emits the step as a bare number, 8.5 included.
func (s Step) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsInput reports whether the step collects answers.
func (s Step) IsInput() bool {
	return s >= StepCompany && s <= StepContact
}

var requiredFields = map[Step][]Field{
	StepCompany:     {FieldCompanyName, FieldCountry, FieldIndustry, FieldBusinessStage},
	StepFinancials:  {FieldRevenue, FieldEmployees},
	StepMarket:      {FieldGrowthRate, FieldMarketSize, FieldCompetitionLevel},
	StepTeam:        {FieldTeamExperience, FieldTechnologyLevel},
	StepAssets:      {FieldIntellectualProperty, FieldCustomerBase},
	StepRisk:        {FieldFinancialHealth, FieldRiskLevel},
	StepOpportunity: {FieldGrowthOpportunities, FieldScalability},
	StepContact:     {FieldEmail},
}

var fieldLabels = map[Field]string{
	FieldCompanyName:          "Company name",
	FieldCountry:              "Country",
	FieldIndustry:             "Industry",
	FieldBusinessStage:        "Business stage",
	FieldRevenue:              "Revenue",
	FieldEmployees:            "Number of employees",
	FieldFunding:              "Funding",
	FieldGrowthRate:           "Growth rate",
	FieldMarketSize:           "Market size",
	FieldCompetitionLevel:     "Competition level",
	FieldTeamExperience:       "Team experience",
	FieldTechnologyLevel:      "Technology level",
	FieldIntellectualProperty: "Intellectual property",
	FieldCustomerBase:         "Customer base",
	FieldFinancialHealth:      "Financial health",
	FieldRiskLevel:            "Risk level",
	FieldGrowthOpportunities:  "Growth opportunities",
	FieldScalability:          "Scalability",
	FieldEmail:                "Email",
}

// RequiredFields returns the fields a step needs before it can be left forward.
func RequiredFields(s Step) []Field {
	return append([]Field(nil), requiredFields[s]...)
}

// FieldErrors maps a field to the message shown next to it.
type FieldErrors map[Field]string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the form's email rule: something, an @, something, a dot,
// something.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidateStep checks a step's required fields and format rules. An empty map
// means the step may be left forward.
func ValidateStep(s Step, a Answers) FieldErrors {
	errs := FieldErrors{}
	for _, f := range requiredFields[s] {
		if strings.TrimSpace(a.Get(f)) == "" {
			errs[f] = fieldLabels[f] + " is required"
		}
	}

	switch s {
	case StepFinancials:
		for _, f := range []Field{FieldRevenue, FieldFunding} {
			if _, missing := errs[f]; missing {
				continue
			}
			if v := strings.TrimSpace(a.Get(f)); v != "" && !isAmount(v) {
				errs[f] = fieldLabels[f] + " must be a non-negative number"
			} else if v != "" && tooLarge(v) {
				errs[f] = fieldLabels[f] + " is too large"
			}
		}
	case StepContact:
		if _, missing := errs[FieldEmail]; !missing && !ValidEmail(a.Email) {
			errs[FieldEmail] = "Please enter a valid email address"
		}
	}
	return errs
}

func isAmount(s string) bool {
	v, ok := readAmount(s)
	return ok && v >= 0
}

func tooLarge(s string) bool {
	v, _ := readAmount(s)
	return v > MaxAmount
}
