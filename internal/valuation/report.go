package valuation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SubmissionState tracks delivery of a computed report to the firm.
type SubmissionState string

const (
	NotSubmitted SubmissionState = "not_submitted"
	Submitting   SubmissionState = "submitting"
	Submitted    SubmissionState = "submitted"
	Failed       SubmissionState = "failed"
)

// Submission is the payload posted to the form-collection endpoint.
type Submission struct {
	Subject     string
	ReplyTo     string
	CC          string
	Message     string
	CompanyName string
	Email       string
	Valuation   string
	Industry    string
	Revenue     string
	Employees   string
}

// Submitter delivers a report to the primary collection endpoint.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// MailtoOpener takes over when the primary submission fails. The uri is a
// complete mailto: link carrying the same report text.
type MailtoOpener interface {
	Open(ctx context.Context, uri string, s Submission) error
}

// FormatMoney renders an amount as "$1,234,567".
func FormatMoney(v int64) string {
	return message.NewPrinter(language.English).Sprintf("$%d", v)
}

// FormatRange renders a range as "$1,000 - $2,000".
func FormatRange(r Range) string {
	return FormatMoney(r.Min) + " - " + FormatMoney(r.Max)
}

// ReportText is the human-readable body that is emailed to the firm and
// offered to the user as a mailto fallback.
func ReportText(a Answers, r Range) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BUSINESS VALUATION REPORT\n\n")
	fmt.Fprintf(&b, "Estimated valuation: %s\n\n", FormatRange(r))

	for _, sec := range ReportSections {
		fmt.Fprintf(&b, "%s\n", strings.ToUpper(sec.Title))
		for _, f := range sec.Fields {
			v := a.Get(f)
			if v == "" {
				v = "Not provided"
			}
			fmt.Fprintf(&b, "  %s: %s\n", Label(f), v)
		}
		b.WriteString("\n")
	}
	b.WriteString(Disclaimer + "\n")
	return b.String()
}

// Section groups answers under a heading in rendered reports.
type Section struct {
	Title  string
	Fields []Field
}

var ReportSections = []Section{
	{"Company", []Field{FieldCompanyName, FieldWebsite, FieldCountry, FieldIndustry, FieldBusinessStage, FieldFoundedYear}},
	{"Financials", []Field{FieldRevenue, FieldEmployees, FieldFunding, FieldProfitMargin}},
	{"Market", []Field{FieldGrowthRate, FieldMarketSize, FieldCompetitionLevel}},
	{"Team & Technology", []Field{FieldTeamExperience, FieldTechnologyLevel}},
	{"Assets", []Field{FieldIntellectualProperty, FieldCustomerBase}},
	{"Risk", []Field{FieldFinancialHealth, FieldRiskLevel}},
	{"Opportunity", []Field{FieldGrowthOpportunities, FieldScalability}},
	{"Contact", []Field{FieldContactName, FieldEmail}},
}

// Disclaimer closes every rendered report.
const Disclaimer = "This estimate is indicative only and does not constitute a formal valuation."

// Label is the human name of a field.
func Label(f Field) string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	switch f {
	case FieldWebsite:
		return "Website"
	case FieldFoundedYear:
		return "Founded"
	case FieldProfitMargin:
		return "Profit margin"
	case FieldContactName:
		return "Contact name"
	}
	return string(f)
}

// SubmissionConfig carries the firm-side addressing of a report.
type SubmissionConfig struct {
	CC string
}

// NewSubmission assembles the outbound payload for a computed session.
func NewSubmission(a Answers, r Range, cfg SubmissionConfig) Submission {
	company := a.CompanyName
	if company == "" {
		company = "Unknown company"
	}
	return Submission{
		Subject:     "New Business Valuation Request - " + company,
		ReplyTo:     a.Email,
		CC:          cfg.CC,
		Message:     ReportText(a, r),
		CompanyName: a.CompanyName,
		Email:       a.Email,
		Valuation:   FormatRange(r),
		Industry:    a.Industry,
		Revenue:     a.Revenue,
		Employees:   a.Employees,
	}
}

// MailtoURI builds a mailto: link with the subject and body percent-encoded.
func MailtoURI(to string, s Submission) string {
	q := "subject=" + escapeComponent(s.Subject) + "&body=" + escapeComponent(s.Message)
	if s.CC != "" {
		q = "cc=" + escapeComponent(s.CC) + "&" + q
	}
	return "mailto:" + to + "?" + q
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
