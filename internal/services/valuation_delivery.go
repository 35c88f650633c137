package services

import (
	"context"

	"go.uber.org/zap"

	"ydadvisory/internal/utils"
	"ydadvisory/internal/valuation"
)

// FormSubmitter posts computed reports to the form-collection endpoint.
type FormSubmitter struct {
	Client *utils.FormClient
}

func NewFormSubmitter(c *utils.FormClient) *FormSubmitter {
	return &FormSubmitter{Client: c}
}

func (f *FormSubmitter) Submit(ctx context.Context, s valuation.Submission) error {
	fields := []utils.FormField{
		{Name: "_subject", Value: s.Subject},
		{Name: "_replyto", Value: s.ReplyTo},
	}
	if s.CC != "" {
		fields = append(fields, utils.FormField{Name: "_cc", Value: s.CC})
	}
	fields = append(fields,
		utils.FormField{Name: "message", Value: s.Message},
		utils.FormField{Name: "company_name", Value: s.CompanyName},
		utils.FormField{Name: "email", Value: s.Email},
		utils.FormField{Name: "valuation", Value: s.Valuation},
		utils.FormField{Name: "industry", Value: s.Industry},
		utils.FormField{Name: "revenue", Value: s.Revenue},
		utils.FormField{Name: "employees", Value: s.Employees},
	)
	return f.Client.Post(ctx, fields)
}

// MailtoFallback stands in for a browser opening the mailto link. The link
// itself is already on the session snapshot for the client to follow; when
// email is configured the report is also sent from the server.
type MailtoFallback struct {
	email EmailService
	log   *zap.Logger
}

func NewMailtoFallback(email EmailService, log *zap.Logger) *MailtoFallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailtoFallback{email: email, log: log}
}

func (m *MailtoFallback) Open(_ context.Context, uri string, s valuation.Submission) error {
	m.log.Info("valuation mailto fallback",
		zap.String("company", s.CompanyName),
		zap.Int("uri_len", len(uri)),
	)
	if m.email == nil {
		return nil
	}
	return m.email.SendValuationReport(s, uri)
}
