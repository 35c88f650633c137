package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// FormField is one multipart field. Order is preserved on the wire.
type FormField struct {
	Name  string
	Value string
}

// FormClient posts multipart forms to a hosted form-collection endpoint
// (Formspree-style: JSON reply, 2xx on success).
type FormClient struct {
	Endpoint string
	DryRun   bool
	HTTP     *http.Client
	Log      *zap.Logger
}

type formResponse struct {
	OK     bool `json:"ok"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewFormClient(endpoint string, dryRun bool, log *zap.Logger) *FormClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormClient{
		Endpoint: endpoint,
		DryRun:   dryRun,
		HTTP:     &http.Client{Timeout: 20 * time.Second},
		Log:      log,
	}
}

var ErrNoEndpoint = errors.New("form endpoint not configured")

// Post sends fields to the endpoint. In dry-run mode nothing leaves the
// process; without an endpoint the post fails so callers fall back.
func (c *FormClient) Post(ctx context.Context, fields []FormField) error {
	if c.DryRun {
		c.Log.Info("[forms][dry-run] skipping submission", zap.Int("fields", len(fields)))
		return nil
	}
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return fmt.Errorf("build form request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send form: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	c.Log.Debug("[forms] response", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fr formResponse
		if json.Unmarshal(raw, &fr) == nil && len(fr.Errors) > 0 {
			return fmt.Errorf("form endpoint returned %d: %s", resp.StatusCode, fr.Errors[0].Message)
		}
		return fmt.Errorf("form endpoint returned %d", resp.StatusCode)
	}
	return nil
}
