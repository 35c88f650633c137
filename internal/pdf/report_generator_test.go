package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ydadvisory/internal/valuation"
)

func TestWriteValuationReport(t *testing.T) {
	g := NewReportGenerator("", "")
	var buf bytes.Buffer
	err := g.WriteValuationReport(&buf, ReportData{
		Answers: valuation.Answers{
			CompanyName: "Café Nordic",
			Industry:    "food",
			Revenue:     "250000",
			Email:       "owner@example.com",
		},
		Range:       valuation.Range{Min: 1_442_025, Max: 1_950_975},
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWriteValuationReportMissingFont(t *testing.T) {
	g := NewReportGenerator("/does/not/exist.ttf", "")
	var buf bytes.Buffer
	err := g.WriteValuationReport(&buf, ReportData{Range: valuation.Range{Min: 1, Max: 2}})
	assert.Error(t, err)
}
