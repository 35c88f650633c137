package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"ydadvisory/internal/valuation"
)

// Generator renders documents; handlers depend on it so tests can fake it.
type Generator interface {
	WriteValuationReport(w io.Writer, data ReportData) error
}

// ReportGenerator draws the valuation report. With no FontPath it falls back
// to the built-in Helvetica, which covers Latin-1 only.
type ReportGenerator struct {
	FontPath string
	Firm     string
	fontName string
}

type ReportData struct {
	Answers     valuation.Answers
	Range       valuation.Range
	GeneratedAt time.Time
}

func NewReportGenerator(fontPath, firm string) *ReportGenerator {
	g := &ReportGenerator{FontPath: fontPath, Firm: firm, fontName: "Helvetica"}
	if fontPath != "" {
		g.fontName = "DejaVu"
	}
	if g.Firm == "" {
		g.Firm = "YD Advisory"
	}
	return g
}

func (g *ReportGenerator) WriteValuationReport(w io.Writer, data ReportData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Business Valuation Report", true)
	pdf.SetAuthor(g.Firm, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := g.setupFont(pdf)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr("BUSINESS VALUATION REPORT"), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	company := data.Answers.CompanyName
	if company == "" {
		company = "Unknown company"
	}
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s  |  %s", company, generated.Format("January 2, 2006"))), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, tr("Estimated valuation"))
	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(valuation.FormatRange(data.Range)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	g.hr(pdf)

	for _, sec := range valuation.ReportSections {
		g.sectionTitle(pdf, tr(sec.Title))
		for _, f := range sec.Fields {
			v := data.Answers.Get(f)
			if v == "" {
				v = "Not provided"
			}
			g.kvLine(pdf, tr(valuation.Label(f)), tr(v))
		}
		pdf.Ln(2)
	}
	g.hr(pdf)

	pdf.SetFont(g.fontName, "", 9)
	pdf.MultiCell(0, 5, tr(valuation.Disclaimer), "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render valuation report: %w", err)
	}
	return pdf.Output(w)
}

// setupFont registers the UTF-8 font when one is configured and returns the
// string translator matching the chosen font.
func (g *ReportGenerator) setupFont(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath == "" {
		return pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	return func(s string) string { return s }
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 6, val, "", "L", false)
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
