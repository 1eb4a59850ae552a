package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// Color scheme - professional dark blue theme
var (
	colorPrimary    = [3]int{30, 58, 95}    // Dark navy
	colorAccent     = [3]int{46, 204, 113}  // Green
	colorWarning    = [3]int{241, 196, 15}  // Yellow
	colorDanger     = [3]int{231, 76, 60}   // Red
	colorTextDark   = [3]int{44, 62, 80}    // Dark text
	colorTextMuted  = [3]int{127, 140, 141} // Muted text
	colorBackground = [3]int{248, 249, 250} // Light gray bg
	colorGridLine   = [3]int{220, 220, 220} // Chart grid
)

// exampleByKeyword maps issue keywords to a short real-world example shown in
// the annotated section of the export.
var exampleByKeyword = []struct {
	keyword string
	example string
}{
	{"call-to-action", "Basecamp's landing page keeps its signup button visible in the first viewport on every device."},
	{"contrast", "GOV.UK uses near-black text on white and reserves color for interactive elements only."},
	{"navigation", "Stripe's docs collapse dozens of pages into six top-level groups with progressive disclosure."},
	{"form", "Shopify's checkout validates each field on blur and keeps error text next to the field it describes."},
	{"weight", "The Guardian ships a sub-500KB critical path and defers everything below the fold."},
}

// PDFGenerator renders audit reports for download.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Generate renders one report. includeExamples controls the annotated
// examples section; the caller decides it from the account's stored plan.
func (g *PDFGenerator) Generate(report *model.Report, includeExamples bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)

	pdf.AddPage()
	g.writeHeader(pdf, report)
	g.writeScoreBox(pdf, report)
	g.writeIssues(pdf, report, includeExamples)
	g.writeRecommendations(pdf, report)
	g.writeFooter(pdf, report, includeExamples)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *PDFGenerator) writeHeader(pdf *fpdf.Fpdf, report *model.Report) {
	pageWidth, _ := pdf.GetPageSize()

	// Top accent bar
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 8, "F")

	pdf.SetY(18)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 12, "UXAuditPro", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 7, "UX Audit Report", "", 1, "L", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 8, report.URL, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 6, fmt.Sprintf("Audited: %s", report.CreatedAt.Format("January 2, 2006 at 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (g *PDFGenerator) writeScoreBox(pdf *fpdf.Fpdf, report *model.Report) {
	pageWidth, _ := pdf.GetPageSize()
	boxX := 20.0
	boxWidth := pageWidth - 40
	boxHeight := 30.0

	pdf.SetFillColor(colorBackground[0], colorBackground[1], colorBackground[2])
	pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	pdf.RoundedRect(boxX, pdf.GetY(), boxWidth, boxHeight, 3, "1234", "FD")

	pdf.SetY(pdf.GetY() + 6)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 7, "UX SCORE", "", 1, "C", false, 0, "")

	scoreColor := scoreColorFor(report.UXScore)
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(scoreColor[0], scoreColor[1], scoreColor[2])
	pdf.CellFormat(0, 11, fmt.Sprintf("%d / 100", report.UXScore), "", 1, "C", false, 0, "")
	pdf.Ln(10)
}

func (g *PDFGenerator) writeIssues(pdf *fpdf.Fpdf, report *model.Report, includeExamples bool) {
	g.writeSectionTitle(pdf, fmt.Sprintf("Issues Found (%d)", len(report.Issues)))

	for i, issue := range report.Issues {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(colorDanger[0], colorDanger[1], colorDanger[2])
		pdf.CellFormat(8, 7, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")

		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.MultiCell(0, 7, issue, "", "L", false)

		if includeExamples {
			if example := exampleFor(issue); example != "" {
				pdf.SetX(28)
				pdf.SetFont("Arial", "I", 9)
				pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
				pdf.MultiCell(0, 5, "Example: "+example, "", "L", false)
			}
		}
		pdf.Ln(2)
	}
	pdf.Ln(4)
}

func (g *PDFGenerator) writeRecommendations(pdf *fpdf.Fpdf, report *model.Report) {
	g.writeSectionTitle(pdf, "Recommendations")

	for _, rec := range report.Recommendations {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(colorAccent[0], colorAccent[1], colorAccent[2])
		pdf.CellFormat(8, 7, "-", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.MultiCell(0, 7, rec, "", "L", false)
		pdf.Ln(1)
	}
}

func (g *PDFGenerator) writeFooter(pdf *fpdf.Fpdf, report *model.Report, includeExamples bool) {
	_, pageHeight := pdf.GetPageSize()
	pdf.SetY(pageHeight - 20)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	footer := fmt.Sprintf("UXAuditPro - report %s", report.ID.String())
	if !includeExamples {
		footer += "  |  Upgrade to Pro for annotated examples"
	}
	pdf.CellFormat(0, 6, footer, "", 1, "C", false, 0, "")
}

func (g *PDFGenerator) writeSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	pdf.Line(20, pdf.GetY(), 120, pdf.GetY())
	pdf.Ln(4)
}

func scoreColorFor(score int) [3]int {
	switch {
	case score >= 85:
		return colorAccent
	case score >= 70:
		return colorWarning
	default:
		return colorDanger
	}
}

func exampleFor(issue string) string {
	lowered := strings.ToLower(issue)
	for _, e := range exampleByKeyword {
		if strings.Contains(lowered, e.keyword) {
			return e.example
		}
	}
	return ""
}
