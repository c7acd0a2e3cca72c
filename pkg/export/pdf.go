package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ProjectSummary carries the fields rendered into the summary PDF.
type ProjectSummary struct {
	Title       string
	LeaderName  string
	LeaderRegID string
	LeaderEmail string
	TeamMembers []string
	Components  string
	Status      string
	Summary     string
	CreatedAt   string
}

// PDFExporter renders project summaries into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderProjectSummary creates the one-page summary document for a project.
func (e *PDFExporter) RenderProjectSummary(p ProjectSummary) ([]byte, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("pdf requires a project title")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "IDEA LAB PROJECT SUMMARY", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, strings.ToUpper(p.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Leader", fmt.Sprintf("%s (%s)", p.LeaderName, p.LeaderRegID)},
		{"Email", p.LeaderEmail},
		{"Team Members", strings.Join(p.TeamMembers, ", ")},
		{"Components", p.Components},
		{"Status", p.Status},
		{"Created", p.CreatedAt},
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 8, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(135, 8, row[1], "1", 1, "", false, 0, "")
	}

	if p.Summary != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Summary", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, p.Summary, "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
