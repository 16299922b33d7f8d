package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// Report renders a printable summary: overview numbers, the sentiment split
// and the top flagged categories.
func Report(w io.Writer, view domain.DatasetView, ag domain.Aggregates) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Review Insights: "+view.Info.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Review Insights", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(110, 110, 110)
	meta := fmt.Sprintf("%s, uploaded %s", view.Info.Name, view.Info.CreatedAt.Format("2006-01-02 15:04 UTC"))
	pdf.CellFormat(0, 6, meta, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	sm := view.Summary
	section(pdf, "Overview")
	pdf.SetFont("Helvetica", "", 11)
	overview := [][2]string{
		{"Reviews", strconv.Itoa(sm.Total)},
		{"Analyzed", strconv.Itoa(sm.Total - sm.Unavailable)},
		{"Analysis unavailable", strconv.Itoa(sm.Unavailable)},
		{"With a rating", strconv.Itoa(sm.Rated)},
		{"Average rating", avgCell(sm.AvgRating)},
	}
	for _, row := range overview {
		pdf.CellFormat(70, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	section(pdf, "Sentiment")
	countsTable(pdf, ag.Sentiments, sm.Total)

	section(pdf, "Top problems")
	countsTable(pdf, top(ag.Problems, 5), 0)

	section(pdf, "Top suggestions")
	countsTable(pdf, top(ag.Suggestions, 5), 0)

	section(pdf, "Top topics")
	countsTable(pdf, top(ag.Topics, 5), 0)

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func countsTable(pdf *fpdf.Fpdf, counts []domain.Count, total int) {
	if len(counts) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "nothing flagged", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		return
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, c := range counts {
		pdf.CellFormat(70, 7, c.Label, "1", 0, "L", false, 0, "")
		cell := strconv.Itoa(c.N)
		if total > 0 {
			cell = fmt.Sprintf("%d  (%.0f%%)", c.N, float64(c.N)/float64(total)*100)
		}
		pdf.CellFormat(40, 7, cell, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func top(counts []domain.Count, n int) []domain.Count {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

func avgCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f / 5", *v)
}
