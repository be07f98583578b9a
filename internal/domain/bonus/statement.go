package bonus

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrmportal/internal/hrapi"
)

// WriteStatement renders a bonus history as a one-table PDF.
func WriteStatement(w io.Writer, holder string, items []Bonus, generated time.Time) error {
	totals := Sum(items)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bonus statement", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bonus statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", holder))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04 MST")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total earned: $%s", FormatMoney(totals.Earned)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pending: $%s", FormatMoney(totals.Pending)))
	pdf.Ln(12)

	widths := []float64{30, 32, 28, 70, 28}
	pdf.SetFont("Helvetica", "B", 11)
	for i, heading := range []string{"Period", "Type", "Amount", "Reason", "Status"} {
		pdf.CellFormat(widths[i], 8, heading, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(items) == 0 {
		pdf.CellFormat(188, 8, "No bonuses received yet.", "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	for _, b := range items {
		reason := b.Reason
		if len(reason) > 40 {
			reason = reason[:37] + "..."
		}
		row := []string{hrapi.FormatDate(b.Period), b.Type, "$" + FormatMoney(b.Amount.Float()), reason, b.Status}
		for i, value := range row {
			pdf.CellFormat(widths[i], 8, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
