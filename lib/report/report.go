// Package report renders a book's ledger as a printable PDF statement.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/ledger"
	"github.com/shopspring/decimal"
)

type Options struct {
	BookName    string
	Title       string // branding title shown in the footer
	GeneratedAt time.Time
}

var columnWidths = []float64{28, 18, 52, 26, 26, 20, 20}

var columnTitles = []string{"Date", "Time", "Remark", "Category", "Mode", "Amount", "Balance"}

// Render produces the PDF bytes for the entries, expected newest first.
// The table itself is printed oldest first so the balance column reads as
// a running total from top to bottom.
func Render(entries []models.Entry, opts Options) ([]byte, error) {
	totals := ledger.Totals(entries)
	balances := ledger.RunningBalances(entries)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(opts.BookName, true)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("%s  |  Page %d", opts.Title, pdf.PageNo())
		pdf.CellFormat(0, 8, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, opts.BookName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, "Generated on "+opts.GeneratedAt.Format("02 January 2006 3:04 PM"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeSummary(pdf, totals)
	pdf.Ln(4)
	writeHeader(pdf)

	// Walk backwards: the slice is newest first, the page reads oldest first.
	for i := len(entries) - 1; i >= 0; i-- {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeHeader(pdf)
		}
		writeRow(pdf, &entries[i], balances[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(pdf *fpdf.Fpdf, totals ledger.Balance) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	cells := []struct {
		label string
		value decimal.Decimal
	}{
		{"Cash In", totals.TotalIn},
		{"Cash Out", totals.TotalOut},
		{"Net Balance", totals.Net},
	}
	for _, c := range cells {
		pdf.CellFormat(63, 7, fmt.Sprintf("%s: %s", c.label, c.value.String()), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.SetTextColor(0, 0, 0)
	for i, title := range columnTitles {
		pdf.CellFormat(columnWidths[i], 7, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func writeRow(pdf *fpdf.Fpdf, entry *models.Entry, balance decimal.Decimal) {
	pdf.SetFont("Helvetica", "", 9)
	amount := entry.Amount.String()
	if entry.Type == common.EntryTypeCashOut {
		amount = "-" + amount
	}
	remark := entry.Remark
	if len(remark) > 34 {
		remark = remark[:31] + "..."
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(columnWidths[0], 7, entry.EntryDate, "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[1], 7, entry.EntryTime, "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[2], 7, remark, "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[3], 7, entry.Category, "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[4], 7, entry.PaymentMode, "1", 0, "L", false, 0, "")
	if entry.Type == common.EntryTypeCashOut {
		pdf.SetTextColor(180, 40, 40)
	} else {
		pdf.SetTextColor(30, 120, 50)
	}
	pdf.CellFormat(columnWidths[5], 7, amount, "1", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(columnWidths[6], 7, balance.String(), "1", 1, "R", false, 0, "")
}
