// Package csvbook implements the spreadsheet interchange format for book
// entries: a strict, all-or-nothing importer and a symmetric exporter.
// Importing an exported file yields the same entries back.
package csvbook

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/shopspring/decimal"
)

// ExportColumns is the fixed column order of exported files. Import only
// requires Date, Time and one of the cash columns.
var ExportColumns = []string{
	"Date", "Time", "Remark", "Entry by", "Mode",
	"Cash In", "Cash Out", "Balance", "Type", "Category", "Image URLs",
}

// Record is one entry in interchange form. Dates and times are held in the
// normalized storage forms (YYYY-MM-DD, HH:MM:SS).
type Record struct {
	Amount      decimal.Decimal
	Type        string
	Remark      string
	PaymentMode string
	Category    string
	EntryDate   string
	EntryTime   string
	EntryBy     string
	ImageURLs   []string
}

// Import parses CSV text into records. The first row must be a header
// containing at least Date, Time and one of Cash In/Cash Out (cells are
// trimmed before matching). Any bad row fails the whole batch: the caller
// must commit either every record or none.
func Import(content string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	columns := map[string]int{}
	for i, cell := range rows[0] {
		columns[strings.TrimSpace(cell)] = i
	}
	if _, ok := columns["Date"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "Date")
	}
	if _, ok := columns["Time"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "Time")
	}
	_, hasIn := columns["Cash In"]
	_, hasOut := columns["Cash Out"]
	if !hasIn && !hasOut {
		return nil, fmt.Errorf("missing required column %q or %q", "Cash In", "Cash Out")
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		record, err := parseRow(row, cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, cell func([]string, string) string) (Record, error) {
	dateStr := cell(row, "Date")
	if dateStr == "" {
		return Record{}, fmt.Errorf("missing date")
	}
	date, err := time.Parse(common.DisplayDateFormat, dateStr)
	if err != nil {
		return Record{}, fmt.Errorf("invalid date %q, expected e.g. %q", dateStr, "05 January 2024")
	}

	timeStr := cell(row, "Time")
	if timeStr == "" {
		return Record{}, fmt.Errorf("missing time")
	}
	clock, err := time.Parse(common.DisplayTimeFormat, timeStr)
	if err != nil {
		return Record{}, fmt.Errorf("invalid time %q, expected e.g. %q", timeStr, "2:30 PM")
	}

	cashIn := cell(row, "Cash In")
	cashOut := cell(row, "Cash Out")

	var entryType, amountStr string
	switch {
	case cashIn != "" && cashOut != "":
		return Record{}, fmt.Errorf("must have either Cash In or Cash Out, not both")
	case cashIn != "":
		entryType = common.EntryTypeCashIn
		amountStr = cashIn
	case cashOut != "":
		entryType = common.EntryTypeCashOut
		amountStr = cashOut
	default:
		return Record{}, fmt.Errorf("must have either Cash In or Cash Out")
	}

	// thousands separators are display sugar, strip before parsing
	amount, err := decimal.NewFromString(strings.ReplaceAll(amountStr, ",", ""))
	if err != nil || amount.IsNegative() {
		return Record{}, fmt.Errorf("invalid amount %q", amountStr)
	}

	remark := cell(row, "Remark")
	mode := cell(row, "Mode")
	if mode == "" {
		mode = common.DefaultPaymentMode
	}
	category := cell(row, "Category")
	if category == "" {
		category = common.DefaultCategory
	}

	urls := []string{}
	for _, url := range strings.Split(cell(row, "Image URLs"), "|") {
		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	}

	return Record{
		Amount:      amount,
		Type:        entryType,
		Remark:      remark,
		PaymentMode: mode,
		Category:    category,
		EntryDate:   date.Format(common.DateFormat),
		EntryTime:   clock.Format(common.TimeFormat),
		EntryBy:     cell(row, "Entry by"),
		ImageURLs:   urls,
	}, nil
}

// Export renders records as CSV text with the fixed ExportColumns order.
// Date and time are re-formatted to the display patterns Import accepts, so
// an exported file can be imported back unchanged. The Balance column is
// always left empty and every field is quoted.
func Export(records []Record) (string, error) {
	var b strings.Builder
	writeQuotedRow(&b, ExportColumns)

	for i, record := range records {
		date, err := time.Parse(common.DateFormat, record.EntryDate)
		if err != nil {
			return "", fmt.Errorf("record %d: invalid entry date %q", i, record.EntryDate)
		}
		clock, err := time.Parse(common.TimeFormat, record.EntryTime)
		if err != nil {
			return "", fmt.Errorf("record %d: invalid entry time %q", i, record.EntryTime)
		}

		cashIn, cashOut := "", ""
		if record.Type == common.EntryTypeCashOut {
			cashOut = record.Amount.String()
		} else {
			cashIn = record.Amount.String()
		}

		writeQuotedRow(&b, []string{
			date.Format(common.DisplayDateFormat),
			clock.Format(common.DisplayTimeFormat),
			record.Remark,
			record.EntryBy,
			record.PaymentMode,
			cashIn,
			cashOut,
			"", // Balance is never computed on export
			record.Type,
			record.Category,
			strings.Join(record.ImageURLs, " | "),
		})
	}
	return b.String(), nil
}

// writeQuotedRow emits one CSV line with every field quoted, which the
// stdlib writer cannot be told to do.
func writeQuotedRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}
