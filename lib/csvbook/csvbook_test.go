package csvbook

import (
	"strings"
	"testing"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportSingleRow(t *testing.T) {
	csv := "Date,Time,Remark,Mode,Cash In,Cash Out,Category\n" +
		`"05 January 2024","2:30 PM","Groceries","UPI","1,500.50","","Food"` + "\n"

	records, err := Import(csv)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.True(t, decimal.NewFromFloat(1500.5).Equal(record.Amount))
	assert.Equal(t, common.EntryTypeCashIn, record.Type)
	assert.Equal(t, "2024-01-05", record.EntryDate)
	assert.Equal(t, "14:30:00", record.EntryTime)
	assert.Equal(t, "Groceries", record.Remark)
	assert.Equal(t, "UPI", record.PaymentMode)
	assert.Equal(t, "Food", record.Category)
}

func TestImportDefaults(t *testing.T) {
	csv := "Date,Time,Cash Out\n" +
		"12 March 2023,9:05 AM,42\n"

	records, err := Import(csv)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, common.EntryTypeCashOut, record.Type)
	assert.Equal(t, "", record.Remark)
	assert.Equal(t, common.DefaultPaymentMode, record.PaymentMode)
	assert.Equal(t, common.DefaultCategory, record.Category)
	assert.Equal(t, "2023-03-12", record.EntryDate)
	assert.Equal(t, "09:05:00", record.EntryTime)
}

func TestImportTrimsHeaderCells(t *testing.T) {
	csv := " Date , Time , Cash In \n" +
		"05 January 2024,2:30 PM,10\n"

	records, err := Import(csv)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, common.EntryTypeCashIn, records[0].Type)
}

func TestImportFailsWholeBatch(t *testing.T) {
	// second row is bad: the first must not be returned either
	csv := "Date,Time,Cash In,Cash Out\n" +
		"05 January 2024,2:30 PM,100,\n" +
		"06 January 2024,3:00 PM,,\n"

	records, err := Import(csv)
	assert.Nil(t, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "either Cash In or Cash Out")
}

func TestImportRowErrors(t *testing.T) {
	header := "Date,Time,Cash In,Cash Out\n"
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"missing date", ",2:30 PM,10,", "missing date"},
		{"bad date pattern", "2024-01-05,2:30 PM,10,", "invalid date"},
		{"missing time", "05 January 2024,,10,", "missing time"},
		{"bad time pattern", "05 January 2024,14:30,10,", "invalid time"},
		{"both cash cells empty", "05 January 2024,2:30 PM,,", "either Cash In or Cash Out"},
		{"both cash cells set", "05 January 2024,2:30 PM,10,20", "not both"},
		{"negative amount", "05 January 2024,2:30 PM,-5,", "invalid amount"},
		{"non numeric amount", "05 January 2024,2:30 PM,ten,", "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Import(header + tt.row + "\n")
			assert.Nil(t, records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 1")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportImageURLs(t *testing.T) {
	csv := "Date,Time,Cash In,Image URLs,Entry by\n" +
		`"05 January 2024","2:30 PM","10","https://img.example/a.png | https://img.example/b.png","alice"` + "\n"

	records, err := Import(csv)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"https://img.example/a.png", "https://img.example/b.png"}, records[0].ImageURLs)
	assert.Equal(t, "alice", records[0].EntryBy)
}

func TestImportMissingRequiredColumns(t *testing.T) {
	for _, csv := range []string{
		"Time,Cash In\n2:30 PM,10\n",
		"Date,Cash In\n05 January 2024,10\n",
		"Date,Time,Remark\n05 January 2024,2:30 PM,hello\n",
	} {
		records, err := Import(csv)
		assert.Nil(t, records)
		assert.Error(t, err)
	}
}

func TestExportLayout(t *testing.T) {
	records := []Record{
		{
			Amount:      decimal.RequireFromString("1500.5"),
			Type:        common.EntryTypeCashIn,
			Remark:      `say "cheese"`,
			PaymentMode: "UPI",
			Category:    "Food",
			EntryDate:   "2024-01-05",
			EntryTime:   "14:30:00",
			EntryBy:     "alice",
			ImageURLs:   []string{"https://img.example/a.png", "https://img.example/b.png"},
		},
	}

	out, err := Export(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Date","Time","Remark","Entry by","Mode","Cash In","Cash Out","Balance","Type","Category","Image URLs"`, lines[0])
	assert.Equal(t, `"05 January 2024","2:30 PM","say ""cheese""","alice","UPI","1500.5","","","cash_in","Food","https://img.example/a.png | https://img.example/b.png"`, lines[1])
}

func TestExportCashOutColumn(t *testing.T) {
	out, err := Export([]Record{{
		Amount:      decimal.RequireFromString("40"),
		Type:        common.EntryTypeCashOut,
		PaymentMode: "Cash",
		Category:    "Uncategorized",
		EntryDate:   "2024-01-06",
		EntryTime:   "08:00:00",
	}})
	require.NoError(t, err)
	assert.Contains(t, out, `"","40",""`) // Cash In empty, Cash Out set, Balance empty
}

func TestRoundTripIdempotence(t *testing.T) {
	records := []Record{
		{
			Amount:      decimal.RequireFromString("1500.5"),
			Type:        common.EntryTypeCashIn,
			Remark:      "salary, January",
			PaymentMode: "Bank Transfer",
			Category:    "Salary",
			EntryDate:   "2024-01-05",
			EntryTime:   "14:30:00",
		},
		{
			Amount:      decimal.RequireFromString("40"),
			Type:        common.EntryTypeCashOut,
			Remark:      "",
			PaymentMode: "Cash",
			Category:    "Uncategorized",
			EntryDate:   "2024-01-06",
			EntryTime:   "08:05:00",
		},
	}

	out, err := Export(records)
	require.NoError(t, err)
	imported, err := Import(out)
	require.NoError(t, err)
	require.Len(t, imported, len(records))

	for i := range records {
		assert.True(t, records[i].Amount.Equal(imported[i].Amount), "amount %d", i)
		assert.Equal(t, records[i].Type, imported[i].Type)
		assert.Equal(t, records[i].EntryDate, imported[i].EntryDate)
		assert.Equal(t, records[i].EntryTime, imported[i].EntryTime)
		assert.Equal(t, records[i].Remark, imported[i].Remark)
		assert.Equal(t, records[i].PaymentMode, imported[i].PaymentMode)
		assert.Equal(t, records[i].Category, imported[i].Category)
	}

	// a second round trip is fully stable
	out2, err := Export(imported)
	require.NoError(t, err)
	imported2, err := Import(out2)
	require.NoError(t, err)
	assert.Equal(t, imported, imported2)
}
