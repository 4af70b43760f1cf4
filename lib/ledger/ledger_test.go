package ledger

import (
	"testing"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newest first, like the API returns them
func entry(entryType string, amount string) models.Entry {
	return models.Entry{Type: entryType, Amount: decimal.RequireFromString(amount)}
}

func TestTotalsCashInOnly(t *testing.T) {
	entries := []models.Entry{
		entry(common.EntryTypeCashIn, "10.25"),
		entry(common.EntryTypeCashIn, "4.75"),
		entry(common.EntryTypeCashIn, "85"),
	}

	balance := Totals(entries)
	assert.True(t, balance.Net.Equal(decimal.RequireFromString("100")))
	assert.True(t, balance.TotalIn.Equal(decimal.RequireFromString("100")))
	assert.True(t, balance.TotalOut.IsZero())
}

func TestTotalsMixed(t *testing.T) {
	entries := []models.Entry{
		entry(common.EntryTypeCashIn, "100"),
		entry(common.EntryTypeCashOut, "40"),
	}

	balance := Totals(entries)
	assert.True(t, balance.Net.Equal(decimal.RequireFromString("60")))
	assert.True(t, balance.TotalIn.Equal(decimal.RequireFromString("100")))
	assert.True(t, balance.TotalOut.Equal(decimal.RequireFromString("40")))
}

func TestTotalsEmpty(t *testing.T) {
	balance := Totals(nil)
	assert.True(t, balance.Net.IsZero())
	assert.True(t, balance.TotalIn.IsZero())
	assert.True(t, balance.TotalOut.IsZero())
}

func TestRunningBalanceDocumentedExample(t *testing.T) {
	// cash_in 100 then cash_out 40: book balance 60, running balance 60
	// at the newest row and 100 at the oldest
	entries := []models.Entry{
		entry(common.EntryTypeCashOut, "40"),
		entry(common.EntryTypeCashIn, "100"),
	}

	assert.True(t, Totals(entries).Net.Equal(decimal.RequireFromString("60")))
	assert.True(t, RunningBalanceAt(entries, 0).Equal(decimal.RequireFromString("60")))
	assert.True(t, RunningBalanceAt(entries, 1).Equal(decimal.RequireFromString("100")))
}

func TestRunningBalanceAlternating(t *testing.T) {
	entries := []models.Entry{
		entry(common.EntryTypeCashIn, "5"),
		entry(common.EntryTypeCashOut, "20"),
		entry(common.EntryTypeCashIn, "50"),
	}

	// oldest entry: its own signed amount
	assert.True(t, RunningBalanceAt(entries, 2).Equal(decimal.RequireFromString("50")))
	assert.True(t, RunningBalanceAt(entries, 1).Equal(decimal.RequireFromString("30")))
	// newest entry: full signed sum
	assert.True(t, RunningBalanceAt(entries, 0).Equal(decimal.RequireFromString("35")))
	assert.True(t, RunningBalanceAt(entries, 0).Equal(Totals(entries).Net))
}

func TestRunningBalancesMatchesPerIndexScan(t *testing.T) {
	entries := []models.Entry{
		entry(common.EntryTypeCashOut, "1.10"),
		entry(common.EntryTypeCashIn, "2.50"),
		entry(common.EntryTypeCashOut, "0.40"),
		entry(common.EntryTypeCashIn, "100"),
	}

	balances := RunningBalances(entries)
	assert.Len(t, balances, len(entries))
	for i := range entries {
		assert.True(t, balances[i].Equal(RunningBalanceAt(entries, i)), "index %d", i)
	}
}

func TestRunningBalancesByIDKeepsFullListBalance(t *testing.T) {
	cashOut := entry(common.EntryTypeCashOut, "40")
	cashOut.ID = 2
	cashIn := entry(common.EntryTypeCashIn, "100")
	cashIn.ID = 1
	entries := []models.Entry{cashOut, cashIn}

	byID := RunningBalancesByID(entries)
	require.Len(t, byID, 2)
	// a cash_out-only view still reads 60, not -40
	assert.True(t, byID[cashOut.ID].Equal(decimal.RequireFromString("60")))
	assert.True(t, byID[cashIn.ID].Equal(decimal.RequireFromString("100")))
}

func TestRunningBalancesExactDecimals(t *testing.T) {
	entries := []models.Entry{
		entry(common.EntryTypeCashOut, "0.2"),
		entry(common.EntryTypeCashIn, "0.1"),
		entry(common.EntryTypeCashIn, "0.1"),
	}

	// 0.1 + 0.1 - 0.2 is exactly zero, not a float artifact
	assert.True(t, RunningBalances(entries)[0].IsZero())
}
