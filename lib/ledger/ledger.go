// Package ledger holds the derived balance computations. Nothing here is
// persisted: balances are recomputed from the entry list on every request.
package ledger

import (
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/shopspring/decimal"
)

// Balance is the aggregate over a (possibly filtered) entry list.
type Balance struct {
	Net      decimal.Decimal `json:"net"`
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
}

// Totals sums a filtered entry list: cash_in into TotalIn, cash_out into
// TotalOut, Net = TotalIn - TotalOut. Exact decimal math, no rounding.
func Totals(entries []models.Entry) Balance {
	totalIn := decimal.Zero
	totalOut := decimal.Zero
	for _, entry := range entries {
		if entry.Type == common.EntryTypeCashOut {
			totalOut = totalOut.Add(entry.Amount)
		} else {
			totalIn = totalIn.Add(entry.Amount)
		}
	}
	return Balance{
		Net:      totalIn.Sub(totalOut),
		TotalIn:  totalIn,
		TotalOut: totalOut,
	}
}

// RunningBalanceAt returns the cumulative signed sum at position i of a
// newest-first entry list: every entry from the oldest (last index) up to
// and including i contributes +amount for cash_in and -amount for cash_out.
func RunningBalanceAt(entries []models.Entry, i int) decimal.Decimal {
	balance := decimal.Zero
	for j := len(entries) - 1; j >= i; j-- {
		balance = balance.Add(entries[j].Signed())
	}
	return balance
}

// RunningBalancesByID indexes RunningBalances by entry id. Filtered views
// look their rows up here, so a row's balance always reflects the full
// list, not the subset being shown.
func RunningBalancesByID(entries []models.Entry) map[int64]decimal.Decimal {
	balances := RunningBalances(entries)
	byID := make(map[int64]decimal.Decimal, len(entries))
	for i := range entries {
		byID[entries[i].ID] = balances[i]
	}
	return byID
}

// RunningBalances computes RunningBalanceAt for every index in one backward
// pass. Rendering a page of n rows through RunningBalanceAt costs O(n^2);
// handlers use this instead.
func RunningBalances(entries []models.Entry) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(entries))
	balance := decimal.Zero
	for i := len(entries) - 1; i >= 0; i-- {
		balance = balance.Add(entries[i].Signed())
		balances[i] = balance
	}
	return balances
}
