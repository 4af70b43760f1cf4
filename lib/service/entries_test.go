package service

import (
	"testing"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() EntryParams {
	return EntryParams{
		Amount:    decimal.RequireFromString("10"),
		Type:      common.EntryTypeCashIn,
		EntryDate: "2024-01-05",
		EntryTime: "14:30",
	}
}

func TestNormalizeDefaultsAndPadding(t *testing.T) {
	params := validParams()
	require.NoError(t, params.normalize())
	assert.Equal(t, common.DefaultPaymentMode, params.PaymentMode)
	assert.Equal(t, common.DefaultCategory, params.Category)
	assert.Equal(t, "14:30:00", params.EntryTime)
}

func TestNormalizeAcceptsZeroAmount(t *testing.T) {
	params := validParams()
	params.Amount = decimal.Zero
	assert.NoError(t, params.normalize())
}

func TestNormalizeRejectsNegativeAmount(t *testing.T) {
	params := validParams()
	params.Amount = decimal.RequireFromString("-5")
	assert.Error(t, params.normalize())
}

func TestNormalizeRejectsBadDateAndTime(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EntryParams)
	}{
		{"garbage date", func(p *EntryParams) { p.EntryDate = "banana" }},
		{"display format date", func(p *EntryParams) { p.EntryDate = "05 January 2024" }},
		{"out of range time", func(p *EntryParams) { p.EntryTime = "99:99" }},
		{"garbage time", func(p *EntryParams) { p.EntryTime = "noonish" }},
		{"missing date", func(p *EntryParams) { p.EntryDate = "" }},
		{"missing time", func(p *EntryParams) { p.EntryTime = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			assert.Error(t, params.normalize())
		})
	}
}

func TestNormalizePadsStoredForms(t *testing.T) {
	params := validParams()
	params.EntryDate = "2024-1-5"
	params.EntryTime = "9:05"
	require.NoError(t, params.normalize())
	assert.Equal(t, "2024-01-05", params.EntryDate)
	assert.Equal(t, "09:05:00", params.EntryTime)
}

func TestNormalizeRejectsUnknownType(t *testing.T) {
	params := validParams()
	params.Type = "transfer"
	assert.Error(t, params.normalize())
}
