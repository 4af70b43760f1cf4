package models

import (
	"context"
	"time"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Attachment is one image attached to an entry. Uploaded attachments
// reference an object-storage key, linked attachments carry a remote URL
// as-is. Stored inline with the entry as jsonb.
type Attachment struct {
	Key  string `json:"key,omitempty"`
	URL  string `json:"url,omitempty"`
	Kind string `json:"kind"`
}

// Entry : Entry Model
type Entry struct {
	ID          int64           `json:"id" bun:",pk,autoincrement"`
	BookID      int64           `json:"book_id" bun:",notnull"`
	Book        *Book           `json:"-" bun:"rel:belongs-to,join:book_id=id"`
	UserID      int64           `json:"user_id" bun:",notnull"`
	User        *User           `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	Amount      decimal.Decimal `json:"amount" bun:"type:numeric(30,12),notnull"`
	Type        string          `json:"type" bun:",notnull" validate:"required,oneof=cash_in cash_out"`
	Remark      string          `json:"remark" bun:",nullzero"`
	PaymentMode string          `json:"payment_mode" bun:",notnull,default:'Cash'"`
	Category    string          `json:"category" bun:",notnull,default:'Uncategorized'"`
	EntryDate   string          `json:"entry_date" bun:",notnull"`
	EntryTime   string          `json:"entry_time" bun:",notnull"`
	Attachments []Attachment    `json:"attachments" bun:"type:jsonb,nullzero"`
	CreatedAt   time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime    `json:"updated_at"`
}

func (e *Entry) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		e.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// Signed returns the amount with cash_out negated, the contribution of
// this entry to any balance.
func (e *Entry) Signed() decimal.Decimal {
	if e.Type == common.EntryTypeCashOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

// UploadedKeys returns the object-storage keys of uploaded attachments.
// Linked attachments have no backing object and are skipped.
func (e *Entry) UploadedKeys() []string {
	keys := []string{}
	for _, a := range e.Attachments {
		if a.Kind == common.AttachmentKindUploaded && a.Key != "" {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

var _ bun.BeforeAppendModelHook = (*Entry)(nil)
