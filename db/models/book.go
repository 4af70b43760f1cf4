package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Book : Book Model
//
// A book is a named ledger owned by exactly one user. Access for other
// users is granted through BookMember rows.
type Book struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Name      string    `json:"name" bun:",notnull" validate:"required"`
	UserID    int64     `json:"user_id" bun:",notnull"`
	User      *User     `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" bun:",nullzero,notnull,default:current_timestamp"`
}

func (b *Book) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		b.UpdatedAt = time.Now()
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Book)(nil)
