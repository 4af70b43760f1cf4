package models

import (
	"time"
)

// BookMember : Book membership Model
//
// One row per (book, email). Members are invited by email before they have
// an account: user_id stays at the sentinel zero value until the invitee
// authenticates with that email and the row is reconciled.
type BookMember struct {
	ID          int64     `json:"id" bun:",pk,autoincrement"`
	BookID      int64     `json:"book_id" bun:",notnull"`
	Book        *Book     `json:"-" bun:"rel:belongs-to,join:book_id=id"`
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email" bun:",notnull"`
	Role        string    `json:"role" bun:",notnull,default:'viewer'"`
	InviteToken string    `json:"-" bun:",nullzero"`
	CreatedAt   time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
