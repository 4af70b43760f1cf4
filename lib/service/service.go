package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/labstack/gommon/random"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/storage"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

// EntryPublisher receives entry lifecycle events when RabbitMQ is
// configured, nil otherwise.
type EntryPublisher interface {
	PublishEntryEvent(ctx context.Context, eventType string, entry *models.Entry) error
}

type CashbookService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	Storage        storage.Client
	EntryPublisher EntryPublisher
}

// publishEntryEvent fires and forgets: event delivery never fails the
// user action that produced it.
func (svc *CashbookService) publishEntryEvent(ctx context.Context, eventType string, entry *models.Entry) {
	if svc.EntryPublisher == nil {
		return
	}
	if err := svc.EntryPublisher.PublishEntryEvent(ctx, eventType, entry); err != nil {
		svc.Logger.Errorf("Failed to publish %s event for entry %d: %v", eventType, entry.ID, err)
	}
}

// RoleFor resolves what the user may do with a book: the owner outranks any
// membership row, everyone else gets their membership role or an empty
// string for no access at all.
func (svc *CashbookService) RoleFor(ctx context.Context, book *models.Book, userId int64) (string, error) {
	if book.UserID == userId {
		return common.MemberRoleOwner, nil
	}
	var member models.BookMember
	err := svc.DB.NewSelect().
		Model(&member).
		Where("book_id = ? AND user_id = ?", book.ID, userId).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// RoleAtLeast reports whether role grants at least the required role.
func RoleAtLeast(role, required string) bool {
	rank := map[string]int{
		common.MemberRoleViewer: 1,
		common.MemberRoleEditor: 2,
		common.MemberRoleOwner:  3,
	}
	return rank[role] >= rank[required] && rank[role] > 0
}
