package service

import (
	"context"
	"database/sql"

	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/ledger"
	"github.com/uptrace/bun"
)

// BookWithStats is a book row plus the derived values the list view shows.
type BookWithStats struct {
	models.Book
	Balance      ledger.Balance `json:"balance"`
	MembersCount int            `json:"members_count"`
}

func (svc *CashbookService) CreateBook(ctx context.Context, userId int64, name string) (*models.Book, error) {
	book := &models.Book{
		Name:   name,
		UserID: userId,
	}
	_, err := svc.DB.NewInsert().Model(book).Exec(ctx)
	return book, err
}

// FindBook loads a book only if the user owns it or holds a membership.
// A book the user has no grant on looks exactly like a missing one.
func (svc *CashbookService) FindBook(ctx context.Context, bookId, userId int64) (*models.Book, error) {
	var book models.Book
	err := svc.DB.NewSelect().
		Model(&book).
		Where("book.id = ?", bookId).
		Where("book.user_id = ? OR EXISTS (SELECT 1 FROM book_members m WHERE m.book_id = book.id AND m.user_id = ?)",
			userId, userId).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BooksFor returns the books the user owns or is a member of, newest
// updated first, with per-book balance and member count.
func (svc *CashbookService) BooksFor(ctx context.Context, userId int64) ([]BookWithStats, error) {
	var books []models.Book
	err := svc.DB.NewSelect().
		Model(&books).
		Where("book.user_id = ? OR EXISTS (SELECT 1 FROM book_members m WHERE m.book_id = book.id AND m.user_id = ?)",
			userId, userId).
		OrderExpr("updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]BookWithStats, len(books))
	for i, book := range books {
		entries, err := svc.EntriesFor(ctx, book.ID, EntryFilter{})
		if err != nil {
			return nil, err
		}
		membersCount, err := svc.DB.NewSelect().
			Model((*models.BookMember)(nil)).
			Where("book_id = ?", book.ID).
			Count(ctx)
		if err != nil {
			return nil, err
		}
		result[i] = BookWithStats{
			Book:         book,
			Balance:      ledger.Totals(entries),
			MembersCount: membersCount,
		}
	}
	return result, nil
}

func (svc *CashbookService) RenameBook(ctx context.Context, book *models.Book, name string) error {
	book.Name = name
	_, err := svc.DB.NewUpdate().
		Model(book).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// DeleteBook removes the book with its entries and memberships in one
// transaction, then cleans uploaded attachment objects best effort: a
// storage failure after the commit leaves orphaned objects, not broken rows.
func (svc *CashbookService) DeleteBook(ctx context.Context, book *models.Book) error {
	var entries []models.Entry
	err := svc.DB.NewSelect().Model(&entries).Where("book_id = ?", book.ID).Scan(ctx)
	if err != nil {
		return err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Entry)(nil)).Where("book_id = ?", book.ID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.BookMember)(nil)).Where("book_id = ?", book.ID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model(book).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	keys := []string{}
	for _, entry := range entries {
		keys = append(keys, entry.UploadedKeys()...)
	}
	if len(keys) > 0 {
		if err := svc.Storage.Remove(ctx, keys); err != nil {
			svc.Logger.Errorf("Failed to remove %d attachment objects for deleted book %d: %v", len(keys), book.ID, err)
		}
	}
	return nil
}
