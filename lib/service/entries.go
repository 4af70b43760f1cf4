package service

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// EntryFilter narrows a book's entry list. Zero value means everything.
type EntryFilter struct {
	Type  string // cash_in or cash_out
	Query string // case-insensitive match on remark, category and payment mode
}

// EntryParams carries the caller supplied fields of a create or update.
type EntryParams struct {
	Amount      decimal.Decimal
	Type        string
	Remark      string
	PaymentMode string
	Category    string
	EntryDate   string
	EntryTime   string
	// Linked attachments are external URLs stored as-is.
	LinkedURLs []string
	// Uploads are stored in object storage and keyed per entry.
	Uploads []*multipart.FileHeader
	// KeepKeys restricts an update to the uploaded attachments the caller
	// wants to retain. Nil keeps them all.
	KeepKeys []string
}

func (p *EntryParams) normalize() error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}
	if p.Type != common.EntryTypeCashIn && p.Type != common.EntryTypeCashOut {
		return fmt.Errorf("type must be %s or %s", common.EntryTypeCashIn, common.EntryTypeCashOut)
	}
	if p.PaymentMode == "" {
		p.PaymentMode = common.DefaultPaymentMode
	}
	if p.Category == "" {
		p.Category = common.DefaultCategory
	}
	if p.EntryDate == "" {
		return fmt.Errorf("entry date is required")
	}
	date, err := time.Parse(common.DateFormat, p.EntryDate)
	if err != nil {
		return fmt.Errorf("invalid entry date %q, expected YYYY-MM-DD", p.EntryDate)
	}
	if p.EntryTime == "" {
		return fmt.Errorf("entry time is required")
	}
	// HTML time inputs send HH:MM, the ledger stores HH:MM:SS.
	if strings.Count(p.EntryTime, ":") == 1 {
		p.EntryTime = p.EntryTime + ":00"
	}
	clock, err := time.Parse(common.TimeFormat, p.EntryTime)
	if err != nil {
		return fmt.Errorf("invalid entry time %q, expected HH:MM or HH:MM:SS", p.EntryTime)
	}
	// Re-format so the stored strings are always zero padded and sort
	// correctly as text.
	p.EntryDate = date.Format(common.DateFormat)
	p.EntryTime = clock.Format(common.TimeFormat)
	return nil
}

// EntriesFor lists a book's entries newest first. Ties on date and time
// fall back to the insert id so the order is stable.
func (svc *CashbookService) EntriesFor(ctx context.Context, bookId int64, filter EntryFilter) ([]models.Entry, error) {
	query := svc.DB.NewSelect().
		Model((*models.Entry)(nil)).
		Where("book_id = ?", bookId).
		OrderExpr("entry_date DESC, entry_time DESC, id DESC")
	if filter.Type != "" {
		query.Where("type = ?", filter.Type)
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query.Where("(LOWER(remark) LIKE ? OR LOWER(category) LIKE ? OR LOWER(payment_mode) LIKE ?)",
			pattern, pattern, pattern)
	}
	var entries []models.Entry
	err := query.Scan(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (svc *CashbookService) FindEntry(ctx context.Context, bookId, entryId int64) (*models.Entry, error) {
	var entry models.Entry
	err := svc.DB.NewSelect().
		Model(&entry).
		Where("id = ?", entryId).
		Where("book_id = ?", bookId).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (svc *CashbookService) CreateEntry(ctx context.Context, book *models.Book, userId int64, params EntryParams) (*models.Entry, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	attachments, err := svc.storeAttachments(ctx, userId, params)
	if err != nil {
		return nil, err
	}
	entry := &models.Entry{
		BookID:      book.ID,
		UserID:      userId,
		Amount:      params.Amount,
		Type:        params.Type,
		Remark:      params.Remark,
		PaymentMode: params.PaymentMode,
		Category:    params.Category,
		EntryDate:   params.EntryDate,
		EntryTime:   params.EntryTime,
		Attachments: attachments,
	}
	_, err = svc.DB.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		// The row never landed, so the freshly stored objects are garbage.
		svc.removeUploaded(ctx, attachments)
		return nil, err
	}
	svc.touchBook(ctx, book.ID)
	svc.publishEntryEvent(ctx, common.EntryEventCreated, entry)
	return entry, nil
}

func (svc *CashbookService) UpdateEntry(ctx context.Context, entry *models.Entry, params EntryParams) (*models.Entry, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	kept := []models.Attachment{}
	dropped := []models.Attachment{}
	for _, a := range entry.Attachments {
		if a.Kind == common.AttachmentKindLinked {
			continue
		}
		if params.KeepKeys == nil || containsString(params.KeepKeys, a.Key) {
			kept = append(kept, a)
		} else {
			dropped = append(dropped, a)
		}
	}

	added, err := svc.storeAttachments(ctx, entry.UserID, params)
	if err != nil {
		return nil, err
	}

	entry.Amount = params.Amount
	entry.Type = params.Type
	entry.Remark = params.Remark
	entry.PaymentMode = params.PaymentMode
	entry.Category = params.Category
	entry.EntryDate = params.EntryDate
	entry.EntryTime = params.EntryTime
	entry.Attachments = append(kept, added...)

	_, err = svc.DB.NewUpdate().
		Model(entry).
		Column("amount", "type", "remark", "payment_mode", "category", "entry_date", "entry_time", "attachments", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		svc.removeUploaded(ctx, added)
		return nil, err
	}
	svc.removeUploaded(ctx, dropped)
	svc.touchBook(ctx, entry.BookID)
	svc.publishEntryEvent(ctx, common.EntryEventUpdated, entry)
	return entry, nil
}

func (svc *CashbookService) DeleteEntry(ctx context.Context, entry *models.Entry) error {
	_, err := svc.DB.NewDelete().Model(entry).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	svc.removeUploaded(ctx, entry.Attachments)
	svc.touchBook(ctx, entry.BookID)
	svc.publishEntryEvent(ctx, common.EntryEventDeleted, entry)
	return nil
}

// storeAttachments builds the attachment list for params, uploading the
// multipart files concurrently. Any upload failure removes the objects
// already stored so the entry either gets all attachments or none.
func (svc *CashbookService) storeAttachments(ctx context.Context, userId int64, params EntryParams) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	for _, link := range params.LinkedURLs {
		if link == "" {
			continue
		}
		attachments = append(attachments, models.Attachment{
			URL:  link,
			Kind: common.AttachmentKindLinked,
		})
	}
	if len(params.Uploads) == 0 {
		return attachments, nil
	}

	uploaded := make([]models.Attachment, len(params.Uploads))
	g, gCtx := errgroup.WithContext(ctx)
	for i, header := range params.Uploads {
		i, header := i, header
		g.Go(func() error {
			if header.Size > svc.Config.MaxAttachmentSize {
				return fmt.Errorf("attachment %s exceeds the size limit", header.Filename)
			}
			file, err := header.Open()
			if err != nil {
				return err
			}
			defer file.Close()
			key := attachmentKey(userId, header.Filename)
			contentType := header.Header.Get("Content-Type")
			if err := svc.Storage.Put(gCtx, key, contentType, header.Size, file); err != nil {
				return err
			}
			uploaded[i] = models.Attachment{
				Key:  key,
				URL:  svc.Storage.PublicURL(key),
				Kind: common.AttachmentKindUploaded,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stored := []models.Attachment{}
		for _, a := range uploaded {
			if a.Key != "" {
				stored = append(stored, a)
			}
		}
		svc.removeUploaded(ctx, stored)
		return nil, err
	}
	return append(attachments, uploaded...), nil
}

func (svc *CashbookService) removeUploaded(ctx context.Context, attachments []models.Attachment) {
	keys := []string{}
	for _, a := range attachments {
		if a.Kind == common.AttachmentKindUploaded && a.Key != "" {
			keys = append(keys, a.Key)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := svc.Storage.Remove(ctx, keys); err != nil {
		svc.Logger.Errorf("Failed to remove %d attachment objects: %v", len(keys), err)
	}
}

// touchBook bumps the book's updated_at so the list view sorts active
// books first. Failures only cost ordering, so they are logged and dropped.
func (svc *CashbookService) touchBook(ctx context.Context, bookId int64) {
	_, err := svc.DB.NewUpdate().
		Model((*models.Book)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", bookId).
		Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Failed to touch book %d: %v", bookId, err)
	}
}

func attachmentKey(userId int64, filename string) string {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx:]
	}
	return fmt.Sprintf("%d/%s%s", userId, uuid.NewString(), ext)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// importEntriesTx inserts a batch inside one transaction so a bad row
// aborts the whole import.
func (svc *CashbookService) importEntriesTx(ctx context.Context, entries []models.Entry) error {
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for i := range entries {
			if _, err := tx.NewInsert().Model(&entries[i]).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
