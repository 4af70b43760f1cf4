package service

import (
	"context"
	"fmt"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/csvbook"
)

// ImportEntries parses CSV content and inserts every row as an entry of
// the book, attributed to the importing user. A single bad row fails the
// whole import and leaves the book untouched.
func (svc *CashbookService) ImportEntries(ctx context.Context, book *models.Book, userId int64, content string) (int, error) {
	records, err := csvbook.Import(content)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("no data rows found")
	}
	if len(records) > svc.Config.MaxImportRows {
		return 0, fmt.Errorf("too many rows: %d exceeds the limit of %d", len(records), svc.Config.MaxImportRows)
	}

	entries := make([]models.Entry, len(records))
	for i, record := range records {
		attachments := []models.Attachment{}
		for _, url := range record.ImageURLs {
			attachments = append(attachments, models.Attachment{
				URL:  url,
				Kind: common.AttachmentKindLinked,
			})
		}
		entries[i] = models.Entry{
			BookID:      book.ID,
			UserID:      userId,
			Amount:      record.Amount,
			Type:        record.Type,
			Remark:      record.Remark,
			PaymentMode: record.PaymentMode,
			Category:    record.Category,
			EntryDate:   record.EntryDate,
			EntryTime:   record.EntryTime,
			Attachments: attachments,
		}
	}
	if err := svc.importEntriesTx(ctx, entries); err != nil {
		return 0, err
	}
	svc.touchBook(ctx, book.ID)
	return len(entries), nil
}

// ExportEntries renders the book's entries, newest first, as CSV text.
// Uploaded attachments are exported through their public URLs so the file
// stays importable into any other book or tool.
func (svc *CashbookService) ExportEntries(ctx context.Context, book *models.Book) (string, error) {
	entries, err := svc.EntriesFor(ctx, book.ID, EntryFilter{})
	if err != nil {
		return "", err
	}

	logins := map[int64]string{}
	records := make([]csvbook.Record, len(entries))
	for i, entry := range entries {
		login, ok := logins[entry.UserID]
		if !ok {
			user, err := svc.FindUser(ctx, entry.UserID)
			if err == nil {
				login = user.Login
			}
			logins[entry.UserID] = login
		}
		urls := []string{}
		for _, a := range entry.Attachments {
			urls = append(urls, a.URL)
		}
		records[i] = csvbook.Record{
			Amount:      entry.Amount,
			Type:        entry.Type,
			Remark:      entry.Remark,
			PaymentMode: entry.PaymentMode,
			Category:    entry.Category,
			EntryDate:   entry.EntryDate,
			EntryTime:   entry.EntryTime,
			EntryBy:     login,
			ImageURLs:   urls,
		}
	}
	return csvbook.Export(records)
}
