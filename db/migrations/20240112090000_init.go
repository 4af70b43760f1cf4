package migrations

import (
	"context"

	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/uptrace/bun"
)

/* This init reflects the latest model fields when run on a fresh db.
When adding/removing columns in subsequent migrations use
IfNotExists/IfExists, otherwise re-running results in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if _, err := db.NewCreateTable().Model((*models.User)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Book)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.BookMember)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Entry)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*models.BookMember)(nil)).
			Index("book_members_book_id_email_idx").
			Column("book_id", "email").
			Unique().
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*models.Entry)(nil)).
			Index("entries_book_id_entry_date_idx").
			Column("book_id", "entry_date", "entry_time").
			Exec(ctx); err != nil {
			return err
		}

		return nil
	}, nil)
}
