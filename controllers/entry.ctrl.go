package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/ledger"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
	"github.com/shopspring/decimal"
)

// EntryController : Entry controller struct
type EntryController struct {
	svc *service.CashbookService
}

func NewEntryController(svc *service.CashbookService) *EntryController {
	return &EntryController{svc: svc}
}

type Attachment struct {
	Key  string `json:"key,omitempty"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type Entry struct {
	ID             int64           `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	Remark         string          `json:"remark"`
	PaymentMode    string          `json:"payment_mode"`
	Category       string          `json:"category"`
	EntryDate      string          `json:"entry_date"`
	EntryTime      string          `json:"entry_time"`
	EntryBy        int64           `json:"entry_by"`
	Attachments    []Attachment    `json:"attachments"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

type GetEntriesResponseBody struct {
	Entries  []Entry         `json:"entries"`
	Net      decimal.Decimal `json:"net_balance"`
	TotalIn  decimal.Decimal `json:"total_cash_in"`
	TotalOut decimal.Decimal `json:"total_cash_out"`
}

func makeEntryResponse(entry *models.Entry, balance decimal.Decimal) Entry {
	attachments := make([]Attachment, len(entry.Attachments))
	for i, a := range entry.Attachments {
		attachments[i] = Attachment{Key: a.Key, URL: a.URL, Kind: a.Kind}
	}
	return Entry{
		ID:             entry.ID,
		Amount:         entry.Amount,
		Type:           entry.Type,
		Remark:         entry.Remark,
		PaymentMode:    entry.PaymentMode,
		Category:       entry.Category,
		EntryDate:      entry.EntryDate,
		EntryTime:      entry.EntryTime,
		EntryBy:        entry.UserID,
		Attachments:    attachments,
		RunningBalance: balance,
		CreatedAt:      entry.CreatedAt,
	}
}

// GetEntries godoc
// @Summary      List entries
// @Description  Returns the book's entries newest first with running balances and totals. Supports type and q filters.
// @Accept       json
// @Produce      json
// @Tags         Entry
// @Param        book_id  path      int     true   "Book ID"
// @Param        type     query     string  false  "cash_in or cash_out"
// @Param        q        query     string  false  "Search in remark, category and payment mode"
// @Success      200      {object}  GetEntriesResponseBody
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries [get]
// @Security     OAuth2Password
func (controller *EntryController) GetEntries(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	filter := service.EntryFilter{
		Type:  c.QueryParam("type"),
		Query: c.QueryParam("q"),
	}
	if filter.Type != "" && filter.Type != common.EntryTypeCashIn && filter.Type != common.EntryTypeCashOut {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entries, err := controller.svc.EntriesFor(c.Request().Context(), book.ID, filter)
	if err != nil {
		c.Logger().Errorf("Failed to list entries for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	totals := ledger.Totals(entries)
	balances := ledger.RunningBalances(entries)
	// Running balance is a property of the whole book: with a filter active
	// the filtered rows keep the balance they have in the unfiltered list.
	if filter.Type != "" || filter.Query != "" {
		all, err := controller.svc.EntriesFor(c.Request().Context(), book.ID, service.EntryFilter{})
		if err != nil {
			c.Logger().Errorf("Failed to list entries for book %d: %v", book.ID, err)
			return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
		}
		byID := ledger.RunningBalancesByID(all)
		for i := range entries {
			balances[i] = byID[entries[i].ID]
		}
	}
	response := make([]Entry, len(entries))
	for i := range entries {
		response[i] = makeEntryResponse(&entries[i], balances[i])
	}
	return c.JSON(http.StatusOK, &GetEntriesResponseBody{
		Entries:  response,
		Net:      totals.Net,
		TotalIn:  totals.TotalIn,
		TotalOut: totals.TotalOut,
	})
}

// entryParamsFromForm reads the multipart form fields shared by create
// and update.
func entryParamsFromForm(c echo.Context) (service.EntryParams, error) {
	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return service.EntryParams{}, err
	}
	params := service.EntryParams{
		Amount:      amount,
		Type:        c.FormValue("type"),
		Remark:      c.FormValue("remark"),
		PaymentMode: c.FormValue("payment_mode"),
		Category:    c.FormValue("category"),
		EntryDate:   c.FormValue("entry_date"),
		EntryTime:   c.FormValue("entry_time"),
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		params.LinkedURLs = form.Value["image_urls"]
		params.Uploads = form.File["attachments"]
		if keep, ok := form.Value["keep_keys"]; ok {
			params.KeepKeys = keep
		}
	}
	return params, nil
}

// CreateEntry godoc
// @Summary      Create an entry
// @Description  Adds a cash in or cash out entry with optional image attachments, editor or owner only
// @Accept       mpfd
// @Produce      json
// @Tags         Entry
// @Param        book_id  path      int  true  "Book ID"
// @Success      200      {object}  Entry
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries [post]
// @Security     OAuth2Password
func (controller *EntryController) CreateEntry(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleEditor)
	if book == nil {
		return err
	}
	userId := c.Get("UserID").(int64)

	params, err := entryParamsFromForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	entry, err := controller.svc.CreateEntry(c.Request().Context(), book, userId, params)
	if err != nil {
		c.Logger().Errorf("Failed to create entry in book %d: %v", book.ID, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, makeEntryResponse(entry, decimal.Decimal{}))
}

// GetEntry godoc
// @Summary      Get a single entry
// @Description  Returns one entry with its attachment URLs
// @Produce      json
// @Tags         Entry
// @Param        book_id   path      int  true  "Book ID"
// @Param        entry_id  path      int  true  "Entry ID"
// @Success      200       {object}  Entry
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries/{entry_id} [get]
// @Security     OAuth2Password
func (controller *EntryController) GetEntry(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	entry, ok, err := controller.findEntry(c, book.ID)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, makeEntryResponse(entry, decimal.Decimal{}))
}

// UpdateEntry godoc
// @Summary      Update an entry
// @Description  Rewrites an entry's fields and attachment set, editor or owner only
// @Accept       mpfd
// @Produce      json
// @Tags         Entry
// @Param        book_id   path      int  true  "Book ID"
// @Param        entry_id  path      int  true  "Entry ID"
// @Success      200       {object}  Entry
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries/{entry_id} [put]
// @Security     OAuth2Password
func (controller *EntryController) UpdateEntry(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleEditor)
	if book == nil {
		return err
	}

	entry, ok, err := controller.findEntry(c, book.ID)
	if !ok {
		return err
	}

	params, err := entryParamsFromForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	updated, err := controller.svc.UpdateEntry(c.Request().Context(), entry, params)
	if err != nil {
		c.Logger().Errorf("Failed to update entry %d: %v", entry.ID, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, makeEntryResponse(updated, decimal.Decimal{}))
}

// DeleteEntry godoc
// @Summary      Delete an entry
// @Description  Removes an entry and its uploaded attachments, editor or owner only
// @Produce      json
// @Tags         Entry
// @Param        book_id   path  int  true  "Book ID"
// @Param        entry_id  path  int  true  "Entry ID"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries/{entry_id} [delete]
// @Security     OAuth2Password
func (controller *EntryController) DeleteEntry(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleEditor)
	if book == nil {
		return err
	}

	entry, ok, err := controller.findEntry(c, book.ID)
	if !ok {
		return err
	}

	if err := controller.svc.DeleteEntry(c.Request().Context(), entry); err != nil {
		c.Logger().Errorf("Failed to delete entry %d: %v", entry.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.NoContent(http.StatusOK)
}

func (controller *EntryController) findEntry(c echo.Context, bookId int64) (*models.Entry, bool, error) {
	entryId, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	entry, err := controller.svc.FindEntry(c.Request().Context(), bookId, entryId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to load entry %d: %v", entryId, err)
		return nil, false, c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return entry, true, nil
}
