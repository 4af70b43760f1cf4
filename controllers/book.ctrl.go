package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/lib/ledger"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
	"github.com/shopspring/decimal"
)

// BookController : Book controller struct
type BookController struct {
	svc *service.CashbookService
}

func NewBookController(svc *service.CashbookService) *BookController {
	return &BookController{svc: svc}
}

type Book struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	Net          decimal.Decimal `json:"net_balance"`
	TotalIn      decimal.Decimal `json:"total_cash_in"`
	TotalOut     decimal.Decimal `json:"total_cash_out"`
	MembersCount int             `json:"members_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreateBookRequestBody struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GetBooksResponseBody struct {
	Books []Book `json:"books"`
}

// GetBooks godoc
// @Summary      List books
// @Description  Returns the books the user owns or has been invited to, with balances
// @Accept       json
// @Produce      json
// @Tags         Book
// @Success      200  {object}  GetBooksResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/books [get]
// @Security     OAuth2Password
func (controller *BookController) GetBooks(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	books, err := controller.svc.BooksFor(c.Request().Context(), userId)
	if err != nil {
		c.Logger().Errorf("Failed to list books for user %d: %v", userId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	response := make([]Book, len(books))
	for i, book := range books {
		role, err := controller.svc.RoleFor(c.Request().Context(), &book.Book, userId)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
		}
		response[i] = Book{
			ID:           book.ID,
			Name:         book.Name,
			Role:         role,
			Net:          book.Balance.Net,
			TotalIn:      book.Balance.TotalIn,
			TotalOut:     book.Balance.TotalOut,
			MembersCount: book.MembersCount,
			CreatedAt:    book.CreatedAt,
			UpdatedAt:    book.UpdatedAt,
		}
	}
	return c.JSON(http.StatusOK, &GetBooksResponseBody{Books: response})
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Creates a new cashbook owned by the user
// @Accept       json
// @Produce      json
// @Tags         Book
// @Param        book  body      CreateBookRequestBody  True  "Create Book"
// @Success      200   {object}  Book
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /v2/books [post]
// @Security     OAuth2Password
func (controller *BookController) CreateBook(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	var body CreateBookRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create book request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	book, err := controller.svc.CreateBook(c.Request().Context(), userId, body.Name)
	if err != nil {
		c.Logger().Errorf("Failed to create book for user %d: %v", userId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &Book{
		ID:        book.ID,
		Name:      book.Name,
		Role:      common.MemberRoleOwner,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	})
}

// GetBook godoc
// @Summary      Get a book
// @Description  Returns a single book with its balance
// @Accept       json
// @Produce      json
// @Tags         Book
// @Param        book_id  path      int  true  "Book ID"
// @Success      200      {object}  Book
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id} [get]
// @Security     OAuth2Password
func (controller *BookController) GetBook(c echo.Context) error {
	book, role, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	entries, err := controller.svc.EntriesFor(c.Request().Context(), book.ID, service.EntryFilter{})
	if err != nil {
		c.Logger().Errorf("Failed to list entries for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	totals := ledger.Totals(entries)

	return c.JSON(http.StatusOK, &Book{
		ID:        book.ID,
		Name:      book.Name,
		Role:      role,
		Net:       totals.Net,
		TotalIn:   totals.TotalIn,
		TotalOut:  totals.TotalOut,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	})
}

// UpdateBook godoc
// @Summary      Rename a book
// @Description  Renames the book, owner only
// @Accept       json
// @Produce      json
// @Tags         Book
// @Param        book_id  path      int                    true  "Book ID"
// @Param        book     body      CreateBookRequestBody  True  "Rename Book"
// @Success      200      {object}  Book
// @Failure      403      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id} [put]
// @Security     OAuth2Password
func (controller *BookController) UpdateBook(c echo.Context) error {
	book, role, err := loadBook(c, controller.svc, common.MemberRoleOwner)
	if book == nil {
		return err
	}

	var body CreateBookRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.RenameBook(c.Request().Context(), book, body.Name); err != nil {
		c.Logger().Errorf("Failed to rename book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &Book{
		ID:        book.ID,
		Name:      book.Name,
		Role:      role,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	})
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Deletes the book with all entries, memberships and uploaded attachments, owner only
// @Produce      json
// @Tags         Book
// @Param        book_id  path  int  true  "Book ID"
// @Success      200
// @Failure      403  {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id} [delete]
// @Security     OAuth2Password
func (controller *BookController) DeleteBook(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleOwner)
	if book == nil {
		return err
	}

	if err := controller.svc.DeleteBook(c.Request().Context(), book); err != nil {
		c.Logger().Errorf("Failed to delete book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.NoContent(http.StatusOK)
}
