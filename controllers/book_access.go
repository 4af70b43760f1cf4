package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// loadBook resolves the :book_id param to a book the caller can see and
// checks their role against the required one. When access fails the
// response has already been written and the book is nil. Books the caller
// has no grant on are reported as not found, not as forbidden.
func loadBook(c echo.Context, svc *service.CashbookService, requiredRole string) (*models.Book, string, error) {
	userId := c.Get("UserID").(int64)

	bookId, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		return nil, "", c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	book, err := svc.FindBook(c.Request().Context(), bookId, userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to load book %d: %v", bookId, err)
		return nil, "", c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	role, err := svc.RoleFor(c.Request().Context(), book, userId)
	if err != nil {
		c.Logger().Errorf("Failed to resolve role for book %d: %v", bookId, err)
		return nil, "", c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	if !service.RoleAtLeast(role, requiredRole) {
		return nil, "", c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}
	return book, role, nil
}
