package controllers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// CsvController : CSV import and export controller struct
type CsvController struct {
	svc *service.CashbookService
}

func NewCsvController(svc *service.CashbookService) *CsvController {
	return &CsvController{svc: svc}
}

type ImportResponseBody struct {
	Imported int `json:"imported"`
}

// ImportCsv godoc
// @Summary      Import entries from CSV
// @Description  Parses an uploaded CSV file and adds all rows as entries. A single bad row fails the whole import.
// @Accept       mpfd
// @Produce      json
// @Tags         Csv
// @Param        book_id  path      int   true  "Book ID"
// @Param        file     formData  file  true  "CSV file"
// @Success      200      {object}  ImportResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries/import [post]
// @Security     OAuth2Password
func (controller *CsvController) ImportCsv(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleEditor)
	if book == nil {
		return err
	}
	userId := c.Get("UserID").(int64)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	imported, err := controller.svc.ImportEntries(c.Request().Context(), book, userId, string(content))
	if err != nil {
		c.Logger().Errorf("Failed to import csv into book %d: %v", book.ID, err)
		return c.JSON(http.StatusBadRequest, responses.ImportError(err))
	}
	return c.JSON(http.StatusOK, &ImportResponseBody{Imported: imported})
}

// ExportCsv godoc
// @Summary      Export entries as CSV
// @Description  Streams the book's entries, newest first, as a CSV attachment
// @Produce      text/csv
// @Tags         Csv
// @Param        book_id  path  int  true  "Book ID"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/entries/export [get]
// @Security     OAuth2Password
func (controller *CsvController) ExportCsv(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	content, err := controller.svc.ExportEntries(c.Request().Context(), book)
	if err != nil {
		c.Logger().Errorf("Failed to export csv for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	filename := fmt.Sprintf("%s-%s.csv", book.Name, time.Now().Format(common.DateFormat))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
