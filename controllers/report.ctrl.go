package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/lib/report"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// ReportController : PDF report controller struct
type ReportController struct {
	svc *service.CashbookService
}

func NewReportController(svc *service.CashbookService) *ReportController {
	return &ReportController{svc: svc}
}

// GetReport godoc
// @Summary      Download a PDF statement
// @Description  Renders the book's ledger with totals and running balances as a PDF
// @Produce      application/pdf
// @Tags         Report
// @Param        book_id  path  int  true  "Book ID"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/report [get]
// @Security     OAuth2Password
func (controller *ReportController) GetReport(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	entries, err := controller.svc.EntriesFor(c.Request().Context(), book.ID, service.EntryFilter{})
	if err != nil {
		c.Logger().Errorf("Failed to list entries for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	pdfBytes, err := report.Render(entries, report.Options{
		BookName:    book.Name,
		Title:       controller.svc.Config.Branding.Title,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		c.Logger().Errorf("Failed to render report for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	filename := fmt.Sprintf("%s-%s.pdf", book.Name, time.Now().Format(common.DateFormat))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
