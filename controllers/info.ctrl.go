package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// InfoController : Service info controller struct
type InfoController struct {
	svc *service.CashbookService
}

func NewInfoController(svc *service.CashbookService) *InfoController {
	return &InfoController{svc: svc}
}

type InfoResponseBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
}

// GetInfo godoc
// @Summary      Service info
// @Description  Returns branding information about this instance
// @Accept       json
// @Produce      json
// @Tags         Info
// @Success      200  {object}  InfoResponseBody
// @Router       /v2/info [get]
func (controller *InfoController) GetInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, &InfoResponseBody{
		Title:       controller.svc.Config.Branding.Title,
		Description: controller.svc.Config.Branding.Desc,
		Url:         controller.svc.Config.Branding.Url,
	})
}
