package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// AdminController : Admin controller struct
type AdminController struct {
	svc *service.CashbookService
}

func NewAdminController(svc *service.CashbookService) *AdminController {
	return &AdminController{svc: svc}
}

type UpdateUserRequestBody struct {
	Deactivated bool `json:"deactivated"`
}

type UpdateUserResponseBody struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Deactivated bool   `json:"deactivated"`
}

// UpdateUser godoc
// @Summary      Deactivate or reactivate an account
// @Description  Flips the account's deactivated flag. Requires the admin token.
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        user_id  path      int                    true  "User ID"
// @Param        user     body      UpdateUserRequestBody  True  "Deactivation flag"
// @Success      200      {object}  UpdateUserResponseBody
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v2/admin/users/{user_id} [put]
func (controller *AdminController) UpdateUser(c echo.Context) error {
	userId, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateUserRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.SetUserDeactivated(c.Request().Context(), userId, body.Deactivated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to update user %d: %v", userId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &UpdateUserResponseBody{
		ID:          user.ID,
		Email:       user.Email,
		Deactivated: user.Deactivated,
	})
}
