package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
)

// MemberController : Book member controller struct
type MemberController struct {
	svc *service.CashbookService
}

func NewMemberController(svc *service.CashbookService) *MemberController {
	return &MemberController{svc: svc}
}

type Member struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Login     string    `json:"login,omitempty"`
	Role      string    `json:"role"`
	Pending   bool      `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
}

type InviteMemberRequestBody struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=viewer editor"`
}

type UpdateMemberRequestBody struct {
	Role string `json:"role" validate:"required,oneof=viewer editor"`
}

type GetMembersResponseBody struct {
	Members []Member `json:"members"`
}

// GetMembers godoc
// @Summary      List members
// @Description  Returns the book's members including pending invites
// @Accept       json
// @Produce      json
// @Tags         Member
// @Param        book_id  path      int  true  "Book ID"
// @Success      200      {object}  GetMembersResponseBody
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/members [get]
// @Security     OAuth2Password
func (controller *MemberController) GetMembers(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleViewer)
	if book == nil {
		return err
	}

	members, err := controller.svc.MembersFor(c.Request().Context(), book.ID)
	if err != nil {
		c.Logger().Errorf("Failed to list members for book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	response := make([]Member, len(members))
	for i, member := range members {
		response[i] = Member{
			ID:        member.ID,
			Email:     member.Email,
			Login:     member.Login,
			Role:      member.Role,
			Pending:   member.UserID == common.SentinelUserID,
			CreatedAt: member.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, &GetMembersResponseBody{Members: response})
}

// InviteMember godoc
// @Summary      Invite a member
// @Description  Grants a viewer or editor role to an email address, owner only. The invitee does not need an account yet.
// @Accept       json
// @Produce      json
// @Tags         Member
// @Param        book_id  path      int                      true  "Book ID"
// @Param        member   body      InviteMemberRequestBody  True  "Invite"
// @Success      200      {object}  Member
// @Failure      409      {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/members [post]
// @Security     OAuth2Password
func (controller *MemberController) InviteMember(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleOwner)
	if book == nil {
		return err
	}

	var body InviteMemberRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	member, err := controller.svc.InviteMember(c.Request().Context(), book, body.Email, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberExists):
			return c.JSON(http.StatusConflict, responses.MemberExistsError)
		case errors.Is(err, service.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, responses.InvalidRoleError)
		case errors.Is(err, service.ErrOwnerMember):
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		c.Logger().Errorf("Failed to invite member to book %d: %v", book.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &Member{
		ID:        member.ID,
		Email:     member.Email,
		Role:      member.Role,
		Pending:   member.UserID == common.SentinelUserID,
		CreatedAt: member.CreatedAt,
	})
}

// UpdateMember godoc
// @Summary      Change a member's role
// @Description  Switches a member between viewer and editor, owner only
// @Accept       json
// @Produce      json
// @Tags         Member
// @Param        book_id    path      int                      true  "Book ID"
// @Param        member_id  path      int                      true  "Member ID"
// @Param        member     body      UpdateMemberRequestBody  True  "Role"
// @Success      200        {object}  Member
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/members/{member_id} [put]
// @Security     OAuth2Password
func (controller *MemberController) UpdateMember(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleOwner)
	if book == nil {
		return err
	}

	memberId, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateMemberRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	member, err := controller.svc.UpdateMemberRole(c.Request().Context(), book, memberId, body.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		if errors.Is(err, service.ErrInvalidRole) {
			return c.JSON(http.StatusBadRequest, responses.InvalidRoleError)
		}
		c.Logger().Errorf("Failed to update member %d: %v", memberId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &Member{
		ID:        member.ID,
		Email:     member.Email,
		Role:      member.Role,
		Pending:   member.UserID == common.SentinelUserID,
		CreatedAt: member.CreatedAt,
	})
}

// RemoveMember godoc
// @Summary      Remove a member
// @Description  Revokes a member's access to the book, owner only
// @Produce      json
// @Tags         Member
// @Param        book_id    path  int  true  "Book ID"
// @Param        member_id  path  int  true  "Member ID"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/books/{book_id}/members/{member_id} [delete]
// @Security     OAuth2Password
func (controller *MemberController) RemoveMember(c echo.Context) error {
	book, _, err := loadBook(c, controller.svc, common.MemberRoleOwner)
	if book == nil {
		return err
	}

	memberId, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.RemoveMember(c.Request().Context(), book, memberId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to remove member %d: %v", memberId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.NoContent(http.StatusOK)
}
