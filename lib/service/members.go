package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
)

var (
	ErrMemberExists = errors.New("member already invited")
	ErrInvalidRole  = errors.New("invalid member role")
	ErrOwnerMember  = errors.New("the owner cannot be invited as a member")
)

// MemberWithUser is a membership row plus the login of the user holding
// it, empty while the invite is still pending.
type MemberWithUser struct {
	models.BookMember
	Login string `json:"login"`
}

func (svc *CashbookService) MembersFor(ctx context.Context, bookId int64) ([]MemberWithUser, error) {
	var members []models.BookMember
	err := svc.DB.NewSelect().
		Model(&members).
		Where("book_id = ?", bookId).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]MemberWithUser, len(members))
	for i, member := range members {
		result[i] = MemberWithUser{BookMember: member}
		if member.UserID == common.SentinelUserID {
			continue
		}
		user, err := svc.FindUser(ctx, member.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		result[i].Login = user.Login
	}
	return result, nil
}

// InviteMember grants email access to the book. If the address already
// belongs to a registered user the membership binds immediately, otherwise
// it waits on the sentinel user id until that user signs up.
func (svc *CashbookService) InviteMember(ctx context.Context, book *models.Book, email, role string) (*models.BookMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role != common.MemberRoleViewer && role != common.MemberRoleEditor {
		return nil, ErrInvalidRole
	}

	owner, err := svc.FindUser(ctx, book.UserID)
	if err != nil {
		return nil, err
	}
	if owner.Email == email {
		return nil, ErrOwnerMember
	}

	exists, err := svc.DB.NewSelect().
		Model((*models.BookMember)(nil)).
		Where("book_id = ?", book.ID).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	member := &models.BookMember{
		BookID:      book.ID,
		UserID:      common.SentinelUserID,
		Email:       email,
		Role:        role,
		InviteToken: uuid.NewString(),
	}
	user, err := svc.FindUserByEmail(ctx, email)
	if err == nil {
		member.UserID = user.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	_, err = svc.DB.NewInsert().Model(member).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMemberRole changes a member's grant between viewer and editor.
func (svc *CashbookService) UpdateMemberRole(ctx context.Context, book *models.Book, memberId int64, role string) (*models.BookMember, error) {
	if role != common.MemberRoleViewer && role != common.MemberRoleEditor {
		return nil, ErrInvalidRole
	}
	var member models.BookMember
	err := svc.DB.NewSelect().
		Model(&member).
		Where("id = ?", memberId).
		Where("book_id = ?", book.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	member.Role = role
	_, err = svc.DB.NewUpdate().Model(&member).Column("role").WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (svc *CashbookService) RemoveMember(ctx context.Context, book *models.Book, memberId int64) error {
	result, err := svc.DB.NewDelete().
		Model((*models.BookMember)(nil)).
		Where("id = ?", memberId).
		Where("book_id = ?", book.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
