package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/security"
	"github.com/opencashbook/cashbook.go/lib/tokens"
	"github.com/uptrace/bun"
)

func (svc *CashbookService) CreateUser(ctx context.Context, email, login, password string) (user *models.User, err error) {

	user = &models.User{}
	user.Email = strings.ToLower(strings.TrimSpace(email))

	// generate user login/password if not provided
	user.Login = login
	if login == "" {
		randLoginBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		user.Login = string(randLoginBytes)
	}
	if password == "" {
		randPasswordBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		password = string(randPasswordBytes)
	}

	// we only store the hashed password but return the initial plain text password in the HTTP response
	user.Password = security.HashPassword(password)

	// Creating the account and linking pending invites happens atomically:
	// a crash in between would strand sentinel membership rows.
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		return reconcileMemberships(ctx, tx, user)
	})
	//return actual password in the response, not the hashed one
	user.Password = password
	return user, err
}

func (svc *CashbookService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user models.User

	switch {
	case login != "" || password != "":
		{
			if err := svc.DB.NewSelect().Model(&user).Where("login = ?", login).Scan(ctx); err != nil {
				return "", "", fmt.Errorf(responses.BadAuthError.Message)
			}
			if !security.VerifyPassword(user.Password, password) {
				return "", "", fmt.Errorf(responses.BadAuthError.Message)
			}
		}
	case inRefreshToken != "":
		{
			userId, err := tokens.ParseRefreshClaims(svc.Config.JWTSecret, inRefreshToken)
			if err != nil {
				return "", "", fmt.Errorf(responses.BadAuthError.Message)
			}
			if err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Scan(ctx); err != nil {
				return "", "", fmt.Errorf(responses.BadAuthError.Message)
			}
		}
	default:
		{
			return "", "", fmt.Errorf("login and password or refresh token is required")
		}
	}

	if user.Deactivated {
		return "", "", fmt.Errorf(responses.AccountDeactivatedError.Message)
	}

	// every successful authentication links invites that were waiting for
	// this email
	if err := reconcileMemberships(ctx, svc.DB, &user); err != nil {
		svc.Logger.Errorf("Failed to reconcile memberships for user %d: %v", user.ID, err)
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, &user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, &user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (svc *CashbookService) FindUser(ctx context.Context, userId int64) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		return &user, err
	}
	return &user, nil
}

// SetUserDeactivated flips the account's deactivated flag. Deactivated
// accounts keep their data but cannot authenticate.
func (svc *CashbookService) SetUserDeactivated(ctx context.Context, userId int64, deactivated bool) (*models.User, error) {
	user, err := svc.FindUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	user.Deactivated = deactivated
	_, err = svc.DB.NewUpdate().Model(user).Column("deactivated", "updated_at").WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *CashbookService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		return &user, err
	}
	return &user, nil
}

func (svc *CashbookService) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("login = ?", login).Limit(1).Scan(ctx)
	if err != nil {
		return &user, err
	}
	return &user, nil
}

// reconcileMemberships links sentinel membership rows carrying the user's
// email to the now-known account id.
func reconcileMemberships(ctx context.Context, db bun.IDB, user *models.User) error {
	_, err := db.NewUpdate().
		Model((*models.BookMember)(nil)).
		Set("user_id = ?", user.ID).
		Where("email = ? AND user_id = 0", user.Email).
		Exec(ctx)
	return err
}
