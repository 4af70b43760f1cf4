package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/db"
	"github.com/opencashbook/cashbook.go/db/migrations"
	"github.com/opencashbook/cashbook.go/lib/logging"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
	"github.com/opencashbook/cashbook.go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun/migrate"
)

// requireTestDatabase skips the test when no database is reachable so the
// unit test packages still run standalone.
func requireTestDatabase(t *testing.T) string {
	dbUri, ok := os.LookupEnv("DATABASE_URI")
	if !ok {
		t.Skip("DATABASE_URI not set, skipping integration test")
	}
	return dbUri
}

func CashbookTestServiceInit(dbUri string) (svc *service.CashbookService, err error) {
	c := &service.Config{
		DatabaseUri:             dbUri,
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		JWTSecret:               []byte("SECRET"),
		JWTAccessTokenExpiry:    3600,
		JWTRefreshTokenExpiry:   3600,
		MaxImportRows:           5000,
		MaxAttachmentSize:       5 * 1024 * 1024,
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger := logging.Logger(c.LogFilePath)
	svc = &service.CashbookService{
		Config:  c,
		DB:      dbConn,
		Logger:  logger,
		Storage: storage.NewMemoryClient(),
	}
	return svc, nil
}

func clearTable(svc *service.CashbookService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

type userCredentials struct {
	Email    string
	Login    string
	Password string
}

func createUsers(svc *service.CashbookService, usersToCreate int) (users []userCredentials, tokens []string, err error) {
	users = []userCredentials{}
	tokens = []string{}
	for i := 0; i < usersToCreate; i++ {
		email := fmt.Sprintf("user%d@cashbook.test", i)
		user, err := svc.CreateUser(context.Background(), email, "", "")
		if err != nil {
			return nil, nil, err
		}
		creds := userCredentials{
			Email:    user.Email,
			Login:    user.Login,
			Password: user.Password,
		}
		users = append(users, creds)
		token, _, err := svc.GenerateToken(context.Background(), creds.Login, creds.Password, "")
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, token)
	}
	return users, tokens, nil
}

type TestSuite struct {
	suite.Suite
	echo  *echo.Echo
	dbUri string
}

func checkErrResponse(suite *TestSuite, rec *httptest.ResponseRecorder) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	return errorResponse
}
