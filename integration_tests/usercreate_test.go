package integration_tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/controllers"
	"github.com/opencashbook/cashbook.go/lib"
	"github.com/opencashbook/cashbook.go/lib/responses"
	"github.com/opencashbook/cashbook.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	TestSuite
	service *service.CashbookService
}

func (suite *UserTestSuite) SetupSuite() {
	svc, err := CashbookTestServiceInit(suite.dbUri)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e
	suite.echo.POST("/v2/users", controllers.NewCreateUserController(svc).CreateUser)
	suite.echo.POST("/v2/auth", controllers.NewAuthController(svc).Auth)
}

func (suite *UserTestSuite) TearDownSuite() {
	err := clearTable(suite.service, "users")
	assert.NoError(suite.T(), err)
}

func (suite *UserTestSuite) TestCreateAndAuthenticate() {
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.CreateUserRequestBody{
		Email: "alice@cashbook.test",
	}))
	req := httptest.NewRequest(http.MethodPost, "/v2/users", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	created := controllers.CreateUserResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(suite.T(), "alice@cashbook.test", created.Email)
	assert.NotEmpty(suite.T(), created.Login)
	assert.NotEmpty(suite.T(), created.Password)

	buf.Reset()
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.AuthRequestBody{
		Login:    created.Login,
		Password: created.Password,
	}))
	req = httptest.NewRequest(http.MethodPost, "/v2/auth", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	authResponse := controllers.AuthResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&authResponse))
	assert.NotEmpty(suite.T(), authResponse.AccessToken)
	assert.NotEmpty(suite.T(), authResponse.RefreshToken)

	// a refresh token is exchanged for a fresh pair
	buf.Reset()
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.AuthRequestBody{
		RefreshToken: authResponse.RefreshToken,
	}))
	req = httptest.NewRequest(http.MethodPost, "/v2/auth", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *UserTestSuite) TestCreateWithoutEmailFails() {
	req := httptest.NewRequest(http.MethodPost, "/v2/users", bytes.NewBufferString(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), responses.BadArgumentsError.Code, errorResponse.Code)
}

func (suite *UserTestSuite) TestAuthWithWrongPassword() {
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.AuthRequestBody{
		Login:    "nobody",
		Password: "wrong",
	}))
	req := httptest.NewRequest(http.MethodPost, "/v2/auth", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func TestUserSuite(t *testing.T) {
	dbUri := requireTestDatabase(t)
	suite.Run(t, &UserTestSuite{TestSuite: TestSuite{dbUri: dbUri}})
}
