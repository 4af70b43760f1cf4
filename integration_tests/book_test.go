package integration_tests

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	"github.com/opencashbook/cashbook.go/lib/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BookTestSuite struct {
	TestSuite
	service    *service.CashbookService
	users      []userCredentials
	userTokens []string
}

func (suite *BookTestSuite) SetupSuite() {
	svc, err := CashbookTestServiceInit(suite.dbUri)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	users, userTokens, err := createUsers(svc, 2)
	if err != nil {
		log.Fatalf("Error creating test users: %v", err)
	}
	suite.service = svc
	suite.users = users
	suite.userTokens = userTokens

	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e
	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret))
	bookCtrl := controllers.NewBookController(svc)
	secured.GET("/v2/books", bookCtrl.GetBooks)
	secured.POST("/v2/books", bookCtrl.CreateBook)
	secured.GET("/v2/books/:book_id", bookCtrl.GetBook)
	secured.PUT("/v2/books/:book_id", bookCtrl.UpdateBook)
	secured.DELETE("/v2/books/:book_id", bookCtrl.DeleteBook)
	memberCtrl := controllers.NewMemberController(svc)
	secured.GET("/v2/books/:book_id/members", memberCtrl.GetMembers)
	secured.POST("/v2/books/:book_id/members", memberCtrl.InviteMember)
	secured.DELETE("/v2/books/:book_id/members/:member_id", memberCtrl.RemoveMember)
}

func (suite *BookTestSuite) TearDownSuite() {
	for _, table := range []string{"entries", "book_members", "books", "users"} {
		err := clearTable(suite.service, table)
		assert.NoError(suite.T(), err)
	}
}

func (suite *BookTestSuite) request(method, target, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *BookTestSuite) createBook(token, name string) controllers.Book {
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.CreateBookRequestBody{Name: name}))
	rec := suite.request(http.MethodPost, "/v2/books", token, &buf)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	book := controllers.Book{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&book))
	return book
}

func (suite *BookTestSuite) TestCreateRenameDelete() {
	book := suite.createBook(suite.userTokens[0], "Household")
	assert.Equal(suite.T(), "Household", book.Name)
	assert.Equal(suite.T(), "owner", book.Role)

	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.CreateBookRequestBody{Name: "Family"}))
	rec := suite.request(http.MethodPut, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[0], &buf)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[0], nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	renamed := controllers.Book{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&renamed))
	assert.Equal(suite.T(), "Family", renamed.Name)

	rec = suite.request(http.MethodDelete, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[0], nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[0], nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *BookTestSuite) TestBookHiddenFromStrangers() {
	book := suite.createBook(suite.userTokens[0], "Private")

	// a user with no grant gets a 404, not a 403
	rec := suite.request(http.MethodGet, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[1], nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *BookTestSuite) TestInviteGrantsAccess() {
	book := suite.createBook(suite.userTokens[0], "Shared")

	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.InviteMemberRequestBody{
		Email: suite.users[1].Email,
		Role:  "viewer",
	}))
	rec := suite.request(http.MethodPost, fmt.Sprintf("/v2/books/%d/members", book.ID), suite.userTokens[0], &buf)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	member := controllers.Member{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&member))
	assert.False(suite.T(), member.Pending)

	// the viewer can now read the book
	rec = suite.request(http.MethodGet, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[1], nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// but cannot invite anyone themselves
	buf.Reset()
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.InviteMemberRequestBody{
		Email: "third@cashbook.test",
		Role:  "viewer",
	}))
	rec = suite.request(http.MethodPost, fmt.Sprintf("/v2/books/%d/members", book.ID), suite.userTokens[1], &buf)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)

	// inviting the same email again conflicts
	buf.Reset()
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(&controllers.InviteMemberRequestBody{
		Email: suite.users[1].Email,
		Role:  "editor",
	}))
	rec = suite.request(http.MethodPost, fmt.Sprintf("/v2/books/%d/members", book.ID), suite.userTokens[0], &buf)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)

	// removal revokes access
	rec = suite.request(http.MethodDelete, fmt.Sprintf("/v2/books/%d/members/%d", book.ID, member.ID), suite.userTokens[0], nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	rec = suite.request(http.MethodGet, fmt.Sprintf("/v2/books/%d", book.ID), suite.userTokens[1], nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func TestBookSuite(t *testing.T) {
	dbUri := requireTestDatabase(t)
	suite.Run(t, &BookTestSuite{TestSuite: TestSuite{dbUri: dbUri}})
}
