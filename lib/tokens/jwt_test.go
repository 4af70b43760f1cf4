package tokens

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/db/models"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("SECRET")

func TestAccessTokenAuthorizesRequest(t *testing.T) {
	user := &models.User{ID: 42}
	token, err := GenerateAccessToken(testSecret, 3600, user)
	assert.NoError(t, err)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("UserID")})
	}, Middleware(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())
}

func TestRefreshTokenRejectedByMiddleware(t *testing.T) {
	user := &models.User{ID: 42}
	token, err := GenerateRefreshToken(testSecret, 3600, user)
	assert.NoError(t, err)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Middleware(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// but it is accepted by the refresh parser
	id, err := ParseRefreshClaims(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestMissingAndMalformedTokens(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Middleware(testSecret))

	for _, header := range []string{"", "Bearer ", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateAccessToken([]byte("other"), 3600, &models.User{ID: 1})
	assert.NoError(t, err)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Middleware(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
