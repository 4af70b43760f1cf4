package tokens

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/lib/responses"
)

// Middleware parses the bearer access token and stores the authenticated
// user id under the "UserID" context key. Refresh tokens are rejected here,
// they are only good for the auth endpoint.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			if tokenString == "" || tokenString == auth {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}

			claims := &jwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.IsRefresh {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}

			c.Set("UserID", claims.ID)
			return next(c)
		}
	}
}

// ParseRefreshClaims validates a refresh token and returns the user id.
func ParseRefreshClaims(secret []byte, tokenString string) (int64, error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid || !claims.IsRefresh {
		return 0, fmt.Errorf("bad auth")
	}
	return claims.ID, nil
}
