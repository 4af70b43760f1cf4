package responses

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "not found",
	HttpStatusCode: 404,
}

var PermissionDeniedError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "you are not allowed to perform this action",
	HttpStatusCode: 403,
}

var LoginTakenError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "login already exists",
	HttpStatusCode: 400,
}

var EmailTakenError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "email already exists",
	HttpStatusCode: 400,
}

var MemberExistsError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "this member is already added",
	HttpStatusCode: 409,
}

var InvalidRoleError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "role must be viewer or editor",
	HttpStatusCode: 400,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "amount must be a non-negative number",
	HttpStatusCode: 400,
}

var AccountDeactivatedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Account has been suspended. Please contact support for further assistance.",
	HttpStatusCode: 401,
}

// ImportError wraps a row-scoped CSV import failure. The whole batch is
// rejected, the message names the first offending row.
func ImportError(err error) ErrorResponse {
	return ErrorResponse{
		Error:          true,
		Code:           9,
		Message:        fmt.Sprintf("import failed: %v", err),
		HttpStatusCode: 400,
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}

// auth failures are user error noise, they never go to sentry
func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	m, ok := he.Message.(echo.Map)
	if !ok {
		return true
	}
	code, ok := m["code"].(int)
	if !ok {
		return true
	}
	return code != BadAuthError.Code
}
