package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/opencashbook/cashbook.go/controllers"
	"github.com/opencashbook/cashbook.go/lib/service"
	"github.com/opencashbook/cashbook.go/storage"
)

func RegisterEndpoints(svc *service.CashbookService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc) {
	e.POST("/v2/auth", controllers.NewAuthController(svc).Auth, strictRateLimitMiddleware)
	if svc.Config.AllowAccountCreation {
		e.POST("/v2/users", controllers.NewCreateUserController(svc).CreateUser, strictRateLimitMiddleware)
	}

	e.GET("/v2/health", controllers.NewHealthController().Check)
	e.GET("/v2/info", controllers.NewInfoController(svc).GetInfo, CreateCacheClient().Middleware())

	bookCtrl := controllers.NewBookController(svc)
	secured.GET("/v2/books", bookCtrl.GetBooks)
	secured.POST("/v2/books", bookCtrl.CreateBook)
	secured.GET("/v2/books/:book_id", bookCtrl.GetBook)
	secured.PUT("/v2/books/:book_id", bookCtrl.UpdateBook)
	secured.DELETE("/v2/books/:book_id", bookCtrl.DeleteBook)

	entryCtrl := controllers.NewEntryController(svc)
	secured.GET("/v2/books/:book_id/entries", entryCtrl.GetEntries)
	secured.POST("/v2/books/:book_id/entries", entryCtrl.CreateEntry)
	secured.GET("/v2/books/:book_id/entries/:entry_id", entryCtrl.GetEntry)
	secured.PUT("/v2/books/:book_id/entries/:entry_id", entryCtrl.UpdateEntry)
	secured.DELETE("/v2/books/:book_id/entries/:entry_id", entryCtrl.DeleteEntry)

	memberCtrl := controllers.NewMemberController(svc)
	secured.GET("/v2/books/:book_id/members", memberCtrl.GetMembers)
	secured.POST("/v2/books/:book_id/members", memberCtrl.InviteMember)
	secured.PUT("/v2/books/:book_id/members/:member_id", memberCtrl.UpdateMember)
	secured.DELETE("/v2/books/:book_id/members/:member_id", memberCtrl.RemoveMember)

	csvCtrl := controllers.NewCsvController(svc)
	// imports rewrite the whole book, keep them under the strict limit
	securedWithStrictRateLimit.POST("/v2/books/:book_id/entries/import", csvCtrl.ImportCsv)
	secured.GET("/v2/books/:book_id/entries/export", csvCtrl.ExportCsv)

	secured.GET("/v2/books/:book_id/report", controllers.NewReportController(svc).GetReport)

	e.PUT("/v2/admin/users/:user_id", controllers.NewAdminController(svc).UpdateUser, adminMw)

	// With the disk backend the uploaded attachments are served by this
	// process, S3 buckets serve their own public urls.
	if diskClient, ok := svc.Storage.(*storage.DiskClient); ok {
		e.Static("/attachments", diskClient.Root())
	}
}
