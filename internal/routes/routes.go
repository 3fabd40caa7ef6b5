package routes

import (
	"net/http"

	"github.com/01moynul/lumino-partner-portal/internal/handlers"
	"github.com/01moynul/lumino-partner-portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Options configures the router beyond the handlers themselves.
type Options struct {
	Tokens     middleware.TokenValidator
	CORSOrigin string
	// UploadDir, when set, is served read-only under /uploads.
	UploadDir string
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS runs before everything else so preflights never hit auth.
	router.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/auth/login", h.Login)

		// --- Partner Wizard Routes (Public) ---
		v1.GET("/invites/:id/customization", h.GetInviteCustomization)
		v1.POST("/agreement/preview", h.PreviewAgreement)
		v1.POST("/applications/submit", h.SubmitApplication)
		v1.POST("/uploads", h.UploadFile)
		v1.GET("/download", h.Download)

		// --- Staff Routes (Login Required) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(opts.Tokens))
		{
			admin.GET("/search-prefixes", h.SearchPrefixes)

			admin.GET("/applications", h.ListApplications)
			admin.GET("/applications/export.xlsx", h.ExportXLSX)
			admin.GET("/applications/export.csv", h.ExportCSV)
			admin.GET("/applications/:id", h.GetApplication)
			admin.DELETE("/applications/:id", h.DeleteApplication)
			admin.PATCH("/applications/:id/status", h.UpdateApplicationStatus)
			admin.GET("/applications/:id/agreement.pdf", h.AgreementPDF)

			admin.GET("/applications/:id/schedule-a/history", h.ScheduleHistory)
			admin.POST("/applications/:id/schedule-a", h.CreateScheduleVersion)

			admin.POST("/invites", h.CreateInvite)
			admin.POST("/invites/bulk", h.BulkInvite)
			admin.POST("/invites/:id/resend", h.ResendInvite)
			admin.GET("/invites/:id/qr.png", h.InviteQRCode)
		}
	}

	return router
}
