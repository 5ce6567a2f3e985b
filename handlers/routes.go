package handlers

import (
	"net/http"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API. Model-backed endpoints share aiLimiter.
func RegisterRoutes(e *echo.Echo, h *Handler, aiLimiter *middleware.RateLimiter) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.RegisterHandler)
	api.POST("/auth/login", h.LoginHandler, middleware.LoginRateLimiter.Middleware())
	api.GET("/reference/court-fee", h.CourtFeeHandler)
	api.GET("/reference/legal-articles", h.LegalArticlesHandler)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/auth/logout", h.LogoutHandler)
		protected.GET("/auth/me", h.MeHandler)

		protected.GET("/cases", h.ListCasesHandler)
		protected.POST("/cases", h.CreateCaseHandler)
		protected.GET("/cases/export", h.ExportCasesHandler)
		protected.GET("/cases/:id", h.GetCaseHandler)
		protected.PATCH("/cases/:id", h.UpdateCaseHandler)
		protected.DELETE("/cases/:id", h.DeleteCaseHandler)
		protected.GET("/cases/:id/timeline", h.CaseTimelineHandler)

		protected.GET("/cases/:id/documents", h.ListDocumentsHandler)
		protected.POST("/cases/:id/documents", h.UploadDocumentHandler)
		protected.PATCH("/cases/:id/documents/:docID", h.UpdateDocumentHandler)
		protected.GET("/cases/:id/documents/:docID/download", h.DownloadDocumentHandler)

		protected.GET("/cases/:id/demand-letters", h.ListLettersHandler)
		protected.GET("/demand-letters/:letterID/print", h.PrintLetterHandler)
		protected.POST("/demand-letters/:letterID/send", h.SendLetterHandler)

		protected.GET("/cases/:id/filings", h.ListFilingsHandler)
		protected.POST("/cases/:id/filings", h.GenerateFilingHandler)
		protected.POST("/filings/:filingID/ready", h.MarkFilingReadyHandler)
		protected.GET("/filings/:filingID/xml", h.FilingXMLHandler)
		protected.GET("/filings/:filingID/pdf", h.FilingPDFHandler)
		protected.POST("/filings/:filingID/submit", h.SubmitFilingHandler)

		protected.GET("/cases/:id/negotiations", h.ListNegotiationsHandler)
		protected.GET("/cases/:id/reviews", h.ListCaseReviewsHandler)
		protected.POST("/cases/:id/reviews", h.RequestReviewHandler)

		protected.GET("/notifications", h.ListNotificationsHandler)
		protected.POST("/notifications/read-all", h.MarkAllNotificationsReadHandler)
		protected.POST("/notifications/:id/read", h.MarkNotificationReadHandler)

		// AI routes
		aiRoutes := protected.Group("")
		aiRoutes.Use(aiLimiter.Middleware())
		{
			aiRoutes.POST("/cases/:id/analyze", h.AnalyzeCaseHandler)
			aiRoutes.POST("/cases/:id/demand-letters", h.GenerateLetterHandler)
			aiRoutes.POST("/cases/:id/negotiations", h.NegotiationAdviceHandler)
		}

		// Lawyer routes
		lawyerRoutes := protected.Group("/reviews")
		lawyerRoutes.Use(middleware.RequireRole(models.RoleLawyer, models.RoleAdmin))
		{
			lawyerRoutes.GET("/pending", h.PendingReviewsHandler)
			lawyerRoutes.POST("/:reviewID/claim", h.ClaimReviewHandler)
			lawyerRoutes.POST("/:reviewID/complete", h.CompleteReviewHandler)
		}
	}
}
