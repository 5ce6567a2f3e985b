package services

import (
	"teises_draugas_go/config"
	"teises_draugas_go/services/ai"
	"teises_draugas_go/services/integrations"

	"gorm.io/gorm"
)

// Services bundles the domain services the HTTP layer calls.
type Services struct {
	Config        *config.Config
	DB            *gorm.DB
	Cases         *CaseService
	Documents     *DocumentService
	Analysis      *AnalysisService
	Letters       *DemandLetterService
	Filings       *CourtFilingService
	Delivery      *DeliveryService
	Reviews       *LawyerReviewService
	Negotiations  *NegotiationService
	Notifications *NotificationService
}

// Dependencies are the outside collaborators picked at startup.
type Dependencies struct {
	Model    ai.Model
	Storage  StorageProvider
	Letters  integrations.LetterDeliverer
	Filings  integrations.FilingSubmitter
	Renderer PDFRenderer
}

func NewServices(cfg *config.Config, db *gorm.DB, deps Dependencies) *Services {
	notifications := NewNotificationService(db, cfg)
	return &Services{
		Config:        cfg,
		DB:            db,
		Cases:         NewCaseService(db, notifications),
		Documents:     NewDocumentService(db, deps.Storage),
		Analysis:      NewAnalysisService(db, deps.Model, cfg),
		Letters:       NewDemandLetterService(db, deps.Model),
		Filings:       NewCourtFilingService(db, deps.Renderer),
		Delivery:      NewDeliveryService(db, deps.Letters, deps.Filings, notifications),
		Reviews:       NewLawyerReviewService(db, notifications),
		Negotiations:  NewNegotiationService(db, deps.Model),
		Notifications: notifications,
	}
}
