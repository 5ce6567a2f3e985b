// Package integrations holds the gateways to the national e-delivery service
// (E. pristatymas) and the e-court filing system (e.teismas).
package integrations

import (
	"context"
	"teises_draugas_go/config"
	"teises_draugas_go/models"
)

// Result is the uniform answer of both gateways.
type Result struct {
	Success   bool
	Reference string
	Error     string
}

// LetterDelivery is a demand letter ready for electronic delivery.
type LetterDelivery struct {
	LetterID         string
	CaseNumber       string
	SenderName       string
	SenderEmail      string
	RecipientName    string
	RecipientEmail   string
	RecipientAddress string
	Subject          string
	Content          string
}

// FilingSubmission is a signed court filing.
type FilingSubmission struct {
	FilingID        string
	CaseNumber      string
	CourtCode       string
	XMLContent      string
	SignatureMethod models.SignatureMethod
}

// LetterDeliverer sends demand letters with legal proof of service.
type LetterDeliverer interface {
	DeliverLetter(ctx context.Context, letter LetterDelivery) Result
	Channel() string
}

// FilingSubmitter submits court filings to the e-court backend.
type FilingSubmitter interface {
	SubmitFiling(ctx context.Context, filing FilingSubmission) Result
	Channel() string
}

const (
	ChannelEPristatymas = "e_pristatymas"
	ChannelETeismas     = "e_teismas"
)

// NewLetterDeliverer returns the deliverer selected by INTEGRATION_MODE.
func NewLetterDeliverer(cfg *config.Config) LetterDeliverer {
	if cfg.IntegrationMode == config.IntegrationModeLive {
		return NewEPristatymasClient(cfg.EPristatymasAPIURL, cfg.EPristatymasAPIKey)
	}
	return NewSimulator()
}

// NewFilingSubmitter returns the submitter selected by INTEGRATION_MODE.
func NewFilingSubmitter(cfg *config.Config) FilingSubmitter {
	if cfg.IntegrationMode == config.IntegrationModeLive {
		return NewETeismasClient(cfg.ETeismasAPIURL, cfg.ETeismasAPIKey)
	}
	return NewSimulator()
}
