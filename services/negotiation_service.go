package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"teises_draugas_go/models"
	"teises_draugas_go/services/ai"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const negotiationMaxTokens = 1500

// NegotiationInput carries the opponent's reply to the demand letter.
type NegotiationInput struct {
	OpponentResponse string `json:"opponent_response" validate:"required,min=5,max=20000"`
}

type negotiationAdvice struct {
	Analysis          string           `json:"analysis"`
	SuggestedResponse string           `json:"suggestedResponse"`
	RecommendedOffer  *decimal.Decimal `json:"recommendedOffer"`
	Strategy          string           `json:"strategy"`
}

func (a *negotiationAdvice) Validate() error {
	if a.RecommendedOffer != nil && a.RecommendedOffer.IsNegative() {
		return errors.New("recommendedOffer is negative")
	}
	if strings.TrimSpace(a.SuggestedResponse) == "" {
		return errors.New("suggestedResponse is empty")
	}
	return nil
}

type NegotiationService struct {
	DB    *gorm.DB
	Model ai.Model
	Now   func() time.Time
}

func NewNegotiationService(db *gorm.DB, model ai.Model) *NegotiationService {
	return &NegotiationService{DB: db, Model: model, Now: time.Now}
}

// Advise analyses the opponent's reply and suggests an answer. The reply is
// kept as an incoming communication next to the advice.
func (s *NegotiationService) Advise(ctx context.Context, caseID, userID string, input NegotiationInput) (*models.Negotiation, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}

	prompt := buildNegotiationPrompt(c, input.OpponentResponse)
	advice, completion, genErr := ai.GenerateJSON[negotiationAdvice](ctx, s.Model, ai.Request{
		Prompt:    prompt,
		MaxTokens: negotiationMaxTokens,
	}, "analysis", "suggestedResponse", "strategy")

	call := aiCall{
		UserID:     userID,
		CaseID:     c.ID,
		Type:       models.InteractionNegotiationAdvice,
		Model:      s.Model.Name(),
		Prompt:     prompt,
		Completion: completion,
		Err:        genErr,
	}
	if genErr == nil {
		raw, _ := json.Marshal(advice)
		call.Response = string(raw)
	}
	if err := recordAICall(s.DB, call); err != nil {
		return nil, err
	}
	if genErr != nil {
		return nil, genErr
	}

	negotiation := &models.Negotiation{
		CaseID:            c.ID,
		OpponentResponse:  strings.TrimSpace(input.OpponentResponse),
		Analysis:          advice.Analysis,
		SuggestedResponse: advice.SuggestedResponse,
		RecommendedOffer:  advice.RecommendedOffer,
		Strategy:          advice.Strategy,
	}

	description := "Gautas oponento atsakymas ir paruoštas derybų patarimas"
	if advice.RecommendedOffer != nil {
		description = fmt.Sprintf("Rekomenduojamas pasiūlymas: %s", FormatEUR(*advice.RecommendedOffer))
	}

	now := s.Now()
	c.AdvanceTo(models.CaseStatusNegotiation)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Communication{
			CaseID:    c.ID,
			Type:      models.CommunicationResponse,
			Direction: models.DirectionIncoming,
			Subject:   "Oponento atsakymas",
			Content:   negotiation.OpponentResponse,
			SentAt:    &now,
		}).Error; err != nil {
			return fmt.Errorf("failed to create communication: %w", err)
		}
		if err := tx.Create(negotiation).Error; err != nil {
			return fmt.Errorf("failed to create negotiation: %w", err)
		}
		if err := saveCase(tx, c); err != nil {
			return err
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventNegotiationUpdate,
			Title:       "Derybų patarimas paruoštas",
			Description: description,
			Icon:        "message-circle",
			Color:       "blue",
		})
	})
	if err != nil {
		return nil, err
	}
	return negotiation, nil
}

// List returns the negotiation rounds of a case, newest first.
func (s *NegotiationService) List(caseID, userID string) ([]models.Negotiation, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var rounds []models.Negotiation
	if err := s.DB.Where("case_id = ?", caseID).Order("created_at DESC").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	return rounds, nil
}
