package services

import (
	"errors"
	"fmt"
	"log"
	"teises_draugas_go/models"
	"teises_draugas_go/services/ai"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// aiCall describes one finished model call.
type aiCall struct {
	UserID     string
	CaseID     string
	Type       models.InteractionType
	Model      string
	Prompt     string
	Response   string // decoded answer on success
	Completion *ai.Completion
	Err        error
}

func interactionOutcome(err error) models.InteractionOutcome {
	if err == nil {
		return models.OutcomeSuccess
	}
	var genErr *ai.GenerationError
	if errors.As(err, &genErr) && genErr.Kind == ai.KindParse {
		return models.OutcomeParseError
	}
	return models.OutcomeProviderError
}

// recordAICall writes the audit row and counts the call. It runs before any
// case data is persisted so the row survives a later failure.
func recordAICall(db *gorm.DB, call aiCall) error {
	outcome := interactionOutcome(call.Err)

	entry := &models.AIInteractionLog{
		UserID:          call.UserID,
		InteractionType: call.Type,
		Prompt:          call.Prompt,
		Response:        call.Response,
		ModelUsed:       call.Model,
		TokensUsed:      call.Completion.TokensUsed(),
		Outcome:         outcome,
		DisclaimerShown: true,
	}
	if call.CaseID != "" {
		entry.CaseID = &call.CaseID
	}
	if call.Completion != nil {
		if call.Completion.Model != "" {
			entry.ModelUsed = call.Completion.Model
		}
		if call.Err != nil {
			entry.Response = call.Completion.Text
		}
	}
	if call.Err != nil {
		entry.ErrorMessage = call.Err.Error()
	}

	interaction := string(call.Type)
	MetricAIRequests.With(prometheus.Labels{"interaction": interaction, "outcome": string(outcome)}).Inc()
	MetricAITokens.With(prometheus.Labels{"interaction": interaction}).Add(float64(entry.TokensUsed))

	if err := db.Create(entry).Error; err != nil {
		log.Printf("[AI] Failed to write interaction log for case %s: %v", call.CaseID, err)
		return fmt.Errorf("failed to write AI interaction log: %w", err)
	}
	return nil
}
