package services

import (
	"context"
	"encoding/json"
	"errors"
	"teises_draugas_go/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodAnalysisReply = `Štai analizė:
{
  "winProbability": 0.72,
  "legalBasis": [{"articles": ["6.477", "6.493"], "explanation": "Nuomotojas privalo grąžinti užstatą", "strength": "strong"}],
  "riskFactors": [{"factor": "Nėra perdavimo akto", "severity": "low"}],
  "recommendedAction": "Siųskite pretenziją",
  "estimatedTimeline": "1-2 mėnesiai",
  "nextSteps": ["Siųskite pretenziją"],
  "summary": "Tvirta pozicija"
}`

func newTestAnalysisService(t *testing.T, model *fakeModel) (*AnalysisService, *models.User, *models.Case) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jonas@example.com", models.RoleUser)
	c := createTestCase(t, db, user.ID, models.CaseStatusIntake)
	return NewAnalysisService(db, model, nil), user, c
}

func TestAnalysisService_Analyze(t *testing.T) {
	model := newFakeModel(goodAnalysisReply)
	svc, user, c := newTestAnalysisService(t, model)
	svc.DB.Create(&models.Document{CaseID: c.ID, FileName: "sutartis.pdf", StorageKey: "k", FileSize: 1, MimeType: "application/pdf", DocumentType: models.DocumentContract})

	analysis, err := svc.Analyze(context.Background(), c.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, analysis.Fallback)
	assert.Equal(t, 0.72, analysis.WinProbability)

	req := model.lastRequest()
	assert.Equal(t, analysisSystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "- Reikalaujama suma: 800.00 EUR")
	assert.Contains(t, req.Prompt, "- Oponento tipas: Nenurodyta")
	assert.Contains(t, req.Prompt, "- CONTRACT: sutartis.pdf")
	assert.Contains(t, req.Prompt, "Nuomos sutartis: CK 6.477, 6.478, 6.492, 6.493 str.")
	assert.Contains(t, req.Prompt, analysisInstruction)

	updated := reloadCase(t, svc.DB, c.ID)
	assert.Equal(t, models.CaseStatusAnalysis, updated.Status)
	require.NotNil(t, updated.WinProbability)
	assert.Equal(t, 0.72, *updated.WinProbability)
	assert.Equal(t, "Siųskite pretenziją", updated.RecommendedAction)
	var basis []LegalBasis
	require.NoError(t, json.Unmarshal([]byte(updated.LegalBasis), &basis))
	assert.Equal(t, []string{"6.477", "6.493"}, basis[0].Articles)

	var event models.TimelineEvent
	require.NoError(t, svc.DB.Where("case_id = ? AND event_type = ?", c.ID, models.EventAIAnalysisComplete).First(&event).Error)
	assert.Equal(t, "Laimėjimo tikimybė: 72%", event.Description)
	assert.Equal(t, "green", event.Color)

	var logEntry models.AIInteractionLog
	require.NoError(t, svc.DB.Where("case_id = ?", c.ID).First(&logEntry).Error)
	assert.Equal(t, models.OutcomeSuccess, logEntry.Outcome)
	assert.Equal(t, 150, logEntry.TokensUsed)
	assert.Equal(t, "fake-model", logEntry.ModelUsed)
	assert.True(t, logEntry.DisclaimerShown)
}

func TestAnalysisService_Analyze_FallbackOnParseFailure(t *testing.T) {
	replies := map[string]string{
		"no json":          "Atsiprašau, negaliu atsakyti.",
		"missing key":      `{"winProbability": 0.7}`,
		"out of range":     `{"winProbability": 1.7, "legalBasis": [], "riskFactors": [], "recommendedAction": "", "estimatedTimeline": "", "nextSteps": [], "summary": ""}`,
		"null fields":      `{"winProbability": null, "legalBasis": null, "riskFactors": null, "recommendedAction": null, "estimatedTimeline": null, "nextSteps": null, "summary": null}`,
		"empty lists":      `{"winProbability": 0.8, "legalBasis": [], "riskFactors": [], "recommendedAction": "Siųskite pretenziją", "estimatedTimeline": "1 mėn.", "nextSteps": [], "summary": "Gera byla"}`,
		"unknown severity": `{"winProbability": 0.3, "legalBasis": [], "riskFactors": [{"factor": "x", "severity": "extreme"}], "recommendedAction": "", "estimatedTimeline": "", "nextSteps": [], "summary": ""}`,
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			svc, user, c := newTestAnalysisService(t, newFakeModel(reply))

			analysis, err := svc.Analyze(context.Background(), c.ID, user.ID)
			require.NoError(t, err)
			assert.True(t, analysis.Fallback)
			assert.Equal(t, 0.5, analysis.WinProbability)
			assert.NotEmpty(t, analysis.LegalBasis)
			assert.NotEmpty(t, analysis.RiskFactors)
			assert.Len(t, analysis.NextSteps, 3)

			// the case is left untouched
			updated := reloadCase(t, svc.DB, c.ID)
			assert.Equal(t, models.CaseStatusIntake, updated.Status)
			assert.Nil(t, updated.WinProbability)

			var logEntry models.AIInteractionLog
			require.NoError(t, svc.DB.Where("case_id = ?", c.ID).First(&logEntry).Error)
			assert.Equal(t, models.OutcomeParseError, logEntry.Outcome)
			assert.Equal(t, reply, logEntry.Response)
			assert.NotEmpty(t, logEntry.ErrorMessage)
		})
	}
}

func TestAnalysisService_Analyze_FallbackOnProviderError(t *testing.T) {
	model := newFakeModel()
	model.err = errors.New("API returned status: 529")
	svc, user, c := newTestAnalysisService(t, model)

	analysis, err := svc.Analyze(context.Background(), c.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, analysis.Fallback)

	var logEntry models.AIInteractionLog
	require.NoError(t, svc.DB.Where("case_id = ?", c.ID).First(&logEntry).Error)
	assert.Equal(t, models.OutcomeProviderError, logEntry.Outcome)
	assert.Zero(t, logEntry.TokensUsed)
	assert.Contains(t, logEntry.ErrorMessage, "529")
}

func TestAnalysisService_Analyze_DoesNotRegressStatus(t *testing.T) {
	svc, user, c := newTestAnalysisService(t, newFakeModel(goodAnalysisReply))
	svc.DB.Model(c).Update("status", models.CaseStatusFiled)

	_, err := svc.Analyze(context.Background(), c.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusFiled, reloadCase(t, svc.DB, c.ID).Status)
}

func TestAnalysisService_Analyze_NotOwned(t *testing.T) {
	model := newFakeModel(goodAnalysisReply)
	svc, _, c := newTestAnalysisService(t, model)

	_, err := svc.Analyze(context.Background(), c.ID, "someone-else")
	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.Empty(t, model.requests)
}

func TestProbabilityColor(t *testing.T) {
	assert.Equal(t, "green", probabilityColor(0.61))
	assert.Equal(t, "amber", probabilityColor(0.6))
	assert.Equal(t, "amber", probabilityColor(0.41))
	assert.Equal(t, "red", probabilityColor(0.4))
}

func TestNeutralAnalysis(t *testing.T) {
	a := NeutralAnalysis()
	assert.NoError(t, a.Validate())
	assert.Equal(t, []string{"6.245", "6.246"}, a.LegalBasis[0].Articles)
	assert.Equal(t, "Nepakanka informacijos pilnai analizei", a.RiskFactors[0].Factor)
}
