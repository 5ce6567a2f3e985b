package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const letterReply = `{"content":"Gerb. UAB Prekyba, prašome grąžinti 120 EUR.","legalBasis":["CK 6.228"],"summary":"Reikalavimas grąžinti pinigus"}`

func TestAnalyzeCaseHandler_Fallback(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(newTestHandler(t, database, &scriptedModel{err: errors.New("connection refused")}))
	user := createTestUser(t, database, "analyze@example.com", models.RoleUser)
	c := createTestCase(t, database, user.ID, models.CaseStatusIntake)

	rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis services.CaseAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.True(t, analysis.Fallback)
	assert.Equal(t, 0.5, analysis.WinProbability)
	assert.NotEmpty(t, analysis.NextSteps)

	var stored models.Case
	require.NoError(t, database.First(&stored, "id = ?", c.ID).Error)
	assert.Equal(t, models.CaseStatusIntake, stored.Status)
	assert.Nil(t, stored.WinProbability)
}

func TestGenerateLetterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		database := setupTestDB(t)
		e := newTestServer(newTestHandler(t, database, &scriptedModel{reply: letterReply}))
		user := createTestUser(t, database, "letter@example.com", models.RoleUser)
		c := createTestCase(t, database, user.ID, models.CaseStatusAnalysis)

		rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/demand-letters", strings.NewReader(`{"tone":"firm","response_deadline_days":10}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var letter models.DemandLetter
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &letter))
		assert.Equal(t, models.DemandLetterDraft, letter.Status)

		rec = serve(t, e, user, http.MethodGet, "/api/demand-letters/"+letter.ID+"/print", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "PRETENZIJA")
		assert.Contains(t, rec.Body.String(), "prašome grąžinti 120 EUR")
	})

	t.Run("Model failure", func(t *testing.T) {
		database := setupTestDB(t)
		e := newTestServer(newTestHandler(t, database, &scriptedModel{err: errors.New("timeout")}))
		user := createTestUser(t, database, "letter-fail@example.com", models.RoleUser)
		c := createTestCase(t, database, user.ID, models.CaseStatusAnalysis)

		rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/demand-letters", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var letters int64
		database.Model(&models.DemandLetter{}).Where("case_id = ?", c.ID).Count(&letters)
		assert.Zero(t, letters)
	})

	t.Run("Deadline out of range", func(t *testing.T) {
		database := setupTestDB(t)
		e := newTestServer(newTestHandler(t, database, &scriptedModel{reply: letterReply}))
		user := createTestUser(t, database, "letter-range@example.com", models.RoleUser)
		c := createTestCase(t, database, user.ID, models.CaseStatusAnalysis)

		rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/demand-letters", strings.NewReader(`{"response_deadline_days":45}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "response_deadline_days")
	})
}

func TestSendLetterHandler(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(newTestHandler(t, database, &scriptedModel{reply: letterReply}))
	user := createTestUser(t, database, "send@example.com", models.RoleUser)
	c := createTestCase(t, database, user.ID, models.CaseStatusAnalysis)

	rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/demand-letters", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var letter models.DemandLetter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &letter))

	rec = serve(t, e, user, http.MethodPost, "/api/demand-letters/"+letter.ID+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result services.DeliveryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Regexp(t, `^EP-\d+-[0-9a-z]{9}$`, result.DeliveryRef)

	// A sent letter cannot be sent twice
	rec = serve(t, e, user, http.MethodPost, "/api/demand-letters/"+letter.ID+"/send", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFilingHandlers(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(newTestHandler(t, database, &scriptedModel{}))
	user := createTestUser(t, database, "filing@example.com", models.RoleUser)
	c := createTestCase(t, database, user.ID, models.CaseStatusNegotiation)

	rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/filings", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var filing models.CourtFiling
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filing))
	assert.Equal(t, models.FilingDraft, filing.Status)
	assert.Equal(t, "14", filing.CourtFee.String())

	t.Run("XML", func(t *testing.T) {
		rec := serve(t, e, user, http.MethodGet, "/api/filings/"+filing.ID+"/xml", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "xml")
		assert.Contains(t, rec.Body.String(), "<CourtFiling")
	})

	t.Run("Submitting a draft is refused", func(t *testing.T) {
		rec := serve(t, e, user, http.MethodPost, "/api/filings/"+filing.ID+"/submit", strings.NewReader(`{"signature_method":"SMART_ID"}`))
		require.Equal(t, http.StatusConflict, rec.Code)
		var result services.DeliveryResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, "Filing must be ready to sign", result.Error)
	})

	t.Run("Ready then submit", func(t *testing.T) {
		rec := serve(t, e, user, http.MethodPost, "/api/filings/"+filing.ID+"/ready", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(t, e, user, http.MethodPost, "/api/filings/"+filing.ID+"/submit", strings.NewReader(`{"signature_method":"MOBILE_ID"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var result services.DeliveryResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Regexp(t, `^LT-\d+-[0-9A-Z]{6}$`, result.CourtRef)
	})

	t.Run("PDF without renderer", func(t *testing.T) {
		rec := serve(t, e, user, http.MethodGet, "/api/filings/"+filing.ID+"/pdf", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNegotiationAdviceHandler(t *testing.T) {
	reply := `{"analysis":"Oponentas siūlo dalį sumos.","suggestedResponse":"Sutinkame su 100 EUR.","recommendedOffer":100,"strategy":"Kompromisas"}`
	database := setupTestDB(t)
	e := newTestServer(newTestHandler(t, database, &scriptedModel{reply: reply}))
	user := createTestUser(t, database, "nego@example.com", models.RoleUser)
	c := createTestCase(t, database, user.ID, models.CaseStatusAwaitingResponse)

	rec := serve(t, e, user, http.MethodPost, "/api/cases/"+c.ID+"/negotiations", strings.NewReader(`{"opponent_response":"Galime grąžinti tik 80 EUR."}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(t, e, user, http.MethodGet, "/api/cases/"+c.ID+"/negotiations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rounds []models.Negotiation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rounds))
	assert.Len(t, rounds, 1)

	var stored models.Case
	require.NoError(t, database.First(&stored, "id = ?", c.ID).Error)
	assert.Equal(t, models.CaseStatusNegotiation, stored.Status)
}
