package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"teises_draugas_go/db"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"teises_draugas_go/services/ai"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("title", "is required"), http.StatusBadRequest},
		{"case not found", services.ErrCaseNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading letter: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"business rule", &services.BusinessRuleError{Message: "Cannot delete case in progress"}, http.StatusConflict},
		{"generation", &ai.GenerationError{Kind: ai.KindParse, Err: errors.New("bad json")}, http.StatusBadGateway},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodGet, "/", nil)
			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("validation details", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		require.NoError(t, respondError(c, services.NewValidationError("claim_amount", "too large")))

		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Validation error", body.Error)
		assert.Equal(t, "too large", body.Details["claim_amount"])
	})

	t.Run("internal errors stay hidden", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		require.NoError(t, respondError(c, errors.New("sqlite: database is locked")))
		assert.NotContains(t, rec.Body.String(), "sqlite")
	})
}

func TestRespondDelivery(t *testing.T) {
	tests := []struct {
		name   string
		result services.DeliveryResult
		status int
	}{
		{"delivered", services.DeliveryResult{Success: true, DeliveryRef: "EP-1"}, http.StatusOK},
		{"gateway failure", services.DeliveryResult{Error: "timeout"}, http.StatusBadGateway},
		{"precondition failure", services.DeliveryResult{Error: "Filing must be ready to sign", Rejected: true}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodPost, "/", nil)
			require.NoError(t, respondDelivery(c, &tt.result))
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "rejected")
		})
	}
}

func TestCourtFeeHandler(t *testing.T) {
	setupTestDB(t)
	e := newTestServer(newTestHandler(t, db.DB, &scriptedModel{}))

	tests := []struct {
		amount string
		status int
		fee    string
	}{
		{"290", http.StatusOK, "14"},
		{"290.01", http.StatusOK, "28"},
		{"5000", http.StatusOK, "145"},
		{"5000.01", http.StatusBadRequest, ""},
		{"0", http.StatusBadRequest, ""},
		{"abc", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			rec := serve(t, e, nil, http.MethodGet, "/api/reference/court-fee?amount="+tt.amount, nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.fee == "" {
				return
			}
			var quote courtFeeQuote
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
			assert.Equal(t, tt.fee, quote.CourtFee.String())
		})
	}
}

func TestLegalArticlesHandler(t *testing.T) {
	setupTestDB(t)
	e := newTestServer(newTestHandler(t, db.DB, &scriptedModel{}))

	rec := serve(t, e, nil, http.MethodGet, "/api/reference/legal-articles?category=AIRBNB", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []services.ArticleGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 4)
	assert.Equal(t, "rental", groups[0].Key)
	assert.Equal(t, "limitations", groups[3].Key)

	rec = serve(t, e, nil, http.MethodGet, "/api/reference/legal-articles?category=CRYPTO", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandlers(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(newTestHandler(t, database, &scriptedModel{}))
	user := createTestUser(t, database, "docs@example.com", models.RoleUser)
	c := createTestCase(t, database, user.ID, models.CaseStatusIntake)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	body, contentType := multipartFile(t, "sutartis.pdf", "application/pdf", pdf, map[string]string{
		"document_type": "CONTRACT",
		"description":   "Nuomos sutartis",
	})

	session, err := services.CreateSession(database, user.ID, "127.0.0.1", "test")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/cases/"+c.ID+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "sutartis.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.MimeType)

	rec = serve(t, e, user, http.MethodGet, "/api/cases/"+c.ID+"/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 1)

	rec = serve(t, e, user, http.MethodPatch, "/api/cases/"+c.ID+"/documents/"+doc.ID, bytes.NewReader([]byte(`{"document_type":"INVOICE","description":"Kvitas"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Kvitas")

	rec = serve(t, e, user, http.MethodGet, "/api/cases/"+c.ID+"/documents/"+doc.ID+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pdf, rec.Body.Bytes())

	rec = serve(t, e, user, http.MethodGet, "/api/cases/"+c.ID+"/documents/missing/download", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartFile(t *testing.T, name, contentType string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}
