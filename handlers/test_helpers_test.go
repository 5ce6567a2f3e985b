package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"teises_draugas_go/config"
	"teises_draugas_go/db"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"teises_draugas_go/services/ai"
	"teises_draugas_go/services/integrations"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testConfig = &config.Config{Environment: "test"}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(models.All()...))

	// RequireAuth reads the global DB
	db.DB = testDB
	return testDB
}

// scriptedModel answers with reply, or fails with err when set.
type scriptedModel struct {
	reply string
	err   error
}

func (m *scriptedModel) Name() string { return "scripted-model" }

func (m *scriptedModel) Complete(ctx context.Context, req ai.Request) (*ai.Completion, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.reply == "" {
		return nil, errors.New("no scripted reply")
	}
	return &ai.Completion{Text: m.reply, Model: "scripted-model", InputTokens: 10, OutputTokens: 10}, nil
}

func newTestHandler(t *testing.T, database *gorm.DB, model ai.Model) *Handler {
	t.Helper()
	sim := integrations.NewSimulator()
	svc := services.NewServices(testConfig, database, services.Dependencies{
		Model:   model,
		Storage: services.NewLocalStorage(t.TempDir()),
		Letters: sim,
		Filings: sim,
	})
	// Notifications are stored only; no email in tests
	svc.Notifications.Config = nil
	return New(svc)
}

// newTestServer mounts every route the way cmd/server does.
func newTestServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", testConfig)
			return next(c)
		}
	})
	RegisterRoutes(e, h, middleware.NewAIRateLimiter(100))
	return e
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig)

	return e, c, rec
}

// serve sends a request through the full router, signed in as user when set.
func serve(t *testing.T, e *echo.Echo, user *models.User, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != nil {
		session, err := services.CreateSession(db.DB, user.ID, "127.0.0.1", "test")
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createTestUser(t *testing.T, database *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := services.HashPassword("slaptazodis123")
	require.NoError(t, err)
	user := &models.User{Name: "Ona Onaitė", Email: email, Password: hash, Role: role, IsActive: true}
	require.NoError(t, database.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, database *gorm.DB, userID string, status models.CaseStatus) *models.Case {
	t.Helper()
	c := &models.Case{
		UserID:          userID,
		CaseNumber:      services.GenerateCaseNumber(time.Now()),
		Title:           "Negrąžinti pinigai už prekę",
		Description:     "Pardavėjas negrąžino pinigų už grąžintą prekę.",
		CaseType:        models.CaseTypeConsumerDispute,
		Category:        models.CategoryOnlinePurchase,
		ClaimAmount:     decimal.NewFromInt(120),
		OpponentName:    "UAB Prekyba",
		OpponentAddress: "Laisvės al. 10, Kaunas",
		Status:          status,
	}
	require.NoError(t, database.Create(c).Error)
	return c
}
