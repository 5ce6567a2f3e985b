package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"teises_draugas_go/models"
	"teises_draugas_go/services/ai"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database shared by all connections of the pool.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mem_%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: "Jonas Jonaitis", Email: email, Password: "x", Phone: "+37060000000", Role: role, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestCase(t *testing.T, db *gorm.DB, userID string, status models.CaseStatus) *models.Case {
	t.Helper()
	c := &models.Case{
		UserID:          userID,
		CaseNumber:      GenerateCaseNumber(time.Now()),
		Title:           "Neatiduotas nuomos užstatas",
		Description:     "Nuomotojas negrąžino 800 EUR užstato pasibaigus sutarčiai.",
		CaseType:        models.CaseTypeRentalDeposit,
		Category:        models.CategoryLandlordTenant,
		ClaimAmount:     decimal.NewFromInt(800),
		OpponentName:    "Petras Petraitis",
		OpponentEmail:   "petras@example.com",
		OpponentAddress: "Gedimino pr. 1, Vilnius",
		Status:          status,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create case: %v", err)
	}
	return c
}

func reloadCase(t *testing.T, db *gorm.DB, id string) *models.Case {
	t.Helper()
	var c models.Case
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload case: %v", err)
	}
	return &c
}

// fakeModel answers prompts from a fixed script.
type fakeModel struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []ai.Request
}

func newFakeModel(replies ...string) *fakeModel {
	return &fakeModel{replies: replies}
}

func (m *fakeModel) Name() string { return "fake-model" }

func (m *fakeModel) Complete(ctx context.Context, req ai.Request) (*ai.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	text := m.replies[0]
	m.replies = m.replies[1:]
	return &ai.Completion{Text: text, Model: "fake-model", InputTokens: 100, OutputTokens: 50}, nil
}

func (m *fakeModel) lastRequest() ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ai.Request{}
	}
	return m.requests[len(m.requests)-1]
}
