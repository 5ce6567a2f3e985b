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

	"gorm.io/gorm"
)

const (
	DefaultResponseDeadlineDays = 14
	MinResponseDeadlineDays     = 7
	MaxResponseDeadlineDays     = 30

	demandLetterMaxTokens = 3000
)

// GenerateLetterInput selects the tone and response period of a new letter.
type GenerateLetterInput struct {
	Tone                 models.LetterTone `json:"tone" validate:"omitempty,enum"`
	ResponseDeadlineDays int               `json:"response_deadline_days" validate:"omitempty,min=7,max=30"`
}

type generatedLetter struct {
	Content    string   `json:"content"`
	LegalBasis []string `json:"legalBasis"`
	Summary    string   `json:"summary"`
}

func (g *generatedLetter) Validate() error {
	if strings.TrimSpace(g.Content) == "" {
		return errors.New("letter content is empty")
	}
	return nil
}

type DemandLetterService struct {
	DB    *gorm.DB
	Model ai.Model
	Now   func() time.Time
}

func NewDemandLetterService(db *gorm.DB, model ai.Model) *DemandLetterService {
	return &DemandLetterService{DB: db, Model: model, Now: time.Now}
}

// Generate drafts a new demand letter. Each call stores a new DRAFT row and
// earlier letters stay as they were. Generation errors are returned as is.
func (s *DemandLetterService) Generate(ctx context.Context, caseID, userID string, input GenerateLetterInput) (*models.DemandLetter, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.Tone == "" {
		input.Tone = models.ToneFormal
	}
	if input.ResponseDeadlineDays == 0 {
		input.ResponseDeadlineDays = DefaultResponseDeadlineDays
	}

	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}

	deadline := CalculateDeadline(s.Now(), input.ResponseDeadlineDays)
	prompt := buildDemandLetterPrompt(c, input.Tone, input.ResponseDeadlineDays, deadline)

	generated, completion, genErr := ai.GenerateJSON[generatedLetter](ctx, s.Model, ai.Request{
		Prompt:    prompt,
		MaxTokens: demandLetterMaxTokens,
	}, "content", "legalBasis", "summary")

	call := aiCall{
		UserID:     userID,
		CaseID:     c.ID,
		Type:       models.InteractionDemandLetter,
		Model:      s.Model.Name(),
		Prompt:     prompt,
		Completion: completion,
		Err:        genErr,
	}
	if genErr == nil {
		raw, _ := json.Marshal(generated)
		call.Response = string(raw)
	}
	if err := recordAICall(s.DB, call); err != nil {
		return nil, err
	}
	if genErr != nil {
		return nil, genErr
	}

	legalBasis, _ := json.Marshal(generated.LegalBasis)
	letter := &models.DemandLetter{
		CaseID:           c.ID,
		Content:          generated.Content,
		LegalBasis:       string(legalBasis),
		AISummary:        generated.Summary,
		AITone:           input.Tone,
		ResponseDeadline: deadline,
		Status:           models.DemandLetterDraft,
	}

	c.AdvanceTo(models.CaseStatusDemandLetter)
	c.CurrentStep = models.CaseStepDemandLetter

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(letter).Error; err != nil {
			return fmt.Errorf("failed to create demand letter: %w", err)
		}
		if err := saveCase(tx, c); err != nil {
			return err
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventDemandLetterCreated,
			Title:       "Pretenzija sukurta",
			Description: fmt.Sprintf("Sukurta pretenzija su %d dienų atsakymo terminu", input.ResponseDeadlineDays),
			Icon:        "file-text",
			Color:       "blue",
		})
	})
	if err != nil {
		return nil, err
	}
	return letter, nil
}

// List returns the letters of a case, newest first.
func (s *DemandLetterService) List(caseID, userID string) ([]models.DemandLetter, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var letters []models.DemandLetter
	if err := s.DB.Where("case_id = ?", caseID).Order("created_at DESC").Find(&letters).Error; err != nil {
		return nil, fmt.Errorf("failed to list demand letters: %w", err)
	}
	return letters, nil
}

// Get loads a letter together with its case and the case owner.
func (s *DemandLetterService) Get(letterID, userID string) (*models.DemandLetter, error) {
	return findOwnedLetter(s.DB, letterID, userID)
}

func findOwnedLetter(db *gorm.DB, letterID, userID string) (*models.DemandLetter, error) {
	var letter models.DemandLetter
	err := db.Preload("Case.User").
		Joins("JOIN cases ON cases.id = demand_letters.case_id AND cases.deleted_at IS NULL").
		Where("demand_letters.id = ? AND cases.user_id = ?", letterID, userID).
		First(&letter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load demand letter: %w", err)
	}
	return &letter, nil
}

var (
	printBanner    = strings.Repeat("=", 80)
	printSeparator = strings.Repeat("-", 80)
)

func centerLine(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// FormatForPrint wraps a letter in the fixed plain-text envelope used for
// printing and postal delivery.
func (s *DemandLetterService) FormatForPrint(letterID, userID string) (string, error) {
	letter, err := findOwnedLetter(s.DB, letterID, userID)
	if err != nil {
		return "", err
	}
	return FormatDemandLetterForPrint(letter, letter.Case, letter.Case.User, s.Now()), nil
}

// FormatDemandLetterForPrint renders the envelope for a letter of case c sent by sender.
func FormatDemandLetterForPrint(letter *models.DemandLetter, c *models.Case, sender *models.User, now time.Time) string {
	const indent = "         "

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("")
	line(printBanner)
	line(centerLine("PRETENZIJA", 80))
	line(centerLine("(Ikiteisminis reikalavimas)", 80))
	line(printBanner)
	line("")
	line("Nuo:     %s", orPlaceholder(sender.Name, "Vardas Pavardė"))
	line(indent+"El. paštas: %s", sender.Email)
	if sender.Phone != "" {
		line(indent+"Tel.: %s", sender.Phone)
	}
	line("")
	line("Kam:     %s", orPlaceholder(c.OpponentName, "[Oponento vardas]"))
	line(indent+"%s", orPlaceholder(c.OpponentAddress, "[Oponento adresas]"))
	line("")
	line("Data:    %s", FormatDateLT(now))
	line("")
	line("Dėl:     %s", c.Title)
	line(indent+"Suma: %s EUR", c.ClaimAmount.StringFixed(2))
	line("")
	line(printSeparator)
	line("")
	line("%s", letter.Content)
	line("")
	line(printSeparator)
	line("")
	deadline := "14 dienų"
	if !letter.ResponseDeadline.IsZero() {
		deadline = FormatDateLT(letter.ResponseDeadline)
	}
	line("Atsakymo terminas: %s", deadline)
	line("")
	line(printBanner)
	line(centerLine("Dokumentas sugeneruotas Teisės Draugas platforma", 80))
	line(centerLine("www.teisesdraugas.lt | AI teisinis pagalbininkas", 80))
	line(printBanner)
	return b.String()
}
