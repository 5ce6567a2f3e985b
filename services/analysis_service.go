package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"teises_draugas_go/config"
	"teises_draugas_go/models"
	"teises_draugas_go/services/ai"

	"gorm.io/gorm"
)

// LegalBasis is one group of Civil Code articles supporting the claim.
type LegalBasis struct {
	Articles    []string `json:"articles"`
	Explanation string   `json:"explanation"`
	Strength    string   `json:"strength"`
}

type RiskFactor struct {
	Factor     string `json:"factor"`
	Severity   string `json:"severity"`
	Mitigation string `json:"mitigation,omitempty"`
}

// CaseAnalysis is the model's assessment of a case.
type CaseAnalysis struct {
	WinProbability    float64      `json:"winProbability"`
	LegalBasis        []LegalBasis `json:"legalBasis"`
	RiskFactors       []RiskFactor `json:"riskFactors"`
	RecommendedAction string       `json:"recommendedAction"`
	EstimatedTimeline string       `json:"estimatedTimeline"`
	NextSteps         []string     `json:"nextSteps"`
	Summary           string       `json:"summary"`

	// Fallback is set when the neutral analysis replaced a failed generation.
	Fallback bool `json:"fallback,omitempty"`
}

var analysisKeys = []string{
	"winProbability", "legalBasis", "riskFactors", "recommendedAction",
	"estimatedTimeline", "nextSteps", "summary",
}

// Validate rejects answers outside the agreed vocabulary.
func (a *CaseAnalysis) Validate() error {
	if math.IsNaN(a.WinProbability) || a.WinProbability < 0 || a.WinProbability > 1 {
		return fmt.Errorf("winProbability %v is outside [0,1]", a.WinProbability)
	}
	if len(a.RiskFactors) == 0 {
		return fmt.Errorf("riskFactors is empty")
	}
	if len(a.NextSteps) == 0 {
		return fmt.Errorf("nextSteps is empty")
	}
	for _, b := range a.LegalBasis {
		switch b.Strength {
		case "strong", "moderate", "weak":
		default:
			return fmt.Errorf("unknown legal basis strength %q", b.Strength)
		}
	}
	for _, r := range a.RiskFactors {
		switch r.Severity {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("unknown risk severity %q", r.Severity)
		}
	}
	return nil
}

// NeutralAnalysis is returned when the model cannot produce a usable answer.
func NeutralAnalysis() *CaseAnalysis {
	return &CaseAnalysis{
		WinProbability: 0.5,
		LegalBasis: []LegalBasis{{
			Articles:    []string{"6.245", "6.246"},
			Explanation: "Reikalinga detalesnė analizė. Prašome įkelti daugiau dokumentų.",
			Strength:    "moderate",
		}},
		RiskFactors: []RiskFactor{{
			Factor:     "Nepakanka informacijos pilnai analizei",
			Severity:   "medium",
			Mitigation: "Įkelkite papildomų dokumentų ir įrodymų",
		}},
		RecommendedAction: "Surinkite papildomus įrodymus ir pakartokite analizę",
		EstimatedTimeline: "2-4 savaitės pradiniam etapui",
		NextSteps: []string{
			"Įkelkite visus susijusius dokumentus",
			"Patikslinkite bylos aprašymą",
			"Pakartokite AI analizę",
		},
		Summary:  "Pradinė analizė atlikta. Rekomenduojama pateikti daugiau informacijos tikslesniam vertinimui.",
		Fallback: true,
	}
}

// probabilityColor bands the win probability for the timeline.
func probabilityColor(p float64) string {
	switch {
	case p > 0.6:
		return "green"
	case p > 0.4:
		return "amber"
	default:
		return "red"
	}
}

type AnalysisService struct {
	DB     *gorm.DB
	Model  ai.Model
	Config *config.Config
}

func NewAnalysisService(db *gorm.DB, model ai.Model, cfg *config.Config) *AnalysisService {
	return &AnalysisService{DB: db, Model: model, Config: cfg}
}

// Analyze asks the model for an assessment of the case. A failed generation
// never fails the request: the neutral analysis is returned instead and the
// case is left as it was.
func (s *AnalysisService) Analyze(ctx context.Context, caseID, userID string) (*CaseAnalysis, error) {
	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}

	var documents []models.Document
	if err := s.DB.Where("case_id = ?", c.ID).Order("created_at ASC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to load case documents: %w", err)
	}

	caseContext := buildAnalysisContext(c, documents)
	req := ai.Request{
		System:    analysisSystemPrompt,
		Prompt:    caseContext + "\n\n" + analysisInstruction,
		MaxTokens: s.maxTokens(),
	}

	analysis, completion, genErr := ai.GenerateJSON[CaseAnalysis](ctx, s.Model, req, analysisKeys...)

	call := aiCall{
		UserID:     userID,
		CaseID:     c.ID,
		Type:       models.InteractionCaseAnalysis,
		Model:      s.Model.Name(),
		Prompt:     caseContext,
		Completion: completion,
		Err:        genErr,
	}
	if genErr == nil {
		raw, _ := json.Marshal(analysis)
		call.Response = string(raw)
	}
	if err := recordAICall(s.DB, call); err != nil {
		return nil, err
	}

	if genErr != nil {
		log.Printf("[AI] Analysis of case %s failed, returning neutral analysis: %v", c.ID, genErr)
		return NeutralAnalysis(), nil
	}

	if err := s.persist(c, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *AnalysisService) maxTokens() int {
	if s.Config != nil && s.Config.AIMaxTokens > 0 {
		return s.Config.AIMaxTokens
	}
	return 2000
}

func (s *AnalysisService) persist(c *models.Case, analysis *CaseAnalysis) error {
	legalBasis, err := json.Marshal(analysis.LegalBasis)
	if err != nil {
		return fmt.Errorf("failed to encode legal basis: %w", err)
	}
	risks, err := json.Marshal(analysis.RiskFactors)
	if err != nil {
		return fmt.Errorf("failed to encode risk factors: %w", err)
	}

	p := analysis.WinProbability
	c.WinProbability = &p
	c.LegalBasis = string(legalBasis)
	c.RiskAssessment = string(risks)
	c.RecommendedAction = analysis.RecommendedAction
	c.AdvanceTo(models.CaseStatusAnalysis)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := saveCase(tx, c); err != nil {
			return err
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventAIAnalysisComplete,
			Title:       "AI analizė baigta",
			Description: fmt.Sprintf("Laimėjimo tikimybė: %d%%", int(math.Round(p*100))),
			Icon:        "brain",
			Color:       probabilityColor(p),
		})
	})
}
