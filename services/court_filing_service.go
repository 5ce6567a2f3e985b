package services

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"teises_draugas_go/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Court is a district court that accepts payment-order applications.
type Court struct {
	Code string
	Name string
}

var (
	CourtVilnius   = Court{Code: "VRT", Name: "Vilniaus miesto apylinkės teismas"}
	CourtKaunas    = Court{Code: "KRT", Name: "Kauno apylinkės teismas"}
	CourtKlaipeda  = Court{Code: "KLT", Name: "Klaipėdos apylinkės teismas"}
	CourtSiauliai  = Court{Code: "SRT", Name: "Šiaulių apylinkės teismas"}
	CourtPanevezys = Court{Code: "PRT", Name: "Panevėžio apylinkės teismas"}
)

// Courts lists every court by code.
var Courts = map[string]Court{
	CourtVilnius.Code:   CourtVilnius,
	CourtKaunas.Code:    CourtKaunas,
	CourtKlaipeda.Code:  CourtKlaipeda,
	CourtSiauliai.Code:  CourtSiauliai,
	CourtPanevezys.Code: CourtPanevezys,
}

// GenerateFilingInput selects the filing type. Only payment orders are generated.
type GenerateFilingInput struct {
	FilingType models.FilingType `json:"filing_type" validate:"omitempty,enum"`
}

type CourtFilingService struct {
	DB       *gorm.DB
	Renderer PDFRenderer
	Now      func() time.Time
}

func NewCourtFilingService(db *gorm.DB, renderer PDFRenderer) *CourtFilingService {
	return &CourtFilingService{DB: db, Renderer: renderer, Now: time.Now}
}

// Generate prepares a payment-order application from the case data. No model
// is involved; the document is filled from a fixed template.
func (s *CourtFilingService) Generate(caseID, userID string, input GenerateFilingInput) (*models.CourtFiling, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.FilingType == "" {
		input.FilingType = models.FilingPaymentOrder
	}
	if input.FilingType != models.FilingPaymentOrder {
		return nil, NewValidationError("filing_type", "only PAYMENT_ORDER filings can be generated")
	}

	var c models.Case
	err := s.DB.Preload("User").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ? AND user_id = ?", caseID, userID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}

	now := s.Now()
	court := CourtVilnius
	fee := CalculateCourtFee(c.ClaimAmount)

	xmlContent, err := BuildFilingXML(&c, c.User, court, fee, input.FilingType, now)
	if err != nil {
		return nil, err
	}

	filing := &models.CourtFiling{
		CaseID:     c.ID,
		FilingType: input.FilingType,
		Content:    BuildPaymentOrderContent(&c, c.User, court, fee, now),
		XMLContent: xmlContent,
		CourtCode:  court.Code,
		CourtName:  court.Name,
		CourtFee:   fee,
		Status:     models.FilingDraft,
	}

	c.AdvanceTo(models.CaseStatusPreparingFiling)
	c.CurrentStep = models.CaseStepCourtFiling

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(filing).Error; err != nil {
			return fmt.Errorf("failed to create court filing: %w", err)
		}
		if err := saveCase(tx, &c); err != nil {
			return err
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventCourtFilingPrepared,
			Title:       "Teismo dokumentai paruošti",
			Description: "Paruoštas prašymas išduoti teismo įsakymą",
			Icon:        "gavel",
			Color:       "purple",
		})
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

// MarkReadyToSign confirms a DRAFT filing for signing and submission.
func (s *CourtFilingService) MarkReadyToSign(filingID, userID string) (*models.CourtFiling, error) {
	filing, err := findOwnedFiling(s.DB, filingID, userID)
	if err != nil {
		return nil, err
	}
	if filing.Status != models.FilingDraft {
		return nil, newBusinessRuleError("Only draft filings can be marked ready to sign")
	}

	filing.Status = models.FilingReadyToSign
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(filing).Update("status", filing.Status).Error; err != nil {
			return fmt.Errorf("failed to update court filing: %w", err)
		}
		return addTimelineEvent(tx, filing.CaseID, timelineEntry{
			Type:        models.EventCourtFilingReady,
			Title:       "Dokumentai paruošti pasirašyti",
			Description: "Prašymas išduoti teismo įsakymą patvirtintas pasirašymui",
			Icon:        "pen-tool",
			Color:       "purple",
		})
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

// List returns the filings of a case, newest first.
func (s *CourtFilingService) List(caseID, userID string) ([]models.CourtFiling, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var filings []models.CourtFiling
	if err := s.DB.Where("case_id = ?", caseID).Order("created_at DESC").Find(&filings).Error; err != nil {
		return nil, fmt.Errorf("failed to list court filings: %w", err)
	}
	return filings, nil
}

func (s *CourtFilingService) Get(filingID, userID string) (*models.CourtFiling, error) {
	return findOwnedFiling(s.DB, filingID, userID)
}

func findOwnedFiling(db *gorm.DB, filingID, userID string) (*models.CourtFiling, error) {
	var filing models.CourtFiling
	err := db.Preload("Case.User").
		Joins("JOIN cases ON cases.id = court_filings.case_id AND cases.deleted_at IS NULL").
		Where("court_filings.id = ? AND cases.user_id = ?", filingID, userID).
		First(&filing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load court filing: %w", err)
	}
	return &filing, nil
}

// BuildPaymentOrderContent renders the application for a court order
// (Code of Civil Procedure art. 431-439) as plain text.
func BuildPaymentOrderContent(c *models.Case, applicant *models.User, court Court, fee decimal.Decimal, now time.Time) string {
	respondentCodeLabel := "Asmens kodas:"
	if c.OpponentType != nil && *c.OpponentType == models.OpponentCompany {
		respondentCodeLabel = "Įmonės kodas:"
	}
	incident := "[Data]"
	if c.IncidentDate != nil {
		incident = FormatDateLT(*c.IncidentDate)
	}
	amount := FormatEUR(c.ClaimAmount)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	section := func(title string) {
		line(printSeparator)
		line(centerLine(title, 80))
		line(printSeparator)
		line("")
	}

	line("")
	line(printBanner)
	line(centerLine("PRAŠYMAS IŠDUOTI TEISMO ĮSAKYMĄ", 80))
	line(centerLine("(Civilinio proceso kodekso 431-439 straipsniai)", 80))
	line(printBanner)
	line("")
	line("%s", court.Name)
	line("")
	line("KREDITORIUS (Pareiškėjas):")
	line("Vardas, pavardė: %s", orPlaceholder(applicant.Name, "[Vardas Pavardė]"))
	line("Asmens kodas: %s", orPlaceholder(applicant.PersonalCode, "[Asmens kodas]"))
	line("Gyvenamoji vieta: [Adresas]")
	line("Telefonas: %s", orPlaceholder(applicant.Phone, "[Telefonas]"))
	line("El. paštas: %s", applicant.Email)
	line("")
	line("SKOLININKAS:")
	line("Vardas, pavardė / Pavadinimas: %s", orPlaceholder(c.OpponentName, "[Skolininko vardas]"))
	line("%s [Kodas]", respondentCodeLabel)
	line("Adresas: %s", orPlaceholder(c.OpponentAddress, "[Skolininko adresas]"))
	line("")
	section("REIKALAVIMAS")
	line("Prašau išduoti teismo įsakymą, kuriuo būtų priteista iš skolininko:")
	line("")
	line("1. Pagrindinė skola: %s", amount)
	line("")
	line("2. Procesinis 5 proc. dydžio metinės palūkanos nuo %s", amount)
	line("   sumos nuo bylos iškėlimo teisme dienos iki teismo sprendimo visiško įvykdymo.")
	line("")
	line("3. Bylinėjimosi išlaidos.")
	line("")
	section("REIKALAVIMO PAGRINDAS")
	line("%s", c.Description)
	line("")
	line("Įvykio data: %s", incident)
	line("")
	line("TEISINIS PAGRINDAS:")
	line("- Lietuvos Respublikos civilinio kodekso 6.245 str. (sutartinė atsakomybė)")
	line("- Lietuvos Respublikos civilinio kodekso 6.37 str. (prievolių vykdymas)")
	line("- Lietuvos Respublikos civilinio proceso kodekso 431-439 str. (teismo įsakymas)")
	line("")
	section("PRIDEDAMI DOKUMENTAI")
	if len(c.Documents) == 0 {
		line("1. [Dokumentų sąrašas]")
	}
	for i, d := range c.Documents {
		line("%d. %s (%s)", i+1, d.FileName, d.DocumentType)
	}
	line("")
	line(printSeparator)
	line("")
	line("Žyminis mokestis: %s", FormatEUR(fee))
	line("")
	line("Patvirtinu, kad:")
	line("- Reikalavimas grindžiamas rašytiniais įrodymais")
	line("- Reikalavimas nėra ginčijamas")
	line("- Skolininko gyvenamoji/buveinės vieta yra žinoma")
	line("")
	line("Data: %s", FormatDateLT(now))
	line("")
	line("Pareiškėjas: ____________________")
	line("             (parašas)")
	line("")
	line(printBanner)
	line(centerLine("Dokumentas sugeneruotas Teisės Draugas platforma", 80))
	line(printBanner)
	return b.String()
}

const filingNamespace = "http://www.e.teismas.lt/schema/filing"

type xmlFiling struct {
	XMLName    xml.Name      `xml:"CourtFiling"`
	Xmlns      string        `xml:"xmlns,attr"`
	Header     xmlHeader     `xml:"Header"`
	Applicant  xmlApplicant  `xml:"Applicant"`
	Respondent xmlRespondent `xml:"Respondent"`
	Claim      xmlClaim      `xml:"Claim"`
	Fees       xmlFees       `xml:"Fees"`
	Documents  xmlDocuments  `xml:"Documents"`
}

type xmlHeader struct {
	FilingType     string   `xml:"FilingType"`
	Court          xmlCourt `xml:"Court"`
	SubmissionDate string   `xml:"SubmissionDate"`
}

type xmlCourt struct {
	Code string `xml:"Code"`
	Name string `xml:"Name"`
}

type xmlApplicant struct {
	Name         string `xml:"Name"`
	PersonalCode string `xml:"PersonalCode"`
	Email        string `xml:"Email"`
	Phone        string `xml:"Phone"`
}

type xmlRespondent struct {
	Name    string `xml:"Name"`
	Type    string `xml:"Type"`
	Address string `xml:"Address"`
}

type xmlAmount struct {
	Currency string `xml:"currency,attr"`
	Value    string `xml:",chardata"`
}

type xmlCDATA struct {
	Text string `xml:",cdata"`
}

type xmlClaim struct {
	Amount       xmlAmount `xml:"Amount"`
	Description  xmlCDATA  `xml:"Description"`
	IncidentDate string    `xml:"IncidentDate"`
}

type xmlFees struct {
	CourtFee xmlAmount `xml:"CourtFee"`
}

type xmlDocuments struct {
	Items []xmlDocument `xml:"Document"`
}

type xmlDocument struct {
	Name string `xml:"Name"`
	Type string `xml:"Type"`
	Path string `xml:"Path"`
}

// BuildFilingXML renders the machine-readable twin of the application for the
// e.teismas gateway.
func BuildFilingXML(c *models.Case, applicant *models.User, court Court, fee decimal.Decimal, filingType models.FilingType, now time.Time) (string, error) {
	respondentType := string(models.OpponentIndividual)
	if c.OpponentType != nil {
		respondentType = string(*c.OpponentType)
	}
	incident := ""
	if c.IncidentDate != nil {
		incident = c.IncidentDate.Format("2006-01-02")
	}

	doc := xmlFiling{
		Xmlns: filingNamespace,
		Header: xmlHeader{
			FilingType:     string(filingType),
			Court:          xmlCourt{Code: court.Code, Name: court.Name},
			SubmissionDate: now.UTC().Format(time.RFC3339),
		},
		Applicant: xmlApplicant{
			Name:         applicant.Name,
			PersonalCode: applicant.PersonalCode,
			Email:        applicant.Email,
			Phone:        applicant.Phone,
		},
		Respondent: xmlRespondent{
			Name:    c.OpponentName,
			Type:    respondentType,
			Address: c.OpponentAddress,
		},
		Claim: xmlClaim{
			Amount:       xmlAmount{Currency: "EUR", Value: c.ClaimAmount.StringFixed(2)},
			Description:  xmlCDATA{Text: c.Description},
			IncidentDate: incident,
		},
		Fees: xmlFees{CourtFee: xmlAmount{Currency: "EUR", Value: fee.StringFixed(2)}},
	}
	for _, d := range c.Documents {
		doc.Documents.Items = append(doc.Documents.Items, xmlDocument{Name: d.FileName, Type: string(d.DocumentType), Path: d.StorageKey})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode filing XML: %w", err)
	}
	return xml.Header + string(out), nil
}
