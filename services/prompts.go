package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"teises_draugas_go/models"
	"time"
)

const analysisSystemPrompt = `Tu esi Lietuvos teisės ekspertas, specializuojantis civilinėse bylose iki 5000 EUR.
Tavo užduotis - išanalizuoti pateiktą bylą ir pateikti profesionalią teisinę analizę pagal Lietuvos Civilinį kodeksą.

SVARBU:
1. Visada nurodyk konkrečius Civilinio kodekso straipsnius
2. Būk objektyvus vertindamas laimėjimo tikimybę
3. Identifikuok visus rizikos veiksnius
4. Rekomenduok konkrečius veiksmus
5. Atsižvelk į ieškinio senatį (paprastai 3 metai civilinėms byloms)

Atsakyk JSON formatu su šiais laukais:
- winProbability: skaičius nuo 0 iki 1
- legalBasis: masyvas su articles, explanation, strength (strong, moderate arba weak)
- riskFactors: masyvas su factor, severity (high, medium arba low), mitigation
- recommendedAction: string
- estimatedTimeline: string
- nextSteps: string masyvas
- summary: trumpas aprašymas lietuvių kalba`

const analysisInstruction = "Išanalizuok šią bylą ir pateik JSON atsakymą."

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Nenurodyta"
	}
	return s
}

// buildAnalysisContext lists the case facts, the evidence on file and the
// Civil Code articles usually relevant to the category.
func buildAnalysisContext(c *models.Case, documents []models.Document) string {
	opponentType := "Nenurodyta"
	if c.OpponentType != nil {
		opponentType = string(*c.OpponentType)
	}
	incident := "Nenurodyta"
	if c.IncidentDate != nil {
		incident = c.IncidentDate.Format("2006-01-02")
	}

	var b strings.Builder
	b.WriteString("BYLOS INFORMACIJA:\n")
	fmt.Fprintf(&b, "- Pavadinimas: %s\n", c.Title)
	fmt.Fprintf(&b, "- Aprašymas: %s\n", c.Description)
	fmt.Fprintf(&b, "- Bylos tipas: %s\n", c.CaseType)
	fmt.Fprintf(&b, "- Kategorija: %s\n", c.Category)
	fmt.Fprintf(&b, "- Reikalaujama suma: %s EUR\n", c.ClaimAmount.StringFixed(2))
	fmt.Fprintf(&b, "- Oponento tipas: %s\n", opponentType)
	fmt.Fprintf(&b, "- Įvykio data: %s\n", incident)
	fmt.Fprintf(&b, "- Dokumentų skaičius: %d\n", len(documents))

	b.WriteString("\nDOKUMENTŲ TIPAI:\n")
	for _, d := range documents {
		label := d.Description
		if label == "" {
			label = d.FileName
		}
		fmt.Fprintf(&b, "- %s: %s\n", d.DocumentType, label)
	}

	b.WriteString("\nAKTUALŪS CIVILINIO KODEKSO STRAIPSNIAI:\n")
	b.WriteString(formatArticleGroups(ArticleGroupsFor(c.Category)))
	return b.String()
}

var toneInstructions = map[models.LetterTone]string{
	models.ToneFormal:       "Rašyk formaliu, dalykišku tonu. Būk mandagus, bet aiškus.",
	models.ToneFirm:         "Rašyk tvirtai ir ryžtingai. Pabrėžk teisinius padarinius nevykdymo atveju.",
	models.ToneFinalWarning: "Tai paskutinis įspėjimas prieš teisminį procesą. Būk griežtas ir nurodyk konkrečius terminus.",
}

// legalBasisLines turns the stored analysis basis into citation lines. Stored
// text that is not a basis list yields an empty string.
func legalBasisLines(stored string) string {
	if stored == "" {
		return ""
	}
	var basis []LegalBasis
	if err := json.Unmarshal([]byte(stored), &basis); err != nil {
		return ""
	}
	lines := make([]string, 0, len(basis))
	for _, b := range basis {
		lines = append(lines, fmt.Sprintf("Civilinio kodekso %s str. - %s", strings.Join(b.Articles, ", "), b.Explanation))
	}
	return strings.Join(lines, "\n")
}

func buildDemandLetterPrompt(c *models.Case, tone models.LetterTone, days int, deadline time.Time) string {
	opponentType := string(models.OpponentIndividual)
	if c.OpponentType != nil {
		opponentType = string(*c.OpponentType)
	}
	incident := "Nenurodyta"
	if c.IncidentDate != nil {
		incident = FormatDateLT(*c.IncidentDate)
	}
	basis := legalBasisLines(c.LegalBasis)
	if basis == "" {
		basis = "Bus nustatyta pagal bylos aplinkybes"
	}

	var b strings.Builder
	b.WriteString("Tu esi Lietuvos teisininkas, rašantis pretenziją (ikiteisminį reikalavimą) klientui.\n\n")
	b.WriteString("BYLOS INFORMACIJA:\n")
	fmt.Fprintf(&b, "- Pavadinimas: %s\n", c.Title)
	fmt.Fprintf(&b, "- Aprašymas: %s\n", c.Description)
	fmt.Fprintf(&b, "- Reikalaujama suma: %s EUR\n", c.ClaimAmount.StringFixed(2))
	fmt.Fprintf(&b, "- Bylos tipas: %s\n", c.CaseType)
	fmt.Fprintf(&b, "- Oponentas: %s\n", orNotSpecified(c.OpponentName))
	fmt.Fprintf(&b, "- Oponento tipas: %s\n", opponentType)
	fmt.Fprintf(&b, "- Įvykio data: %s\n\n", incident)
	fmt.Fprintf(&b, "TEISINIS PAGRINDAS:\n%s\n\n", basis)
	fmt.Fprintf(&b, "TONAS: %s\n\n", toneInstructions[tone])
	fmt.Fprintf(&b, "TERMINAS ATSAKYMUI: %d dienų (iki %s)\n\n", days, FormatDateLT(deadline))
	b.WriteString(`Parašyk pilną pretenziją lietuvių kalba, kuri apima:
1. Faktinių aplinkybių aprašymą
2. Teisinį pagrindą (Civilinio kodekso straipsniai)
3. Konkretų reikalavimą (sumą, veiksmus)
4. Terminą atsakymui
5. Padarinius neatsakius (kreipimasis į teismą)

Atsakyk JSON formatu:
{
  "content": "pilnas pretenzijos tekstas",
  "legalBasis": ["straipsnių sąrašas"],
  "summary": "trumpas aprašymas"
}`)
	return b.String()
}

func buildNegotiationPrompt(c *models.Case, opponentResponse string) string {
	probability := 50
	if c.WinProbability != nil {
		probability = int(*c.WinProbability*100 + 0.5)
	}

	var b strings.Builder
	b.WriteString("Tu esi derybų ekspertas civilinėse bylose. Išanalizuok oponento atsakymą ir patark vartotoją.\n\n")
	b.WriteString("BYLOS KONTEKSTAS:\n")
	fmt.Fprintf(&b, "- Reikalaujama suma: %s EUR\n", c.ClaimAmount.StringFixed(2))
	fmt.Fprintf(&b, "- Bylos tipas: %s\n", c.CaseType)
	fmt.Fprintf(&b, "- Laimėjimo tikimybė: %d%%\n\n", probability)
	fmt.Fprintf(&b, "OPONENTO ATSAKYMAS:\n%s\n\n", strings.TrimSpace(opponentResponse))
	b.WriteString(`Pateik:
1. Atsakymo analizę
2. Siūlomą atsakymą
3. Rekomenduojamą pasiūlymą (jei taikoma)
4. Derybų strategiją

Atsakyk JSON formatu su laukais analysis, suggestedResponse, recommendedOffer, strategy.`)
	return b.String()
}
