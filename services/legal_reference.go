package services

import (
	"fmt"
	"strings"
	"teises_draugas_go/models"
)

// ArticleGroup is a set of Civil Code articles that apply to one kind of dispute.
type ArticleGroup struct {
	Key      string   `json:"key"`
	Articles []string `json:"articles"`
	TitleLT  string   `json:"title_lt"`
	TitleEN  string   `json:"title_en"`
}

var civilCodeReferences = map[string]ArticleGroup{
	"contractFormation":   {"contractFormation", []string{"6.154", "6.156", "6.159"}, "Sutarties sudarymas", "Contract Formation"},
	"contractPerformance": {"contractPerformance", []string{"6.200", "6.205", "6.206"}, "Sutarties vykdymas", "Contract Performance"},
	"contractBreach":      {"contractBreach", []string{"6.245", "6.246", "6.247", "6.249"}, "Sutarties pažeidimas ir žalos atlyginimas", "Contract Breach and Damages"},
	"consumerRights":      {"consumerRights", []string{"6.228", "6.228¹", "6.228²"}, "Vartotojų teisės", "Consumer Rights"},
	"unjustEnrichment":    {"unjustEnrichment", []string{"6.237", "6.238", "6.239"}, "Nepagrįstas praturtėjimas", "Unjust Enrichment"},
	"rental":              {"rental", []string{"6.477", "6.478", "6.492", "6.493"}, "Nuomos sutartis", "Rental Agreement"},
	"deposit":             {"deposit", []string{"6.70", "6.71"}, "Užstatas", "Deposit"},
	"services":            {"services", []string{"6.716", "6.717", "6.718"}, "Paslaugų sutartis", "Service Contract"},
	"limitations":         {"limitations", []string{"1.125", "1.126", "1.127"}, "Ieškinio senatis", "Statute of Limitations"},
}

var categoryArticleGroups = map[models.CaseCategory][]string{
	models.CategoryVinted:         {"consumerRights", "contractBreach", "unjustEnrichment"},
	models.CategoryAirbnb:         {"rental", "deposit", "contractBreach"},
	models.CategoryFreelance:      {"services", "contractPerformance", "contractBreach"},
	models.CategoryLandlordTenant: {"rental", "deposit", "contractBreach"},
	models.CategoryOnlinePurchase: {"consumerRights", "contractFormation", "contractBreach"},
	models.CategoryLocalService:   {"services", "consumerRights", "contractBreach"},
	models.CategoryOther:          {"contractPerformance", "contractBreach", "unjustEnrichment"},
}

// ArticleGroupsFor returns the article groups relevant to a dispute category.
// The limitation-period group is always appended.
func ArticleGroupsFor(category models.CaseCategory) []ArticleGroup {
	keys, ok := categoryArticleGroups[category]
	if !ok {
		keys = categoryArticleGroups[models.CategoryOther]
	}
	groups := make([]ArticleGroup, 0, len(keys)+1)
	for _, k := range keys {
		groups = append(groups, civilCodeReferences[k])
	}
	return append(groups, civilCodeReferences["limitations"])
}

// LookupArticleGroup looks up a group by key.
func LookupArticleGroup(key string) (ArticleGroup, bool) {
	g, ok := civilCodeReferences[key]
	return g, ok
}

func formatArticleGroups(groups []ArticleGroup) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "- %s: CK %s str.\n", g.TitleLT, strings.Join(g.Articles, ", "))
	}
	return b.String()
}
