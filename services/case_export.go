package services

import (
	"bytes"
	"fmt"
	"teises_draugas_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	sheetCases    = "Bylos"
	sheetTimeline = "Istorija"
)

var exportCaseHeaders = []string{
	"Bylos numeris", "Pavadinimas", "Tipas", "Kategorija", "Suma (EUR)", "Būsena",
	"Etapas", "Oponentas", "Laimėjimo tikimybė", "Atsakymo terminas", "Teismo bylos nr.", "Sukurta",
}

var exportTimelineHeaders = []string{"Bylos numeris", "Data", "Įvykis", "Pavadinimas", "Aprašymas"}

// ExportCasesXLSX writes every case of the user and its timeline into a
// workbook with one sheet for each.
func ExportCasesXLSX(db *gorm.DB, userID string) (*bytes.Buffer, error) {
	var cases []models.Case
	err := db.Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("event_date ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cases for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetCases)
	if _, err := f.NewSheet(sheetTimeline); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	writeHeader(f, sheetCases, exportCaseHeaders, headerStyle)
	writeHeader(f, sheetTimeline, exportTimelineHeaders, headerStyle)

	timelineRow := 2
	for i, c := range cases {
		row := i + 2
		amount, _ := c.ClaimAmount.Float64()
		values := []interface{}{
			c.CaseNumber, c.Title, string(c.CaseType), string(c.Category), amount, string(c.Status),
			string(c.CurrentStep), c.OpponentName, "", "", c.CourtCaseNumber, c.CreatedAt.Format("2006-01-02"),
		}
		if c.WinProbability != nil {
			values[8] = fmt.Sprintf("%.0f%%", *c.WinProbability*100)
		}
		if c.ResponseDeadline != nil {
			values[9] = c.ResponseDeadline.Format("2006-01-02")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetCases, cell, v)
		}
		amountCell, _ := excelize.CoordinatesToCellName(5, row)
		f.SetCellStyle(sheetCases, amountCell, amountCell, amountStyle)

		for _, e := range c.Timeline {
			eventValues := []interface{}{c.CaseNumber, e.EventDate.Format("2006-01-02 15:04"), string(e.EventType), e.Title, e.Description}
			for col, v := range eventValues {
				cell, _ := excelize.CoordinatesToCellName(col+1, timelineRow)
				f.SetCellValue(sheetTimeline, cell, v)
			}
			timelineRow++
		}
	}

	f.SetColWidth(sheetCases, "A", "L", 20)
	f.SetColWidth(sheetCases, "B", "B", 40)
	f.SetColWidth(sheetTimeline, "A", "D", 22)
	f.SetColWidth(sheetTimeline, "E", "E", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, style)
}
