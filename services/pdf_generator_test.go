package services

import (
	"context"
	"os"
	"strings"
	"teises_draugas_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.Equal(t, "portrait", opts.PageOrientation)
	assert.Equal(t, "A4", opts.PageSize)
	assert.Zero(t, opts.Margin)
}

func TestTextWidth(t *testing.T) {
	assert.InDelta(t, 6.116, TextWidth("a", 11, false), 0.001)
	assert.InDelta(t, 6.721, TextWidth("b", 11, true), 0.001)
	// Lithuanian letters measure like their base letter
	assert.Equal(t, TextWidth("sausis", 11, false), TextWidth("šaušis", 11, false))
	assert.Equal(t, TextWidth("ZUE", 12, true), TextWidth("ŽŲĘ", 12, true))
}

func TestWrapText(t *testing.T) {
	text := strings.Repeat("žodis ", 60)
	lines := WrapText(strings.TrimSpace(text), 11, false, 200)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, TextWidth(line, 11, false), 200.0)
	}
	assert.Equal(t, strings.TrimSpace(text), strings.Join(lines, " "))

	long := strings.Repeat("x", 200)
	assert.Equal(t, []string{long}, WrapText(long, 11, false, 100))
	assert.Equal(t, []string{"short"}, WrapText("short", 11, false, 495))
}

func TestLayoutCourtFiling(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	pages := LayoutCourtFiling("Vilniaus miesto apylinkės teismas", "Pirma eilutė\n\nAntra eilutė", now)
	require.Len(t, pages, 1)

	lines := pages[0].Lines
	require.Len(t, lines, 6)

	assert.Equal(t, "PRAŠYMAS IŠDUOTI TEISMO ĮSAKYMĄ", lines[0].Text)
	assert.True(t, lines[0].Bold)
	assert.Equal(t, 14.0, lines[0].Size)
	assert.InDelta(t, PDFPageHeight-PDFMargin, lines[0].Y, 0.001)

	assert.Equal(t, "Vilniaus miesto apylinkės teismas", lines[1].Text)
	assert.InDelta(t, lines[0].Y-2*PDFLineHeight, lines[1].Y, 0.001)

	assert.Equal(t, "Pirma eilutė", lines[2].Text)
	assert.InDelta(t, lines[1].Y-3*PDFLineHeight, lines[2].Y, 0.001)
	// a blank line advances half a line
	assert.InDelta(t, lines[2].Y-1.5*PDFLineHeight, lines[3].Y, 0.001)

	assert.Equal(t, "Dokumentas sugeneruotas Teisės Draugas platforma", lines[4].Text)
	assert.InDelta(t, PDFMargin+30, lines[4].Y, 0.001)
	assert.Equal(t, "Data: 2024 m. birželio 10 d.", lines[5].Text)
	assert.Equal(t, 9.0, lines[5].Size)
}

func TestLayoutCourtFiling_Paginates(t *testing.T) {
	content := strings.Repeat("Eilutė su tekstu\n", 150)
	pages := LayoutCourtFiling("Teismas", content, time.Now())
	require.Greater(t, len(pages), 2)

	for i, p := range pages {
		for _, line := range p.Lines {
			assert.GreaterOrEqual(t, line.Y, PDFMargin-PDFLineHeight, "page %d", i)
			assert.LessOrEqual(t, line.Y, PDFPageHeight-PDFMargin)
		}
	}

	// the footer is only on the first page
	footer := "Dokumentas sugeneruotas Teisės Draugas platforma"
	count := 0
	for _, p := range pages {
		for _, line := range p.Lines {
			if line.Text == footer {
				count++
			}
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, footer, pages[0].Lines[len(pages[0].Lines)-2].Text)
}

func TestRenderPagesHTML(t *testing.T) {
	pages := []PDFPage{{Lines: []PDFTextLine{
		{Text: "Title", X: 50, Y: 791.89, Size: 14, Bold: true},
		{Text: `<script>alert(1)</script>A & B`, X: 50, Y: 700, Size: 11},
	}}, {Lines: []PDFTextLine{{Text: "Second", X: 50, Y: 791.89, Size: 11}}}}

	out := RenderPagesHTML(pages)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Equal(t, 2, strings.Count(out, `<div class="page">`))
	assert.Contains(t, out, `<div class="line bold" style="left:50.00pt;top:36.00pt;font-size:14pt">Title</div>`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "A &amp; B")
}

type fakeRenderer struct {
	html string
}

func (r *fakeRenderer) RenderHTML(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	r.html = htmlContent
	return []byte("%PDF-1.7 fake"), nil
}

func TestCourtFilingService_RenderPDF(t *testing.T) {
	svc, user, c := newTestCourtFilingService(t)
	renderer := &fakeRenderer{}
	svc.Renderer = renderer

	filing, err := svc.Generate(c.ID, user.ID, GenerateFilingInput{})
	require.NoError(t, err)

	pdf, err := svc.RenderPDF(context.Background(), filing.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(pdf))
	assert.Contains(t, renderer.html, "Vilniaus miesto apylinkės teismas")
	assert.Contains(t, renderer.html, "KREDITORIUS (Pareiškėjas):")

	_, err = svc.RenderPDF(context.Background(), filing.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChromeRendererSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	renderer := &ChromeRenderer{ChromePath: chromePath}
	pages := LayoutCourtFiling(CourtVilnius.Name, BuildPaymentOrderContent(&models.Case{Description: "Bandymas"}, &models.User{Email: "a@b.lt"}, CourtVilnius, CalculateCourtFee(models.MaxClaimAmount), time.Now()), time.Now())
	pdf, err := renderer.RenderHTML(context.Background(), RenderPagesHTML(pages), DefaultPDFOptions())
	if err != nil {
		if os.IsNotExist(err) {
			t.Skipf("Skipping: Chrome not found at %s", chromePath)
		}
		t.Errorf("RenderHTML failed: %v", err)
		return
	}
	assert.Contains(t, string(pdf[:5]), "%PDF-")
}
