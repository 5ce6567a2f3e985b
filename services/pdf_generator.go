package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/microcosm-cc/bluemonday"
)

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string  // portrait, landscape
	PageSize        string  // letter, A4
	Margin          float64 // points (72 = 1 inch)
}

// DefaultPDFOptions returns A4 portrait without printer margins. Court filing
// layouts position every line themselves.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		Margin:          0,
	}
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error)
}

// ChromeRenderer prints HTML with headless Chrome.
type ChromeRenderer struct {
	ChromePath string // headless-shell in Docker; empty uses the default lookup
}

func (r *ChromeRenderer) RenderHTML(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "letter":
		paperWidth, paperHeight = 8.5, 11.0
	default: // A4
		paperWidth, paperHeight = 8.27, 11.69
	}
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}
	margin := options.Margin / 72.0

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// A4 in points and the filing page geometry.
const (
	PDFPageWidth   = 595.28
	PDFPageHeight  = 841.89
	PDFMargin      = 50.0
	PDFLineHeight  = 14.0
	pdfFooterBand  = 44.0
	pdfBodySize    = 11.0
	pdfFooterSize  = 9.0
	pdfTitleSize   = 14.0
	pdfCourtSize   = 12.0
	pdfDefaultCode = 556
)

// PDFTextLine is one line of text placed on a page. Y is the baseline,
// measured from the bottom of the page.
type PDFTextLine struct {
	Text string
	X    float64
	Y    float64
	Size float64
	Bold bool
}

type PDFPage struct {
	Lines []PDFTextLine
}

// Helvetica advance widths (1/1000 em) for ASCII 32..126.
var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

// Lithuanian letters share the advance width of their base letter.
var lithuanianBase = map[rune]rune{
	'ą': 'a', 'č': 'c', 'ę': 'e', 'ė': 'e', 'į': 'i', 'š': 's', 'ų': 'u', 'ū': 'u', 'ž': 'z',
	'Ą': 'A', 'Č': 'C', 'Ę': 'E', 'Ė': 'E', 'Į': 'I', 'Š': 'S', 'Ų': 'U', 'Ū': 'U', 'Ž': 'Z',
}

// TextWidth measures s in points when set in Helvetica at size.
func TextWidth(s string, size float64, bold bool) float64 {
	table := &helveticaWidths
	if bold {
		table = &helveticaBoldWidths
	}
	units := 0
	for _, r := range s {
		if base, ok := lithuanianBase[r]; ok {
			r = base
		}
		if r >= 32 && r <= 126 {
			units += table[r-32]
		} else {
			units += pdfDefaultCode
		}
	}
	return float64(units) * size / 1000
}

// WrapText breaks text into lines no wider than maxWidth, greedily by word.
// A single word wider than maxWidth gets a line of its own.
func WrapText(text string, size float64, bold bool, maxWidth float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Split(text, " ") {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && TextWidth(candidate, size, bold) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

type pdfLayout struct {
	pages []PDFPage
	y     float64
}

func (l *pdfLayout) bottom() float64 {
	if len(l.pages) == 1 {
		return PDFMargin + pdfFooterBand
	}
	return PDFMargin
}

func (l *pdfLayout) newPage() {
	l.pages = append(l.pages, PDFPage{})
	l.y = PDFPageHeight - PDFMargin
}

func (l *pdfLayout) addText(text string, size float64, bold bool) {
	for _, line := range WrapText(text, size, bold, PDFPageWidth-2*PDFMargin) {
		if l.y < l.bottom() {
			l.newPage()
		}
		current := &l.pages[len(l.pages)-1]
		current.Lines = append(current.Lines, PDFTextLine{Text: line, X: PDFMargin, Y: l.y, Size: size, Bold: bold})
		l.y -= PDFLineHeight
	}
}

// LayoutCourtFiling places the title, the court name and the filing text on A4
// pages. Blank lines advance half a line. The first page carries a footer
// with the platform line and the generation date.
func LayoutCourtFiling(courtName, content string, now time.Time) []PDFPage {
	l := &pdfLayout{}
	l.newPage()

	l.addText("PRAŠYMAS IŠDUOTI TEISMO ĮSAKYMĄ", pdfTitleSize, true)
	l.y -= PDFLineHeight
	l.addText(orPlaceholder(courtName, "Apylinkės teismas"), pdfCourtSize, true)
	l.y -= PDFLineHeight * 2

	for _, raw := range strings.Split(content, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			l.addText(line, pdfBodySize, false)
		} else {
			l.y -= PDFLineHeight / 2
		}
	}

	first := &l.pages[0]
	footerY := PDFMargin + 30
	for _, text := range []string{"Dokumentas sugeneruotas Teisės Draugas platforma", "Data: " + FormatDateLT(now)} {
		first.Lines = append(first.Lines, PDFTextLine{Text: text, X: PDFMargin, Y: footerY, Size: pdfFooterSize})
		footerY -= PDFLineHeight
	}
	return l.pages
}

var pdfTextPolicy = bluemonday.StrictPolicy()

// RenderPagesHTML builds a print document that reproduces the layout exactly.
// Line text is stripped of markup and escaped.
func RenderPagesHTML(pages []PDFPage) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page { size: 595.28pt 841.89pt; margin: 0; }
body { margin: 0; font-family: Helvetica, Arial, sans-serif; color: #000; }
.page { position: relative; width: 595.28pt; height: 841.89pt; overflow: hidden; page-break-after: always; }
.page:last-child { page-break-after: auto; }
.line { position: absolute; white-space: pre; line-height: 1; }
.bold { font-weight: bold; }
</style>
</head>
<body>
`)
	for _, p := range pages {
		b.WriteString(`<div class="page">` + "\n")
		for _, line := range p.Lines {
			class := "line"
			if line.Bold {
				class += " bold"
			}
			top := PDFPageHeight - line.Y - line.Size
			fmt.Fprintf(&b, `<div class="%s" style="left:%.2fpt;top:%.2fpt;font-size:%.0fpt">%s</div>`+"\n",
				class, line.X, top, line.Size, pdfTextPolicy.Sanitize(line.Text))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// RenderPDF lays out a filing and prints it.
func (s *CourtFilingService) RenderPDF(ctx context.Context, filingID, userID string) ([]byte, error) {
	filing, err := findOwnedFiling(s.DB, filingID, userID)
	if err != nil {
		return nil, err
	}
	if s.Renderer == nil {
		return nil, fmt.Errorf("PDF rendering is not configured")
	}
	pages := LayoutCourtFiling(filing.CourtName, filing.Content, s.Now())
	return s.Renderer.RenderHTML(ctx, RenderPagesHTML(pages), DefaultPDFOptions())
}
