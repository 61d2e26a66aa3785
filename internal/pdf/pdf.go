// Package pdf renders plain text lines onto fixed-geometry A4 pages.
package pdf

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points. The header is drawn bold on page one only;
// every following page starts at the top margin.
const (
	topMargin    = 40.0
	leftMargin   = 50.0
	bottomMargin = 50.0
	leading      = 20.0
	headerGap    = 30.0

	headerFontSize = 16.0
	bodyFontSize   = 14.0
)

// Render lays lines out under header and returns the finished
// document. Lines are never wrapped: anything wider than the page
// runs off the right edge.
func Render(lines []string, header string) ([]byte, error) {
	doc := build(lines, header)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func build(lines []string, header string) *gofpdf.Fpdf {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := doc.GetPageSize()
	limit := pageHeight - bottomMargin

	doc.AddPage()
	doc.SetFont("Helvetica", "B", headerFontSize)
	y := topMargin
	doc.Text(leftMargin, y, tr(header))
	y += headerGap

	doc.SetFont("Helvetica", "", bodyFontSize)
	for _, line := range lines {
		if y > limit {
			doc.AddPage()
			doc.SetFont("Helvetica", "", bodyFontSize)
			y = topMargin
		}
		doc.Text(leftMargin, y, tr(line))
		y += leading
	}

	return doc
}
