package layout

import (
	"strings"

	"github.com/dgallion1/bookbind/internal/wml"
)

// configureStyles ensures the body and level-one heading styles exist and
// carry the canonical manuscript formatting. Existing styles are rewritten
// in place, never duplicated.
func configureStyles(styles *wml.StyleSheet, lineSpacing float64) {
	normal := styles.EnsureParagraphStyle(bodyStyleID, "Normal")
	nr := normal.EnsureRun()
	nr.SetFont(fontFamily)
	nr.SetSize(wml.HalfPoints(bodySizePt))
	np := normal.EnsurePara()
	sp := np.EnsureSpacing()
	after := bodySpaceAfter
	line := wml.LineSpacing(lineSpacing)
	sp.After = &after
	sp.Line = &line
	sp.LineRule = "auto"
	ind := np.EnsureIndent()
	first := bodyFirstIndent
	ind.FirstLine = &first
	ind.Hanging = nil

	heading := styles.EnsureParagraphStyle(headingStyleID, "heading 1")
	hr := heading.EnsureRun()
	hr.SetFont(fontFamily)
	hr.SetSize(wml.HalfPoints(headingSizePt))
	hr.SetBold(true)
	hp := heading.EnsurePara()
	hp.Justify = "center"
	hp.PageBreakBefore = true
	hsp := hp.EnsureSpacing()
	before := headSpaceBefore
	hafter := headSpaceAfter
	hsp.Before = &before
	hsp.After = &hafter
	hind := hp.EnsureIndent()
	zero := zeroIndent
	hind.FirstLine = &zero
	hind.Hanging = nil
}

// bodyStyles are the style references treated as regular body text.
// Paragraphs without an explicit style inherit the default body style.
var bodyStyles = map[string]bool{
	"":         true,
	"Normal":   true,
	"Body":     true,
	"BodyText": true,
}

func isBodyParagraph(p *wml.Paragraph) bool {
	return bodyStyles[p.StyleID()]
}

func isHeadingParagraph(p *wml.Paragraph) bool {
	id := p.StyleID()
	return strings.EqualFold(id, headingStyleID) || strings.EqualFold(id, "heading 1")
}

// applyBodyFormatting re-asserts body spacing, indentation and type on
// every regular paragraph, overriding ad hoc source formatting.
func applyBodyFormatting(doc *wml.Document, lineSpacing float64) {
	for _, p := range doc.Body.Paragraphs() {
		if !isBodyParagraph(p) {
			continue
		}
		props := p.EnsureProps()
		sp := props.EnsureSpacing()
		after := bodySpaceAfter
		line := wml.LineSpacing(lineSpacing)
		sp.After = &after
		sp.Line = &line
		sp.LineRule = "auto"
		ind := props.EnsureIndent()
		first := bodyFirstIndent
		ind.FirstLine = &first
		ind.Hanging = nil

		for _, r := range p.Runs() {
			rp := r.EnsureProps()
			rp.SetFont(fontFamily)
			rp.SetSize(wml.HalfPoints(bodySizePt))
		}
	}
}
