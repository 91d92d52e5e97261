package layout

import "github.com/dgallion1/bookbind/internal/wml"

// formatChapters gives every level-one heading paragraph a forced page
// break, centered alignment, and the canonical heading type on every run,
// regardless of the source document's ad hoc formatting.
func formatChapters(doc *wml.Document) {
	for _, p := range doc.Body.Paragraphs() {
		if !isHeadingParagraph(p) {
			continue
		}
		props := p.EnsureProps()
		props.PageBreakBefore = true
		props.Justify = "center"

		for _, r := range p.Runs() {
			rp := r.EnsureProps()
			rp.SetFont(fontFamily)
			rp.SetSize(wml.HalfPoints(headingSizePt))
			rp.SetBold(true)
		}
	}
}
