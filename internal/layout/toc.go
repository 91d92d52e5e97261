package layout

import "github.com/dgallion1/bookbind/internal/wml"

// tocInstruction requests a hyperlinked outline of heading levels 1-3.
// The field is resolved by the host application on open; the engine only
// emits the definition.
const tocInstruction = ` TOC \o "1-3" \h \z \u `

const tocFallbackText = "Right-click and select 'Update Field' to generate TOC"

// tocParagraphCap bounds the body walk that places the TOC after the
// synthesized front matter. If front matter plus original content hold
// fewer paragraphs before the first chapter, the TOC can land after some
// body content — a known approximation, preserved as-is.
const tocParagraphCap = 30

// insertTOC splices a table-of-contents block (heading, spacer, dynamic
// field, page break) after the front matter.
func insertTOC(doc *wml.Document) {
	blocks := []wml.Block{
		textParagraph("Table of Contents", func(rp *wml.RunProps) {
			rp.SetFont(fontFamily)
			rp.SetSize(wml.HalfPoints(headingSizePt))
			rp.SetBold(true)
		}),
		spacerParagraph(),
		tocFieldParagraph(),
		pageBreakParagraph(),
	}
	doc.Body.InsertAt(tocPosition(doc.Body), blocks...)
}

// tocPosition counts paragraphs up to the cap and clamps the insertion
// point before the trailing section properties.
func tocPosition(body *wml.Body) int {
	count := 0
	for _, blk := range body.Blocks {
		if _, ok := blk.(*wml.Paragraph); ok {
			count++
			if count >= tocParagraphCap {
				break
			}
		}
	}
	if last := len(body.Blocks) - 1; count > last {
		count = last
	}
	if count < 0 {
		count = 0
	}
	return count
}

// tocFieldParagraph builds the four-part field construct: begin marker,
// instruction, separator, literal fallback, end marker — in that order
// within a single paragraph, as the host parser requires.
func tocFieldParagraph() *wml.Paragraph {
	p := &wml.Paragraph{}

	begin := p.AddRun(&wml.Run{})
	begin.Content = append(begin.Content, &wml.FieldChar{Type: "begin"})

	instr := p.AddRun(&wml.Run{})
	instr.Content = append(instr.Content, &wml.InstrText{Value: tocInstruction})

	sep := p.AddRun(&wml.Run{})
	sep.Content = append(sep.Content, &wml.FieldChar{Type: "separate"})

	fallback := p.AddRun(&wml.Run{})
	fp := fallback.EnsureProps()
	fp.SetItalic(true)
	fp.SetSize(wml.HalfPoints(tocFallbackPt))
	fallback.Content = append(fallback.Content, &wml.Text{Value: tocFallbackText})

	end := p.AddRun(&wml.Run{})
	end.Content = append(end.Content, &wml.FieldChar{Type: "end"})

	return p
}
