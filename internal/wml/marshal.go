package wml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Marshal serializes the document tree back into main-document-part bytes.
// Structured nodes are re-emitted; raw captures are written verbatim.
func (d *Document) Marshal() []byte {
	var b strings.Builder
	b.WriteString(d.Preamble)
	b.WriteString(d.BodyStart)
	for _, blk := range d.Body.Blocks {
		writeBlock(&b, blk)
	}
	b.WriteString("</w:body>")
	b.WriteString(d.Trailer)
	return []byte(b.String())
}

func writeBlock(b *strings.Builder, blk Block) {
	switch t := blk.(type) {
	case *Paragraph:
		writeParagraph(b, t)
	case *SectionProps:
		writeSectionProps(b, t)
	case RawBlock:
		b.WriteString(string(t))
	}
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString("<w:p>")
	if p.Props != nil && !p.Props.empty() {
		writeParagraphProps(b, p.Props)
	}
	for _, c := range p.Children {
		switch t := c.(type) {
		case *Run:
			writeRun(b, t)
		case RawParaChild:
			b.WriteString(string(t))
		}
	}
	b.WriteString("</w:p>")
}

func writeParagraphProps(b *strings.Builder, pp *ParagraphProps) {
	b.WriteString("<w:pPr>")
	if pp.Style != "" {
		b.WriteString(`<w:pStyle w:val="`)
		writeEscaped(b, pp.Style)
		b.WriteString(`"/>`)
	}
	if pp.PageBreakBefore {
		b.WriteString("<w:pageBreakBefore/>")
	}
	for _, raw := range pp.Extra {
		b.WriteString(raw)
	}
	if pp.Spacing != nil {
		b.WriteString("<w:spacing")
		writeIntAttr(b, "w:before", pp.Spacing.Before)
		writeIntAttr(b, "w:after", pp.Spacing.After)
		writeIntAttr(b, "w:line", pp.Spacing.Line)
		if pp.Spacing.LineRule != "" {
			b.WriteString(` w:lineRule="`)
			writeEscaped(b, pp.Spacing.LineRule)
			b.WriteString(`"`)
		}
		b.WriteString("/>")
	}
	if pp.Indent != nil {
		b.WriteString("<w:ind")
		writeIntAttr(b, "w:left", pp.Indent.Left)
		writeIntAttr(b, "w:right", pp.Indent.Right)
		writeIntAttr(b, "w:firstLine", pp.Indent.FirstLine)
		writeIntAttr(b, "w:hanging", pp.Indent.Hanging)
		b.WriteString("/>")
	}
	if pp.Justify != "" {
		b.WriteString(`<w:jc w:val="`)
		writeEscaped(b, pp.Justify)
		b.WriteString(`"/>`)
	}
	b.WriteString(pp.MarkProps)
	if pp.SectPr != nil {
		writeSectionProps(b, pp.SectPr)
	}
	b.WriteString("</w:pPr>")
}

func writeRun(b *strings.Builder, r *Run) {
	b.WriteString("<w:r>")
	if r.Props != nil && !r.Props.empty() {
		writeRunProps(b, r.Props)
	}
	for _, c := range r.Content {
		switch t := c.(type) {
		case *Text:
			if t.Preserve || t.Value != strings.TrimSpace(t.Value) {
				b.WriteString(`<w:t xml:space="preserve">`)
			} else {
				b.WriteString("<w:t>")
			}
			writeEscaped(b, t.Value)
			b.WriteString("</w:t>")
		case *Break:
			if t.Type != "" {
				b.WriteString(`<w:br w:type="`)
				writeEscaped(b, t.Type)
				b.WriteString(`"/>`)
			} else {
				b.WriteString("<w:br/>")
			}
		case *Tab:
			b.WriteString("<w:tab/>")
		case *FieldChar:
			b.WriteString(`<w:fldChar w:fldCharType="`)
			writeEscaped(b, t.Type)
			b.WriteString(`"/>`)
		case *InstrText:
			b.WriteString(`<w:instrText xml:space="preserve">`)
			writeEscaped(b, t.Value)
			b.WriteString("</w:instrText>")
		case RawRunChild:
			b.WriteString(string(t))
		}
	}
	b.WriteString("</w:r>")
}

func writeRunProps(b *strings.Builder, rp *RunProps) {
	b.WriteString("<w:rPr>")
	if rp.Font != "" {
		b.WriteString(`<w:rFonts w:ascii="`)
		writeEscaped(b, rp.Font)
		b.WriteString(`" w:hAnsi="`)
		writeEscaped(b, rp.Font)
		b.WriteString(`"/>`)
	} else {
		b.WriteString(rp.RawFonts)
	}
	if rp.Bold != nil {
		if *rp.Bold {
			b.WriteString("<w:b/>")
		} else {
			b.WriteString(`<w:b w:val="0"/>`)
		}
	}
	if rp.Italic != nil {
		if *rp.Italic {
			b.WriteString("<w:i/>")
		} else {
			b.WriteString(`<w:i w:val="0"/>`)
		}
	}
	for _, raw := range rp.Extra {
		b.WriteString(raw)
	}
	writeIntValElem(b, "w:sz", rp.Size)
	writeIntValElem(b, "w:szCs", rp.SizeCs)
	b.WriteString("</w:rPr>")
}

func writeSectionProps(b *strings.Builder, sp *SectionProps) {
	b.WriteString("<w:sectPr>")
	for _, c := range sp.Children {
		switch t := c.(type) {
		case *PageSize:
			b.WriteString(`<w:pgSz w:w="`)
			b.WriteString(strconv.Itoa(t.W))
			b.WriteString(`" w:h="`)
			b.WriteString(strconv.Itoa(t.H))
			b.WriteString(`"`)
			if t.Orient != "" {
				b.WriteString(` w:orient="`)
				writeEscaped(b, t.Orient)
				b.WriteString(`"`)
			}
			b.WriteString("/>")
		case *PageMargins:
			b.WriteString("<w:pgMar")
			writeRequiredIntAttr(b, "w:top", t.Top)
			writeRequiredIntAttr(b, "w:right", t.Right)
			writeRequiredIntAttr(b, "w:bottom", t.Bottom)
			writeRequiredIntAttr(b, "w:left", t.Left)
			writeRequiredIntAttr(b, "w:header", t.Header)
			writeRequiredIntAttr(b, "w:footer", t.Footer)
			writeRequiredIntAttr(b, "w:gutter", t.Gutter)
			b.WriteString("/>")
		case *MirrorMargins:
			b.WriteString("<w:mirrorMargins/>")
		case RawSectChild:
			b.WriteString(string(t))
		}
	}
	b.WriteString("</w:sectPr>")
}

func writeIntAttr(b *strings.Builder, name string, v *int) {
	if v == nil {
		return
	}
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(strconv.Itoa(*v))
	b.WriteString(`"`)
}

func writeRequiredIntAttr(b *strings.Builder, name string, v int) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(strconv.Itoa(v))
	b.WriteString(`"`)
}

func writeIntValElem(b *strings.Builder, name string, v *int) {
	if v == nil {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(` w:val="`)
	b.WriteString(strconv.Itoa(*v))
	b.WriteString(`"/>`)
}

func writeEscaped(b *strings.Builder, s string) {
	xml.EscapeText(b, []byte(s))
}
