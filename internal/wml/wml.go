// Package wml models the ordered block tree of a WordprocessingML main
// document part. The body is an index-addressed sequence of blocks, so
// insertion-at-position is a well-defined operation. Markup the model does
// not understand (tables, bookmarks, drawings) is carried through verbatim
// as raw byte slices captured during parsing, which keeps the round trip
// lossless for everything the formatter does not touch.
package wml

// Namespace is the WordprocessingML main namespace.
const Namespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Document is the parsed main document part. Preamble, BodyStart and
// Trailer hold the source bytes around the body so the XML declaration,
// root attributes and namespace declarations survive unchanged.
type Document struct {
	Preamble  string
	BodyStart string
	Trailer   string
	Body      *Body
}

// Sections returns every section-properties element in document order:
// paragraph-level section breaks first, then the body-level sectPr.
func (d *Document) Sections() []*SectionProps {
	var out []*SectionProps
	for _, blk := range d.Body.Blocks {
		switch t := blk.(type) {
		case *Paragraph:
			if t.Props != nil && t.Props.SectPr != nil {
				out = append(out, t.Props.SectPr)
			}
		case *SectionProps:
			out = append(out, t)
		}
	}
	return out
}

// Body is the ordered sequence of block-level elements.
type Body struct {
	Blocks []Block
}

// InsertAt splices blocks into the body at index i, clamping i to the
// valid range. Existing blocks keep their relative order.
func (b *Body) InsertAt(i int, blocks ...Block) {
	if i < 0 {
		i = 0
	}
	if i > len(b.Blocks) {
		i = len(b.Blocks)
	}
	out := make([]Block, 0, len(b.Blocks)+len(blocks))
	out = append(out, b.Blocks[:i]...)
	out = append(out, blocks...)
	out = append(out, b.Blocks[i:]...)
	b.Blocks = out
}

// Paragraphs returns the paragraph blocks in body order.
func (b *Body) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, blk := range b.Blocks {
		if p, ok := blk.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Block is a body-level element.
type Block interface{ block() }

// RawBlock is an unrecognized body element preserved verbatim.
type RawBlock string

func (RawBlock) block() {}

// Paragraph is an ordered sequence of runs plus paragraph formatting.
type Paragraph struct {
	Props    *ParagraphProps
	Children []ParaChild
}

func (*Paragraph) block() {}

// EnsureProps returns the paragraph properties, creating them if absent.
func (p *Paragraph) EnsureProps() *ParagraphProps {
	if p.Props == nil {
		p.Props = &ParagraphProps{}
	}
	return p.Props
}

// StyleID returns the referenced style id, or "" when the paragraph
// carries no explicit style.
func (p *Paragraph) StyleID() string {
	if p.Props == nil {
		return ""
	}
	return p.Props.Style
}

// Runs returns the run children in order.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.Children {
		if r, ok := c.(*Run); ok {
			out = append(out, r)
		}
	}
	return out
}

// AddRun appends a run to the paragraph.
func (p *Paragraph) AddRun(r *Run) *Run {
	p.Children = append(p.Children, r)
	return r
}

// ParaChild is a paragraph-level child element.
type ParaChild interface{ paraChild() }

// RawParaChild is an unrecognized paragraph child preserved verbatim.
type RawParaChild string

func (RawParaChild) paraChild() {}

// ParagraphProps is paragraph-level formatting. Unrecognized properties
// are kept in Extra; the raw run properties of the paragraph mark are
// kept in MarkProps.
type ParagraphProps struct {
	Style           string
	PageBreakBefore bool
	Spacing         *Spacing
	Indent          *Indent
	Justify         string
	Extra           []string
	MarkProps       string
	SectPr          *SectionProps
}

func (pp *ParagraphProps) empty() bool {
	return pp.Style == "" && !pp.PageBreakBefore && pp.Spacing == nil &&
		pp.Indent == nil && pp.Justify == "" && len(pp.Extra) == 0 &&
		pp.MarkProps == "" && pp.SectPr == nil
}

// EnsureSpacing returns the spacing properties, creating them if absent.
func (pp *ParagraphProps) EnsureSpacing() *Spacing {
	if pp.Spacing == nil {
		pp.Spacing = &Spacing{}
	}
	return pp.Spacing
}

// EnsureIndent returns the indentation properties, creating them if absent.
func (pp *ParagraphProps) EnsureIndent() *Indent {
	if pp.Indent == nil {
		pp.Indent = &Indent{}
	}
	return pp.Indent
}

// Spacing is inter-paragraph and line spacing in twentieths of a point.
// Line uses the w:line encoding (240 = single spacing with lineRule auto).
type Spacing struct {
	Before   *int
	After    *int
	Line     *int
	LineRule string
}

// Indent is paragraph indentation in twips.
type Indent struct {
	FirstLine *int
	Hanging   *int
	Left      *int
	Right     *int
}

// Run is a span of character-formatted content.
type Run struct {
	Props   *RunProps
	Content []RunChild
}

func (*Run) paraChild() {}

// EnsureProps returns the run properties, creating them if absent.
func (r *Run) EnsureProps() *RunProps {
	if r.Props == nil {
		r.Props = &RunProps{}
	}
	return r.Props
}

// Texts returns the literal text children of the run in order.
func (r *Run) Texts() []*Text {
	var out []*Text
	for _, c := range r.Content {
		if t, ok := c.(*Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// RunProps is character formatting. RawFonts carries the source rFonts
// element until SetFont replaces it.
type RunProps struct {
	Font     string
	RawFonts string
	Size     *int // half-points
	SizeCs   *int
	Bold     *bool
	Italic   *bool
	Extra    []string
}

func (rp *RunProps) empty() bool {
	return rp.Font == "" && rp.RawFonts == "" && rp.Size == nil &&
		rp.SizeCs == nil && rp.Bold == nil && rp.Italic == nil && len(rp.Extra) == 0
}

// SetFont sets the ascii/hAnsi font family, discarding any source rFonts.
func (rp *RunProps) SetFont(name string) {
	rp.Font = name
	rp.RawFonts = ""
}

// SetSize sets the font size in half-points (complex-script size included).
func (rp *RunProps) SetSize(halfPoints int) {
	sz := halfPoints
	szCs := halfPoints
	rp.Size = &sz
	rp.SizeCs = &szCs
}

// SetBold sets or clears the bold flag.
func (rp *RunProps) SetBold(v bool) {
	b := v
	rp.Bold = &b
}

// SetItalic sets or clears the italic flag.
func (rp *RunProps) SetItalic(v bool) {
	b := v
	rp.Italic = &b
}

// RunChild is a tagged variant of run content. Serialization
// pattern-matches exhaustively over these types.
type RunChild interface{ runChild() }

// Text is literal run text.
type Text struct {
	Value    string
	Preserve bool
}

func (*Text) runChild() {}

// Break is a w:br; Type "page" forces a page break.
type Break struct {
	Type string
}

func (*Break) runChild() {}

// Tab is a w:tab.
type Tab struct{}

func (*Tab) runChild() {}

// FieldChar is a field marker: begin, separate or end.
type FieldChar struct {
	Type string
}

func (*FieldChar) runChild() {}

// InstrText is field instruction text, always space-preserved.
type InstrText struct {
	Value string
}

func (*InstrText) runChild() {}

// RawRunChild is an unrecognized run child preserved verbatim.
type RawRunChild string

func (RawRunChild) runChild() {}

// SectionProps owns page geometry for one section. Children keep the
// source order of sectPr elements; the mirrored-margins marker is
// appended last, which hosts tolerate as purely additive markup.
type SectionProps struct {
	Children []SectChild
}

func (*SectionProps) block() {}

// SectChild is a sectPr child element.
type SectChild interface{ sectChild() }

// PageSize is w:pgSz in twips.
type PageSize struct {
	W      int
	H      int
	Orient string
}

func (*PageSize) sectChild() {}

// PageMargins is w:pgMar in twips.
type PageMargins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
	Header int
	Footer int
	Gutter int
}

func (*PageMargins) sectChild() {}

// MirrorMargins is the facing-pages margin marker.
type MirrorMargins struct{}

func (*MirrorMargins) sectChild() {}

// RawSectChild is an unrecognized sectPr child preserved verbatim.
type RawSectChild string

func (RawSectChild) sectChild() {}

// EnsurePageSize returns the page size, inserting one at the front of the
// section properties if absent.
func (sp *SectionProps) EnsurePageSize() *PageSize {
	for _, c := range sp.Children {
		if ps, ok := c.(*PageSize); ok {
			return ps
		}
	}
	ps := &PageSize{}
	sp.Children = append([]SectChild{ps}, sp.Children...)
	return ps
}

// EnsureMargins returns the page margins, inserting them after the page
// size if absent.
func (sp *SectionProps) EnsureMargins() *PageMargins {
	for _, c := range sp.Children {
		if pm, ok := c.(*PageMargins); ok {
			return pm
		}
	}
	pm := &PageMargins{Header: 720, Footer: 720}
	for i, c := range sp.Children {
		if _, ok := c.(*PageSize); ok {
			rest := append([]SectChild{pm}, sp.Children[i+1:]...)
			sp.Children = append(sp.Children[:i+1:i+1], rest...)
			return pm
		}
	}
	sp.Children = append([]SectChild{pm}, sp.Children...)
	return pm
}

// HasMirrorMargins reports whether the marker is present.
func (sp *SectionProps) HasMirrorMargins() bool {
	for _, c := range sp.Children {
		if _, ok := c.(*MirrorMargins); ok {
			return true
		}
	}
	return false
}

// SetMirrorMargins appends the mirrored-margins marker once.
func (sp *SectionProps) SetMirrorMargins() {
	if !sp.HasMirrorMargins() {
		sp.Children = append(sp.Children, &MirrorMargins{})
	}
}
