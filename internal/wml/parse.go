package wml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoBody indicates the main document part has no w:body element.
var ErrNoBody = errors.New("document has no body element")

// Parse reconstructs the document tree from the main document part bytes.
// Recognized elements (paragraphs, runs, section properties) become
// structured nodes; everything else is captured verbatim by byte offset.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{Body: &Body{}}

	// Locate the body, preserving everything before it.
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", ErrNoBody)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Space == Namespace && se.Name.Local == "body" {
			doc.Preamble = string(data[:off])
			doc.BodyStart = string(data[off:dec.InputOffset()])
			break
		}
		if !(se.Name.Space == Namespace && se.Name.Local == "document") {
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parse document: %w", err)
			}
		}
	}

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "p"):
				p, err := parseParagraph(dec, data)
				if err != nil {
					return nil, err
				}
				doc.Body.Blocks = append(doc.Body.Blocks, p)
			case isW(t.Name, "sectPr"):
				sp, err := parseSectionProps(dec, data)
				if err != nil {
					return nil, err
				}
				doc.Body.Blocks = append(doc.Body.Blocks, sp)
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parse body: %w", err)
				}
				doc.Body.Blocks = append(doc.Body.Blocks, RawBlock(data[off:dec.InputOffset()]))
			}
		case xml.Comment:
			doc.Body.Blocks = append(doc.Body.Blocks, RawBlock(data[off:dec.InputOffset()]))
		case xml.EndElement:
			doc.Trailer = string(data[dec.InputOffset():])
			return doc, nil
		}
	}
}

func isW(n xml.Name, local string) bool {
	return n.Space == Namespace && n.Local == local
}

func attrVal(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func attrIntPtr(se xml.StartElement, local string) *int {
	v := attrVal(se, local)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func attrInt(se xml.StartElement, local string, fallback int) int {
	if p := attrIntPtr(se, local); p != nil {
		return *p
	}
	return fallback
}

// onOff interprets an OOXML boolean property value; absence means on.
func onOff(se xml.StartElement) bool {
	switch attrVal(se, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}

func parseParagraph(dec *xml.Decoder, data []byte) (*Paragraph, error) {
	p := &Paragraph{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "pPr"):
				props, err := parseParagraphProps(dec, data)
				if err != nil {
					return nil, err
				}
				p.Props = props
			case isW(t.Name, "r"):
				r, err := parseRun(dec, data)
				if err != nil {
					return nil, err
				}
				p.Children = append(p.Children, r)
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parse paragraph: %w", err)
				}
				p.Children = append(p.Children, RawParaChild(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return p, nil
		}
	}
}

func parseParagraphProps(dec *xml.Decoder, data []byte) (*ParagraphProps, error) {
	pp := &ParagraphProps{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse paragraph properties: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "pStyle"):
				pp.Style = attrVal(t, "val")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "pageBreakBefore"):
				pp.PageBreakBefore = onOff(t)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "spacing"):
				pp.Spacing = &Spacing{
					Before:   attrIntPtr(t, "before"),
					After:    attrIntPtr(t, "after"),
					Line:     attrIntPtr(t, "line"),
					LineRule: attrVal(t, "lineRule"),
				}
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "ind"):
				ind := &Indent{
					FirstLine: attrIntPtr(t, "firstLine"),
					Hanging:   attrIntPtr(t, "hanging"),
					Left:      attrIntPtr(t, "left"),
					Right:     attrIntPtr(t, "right"),
				}
				if ind.Left == nil {
					ind.Left = attrIntPtr(t, "start")
				}
				if ind.Right == nil {
					ind.Right = attrIntPtr(t, "end")
				}
				pp.Indent = ind
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "jc"):
				pp.Justify = attrVal(t, "val")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "rPr"):
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				pp.MarkProps = string(data[off:dec.InputOffset()])
			case isW(t.Name, "sectPr"):
				sp, err := parseSectionProps(dec, data)
				if err != nil {
					return nil, err
				}
				pp.SectPr = sp
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				pp.Extra = append(pp.Extra, string(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return pp, nil
		}
	}
}

func parseRun(dec *xml.Decoder, data []byte) (*Run, error) {
	r := &Run{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse run: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "rPr"):
				props, err := parseRunProps(dec, data)
				if err != nil {
					return nil, err
				}
				r.Props = props
			case isW(t.Name, "t"):
				text, err := parseText(dec, t)
				if err != nil {
					return nil, err
				}
				r.Content = append(r.Content, text)
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parse run: %w", err)
				}
				r.Content = append(r.Content, RawRunChild(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return r, nil
		}
	}
}

func parseText(dec *xml.Decoder, start xml.StartElement) (*Text, error) {
	text := &Text{}
	for _, a := range start.Attr {
		if a.Name.Local == "space" && a.Value == "preserve" {
			text.Preserve = true
		}
	}
	var buf bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse text: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			text.Value = buf.String()
			return text, nil
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		}
	}
}

func parseRunProps(dec *xml.Decoder, data []byte) (*RunProps, error) {
	rp := &RunProps{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse run properties: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "rFonts"):
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				rp.RawFonts = string(data[off:dec.InputOffset()])
			case isW(t.Name, "b"):
				v := onOff(t)
				rp.Bold = &v
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "i"):
				v := onOff(t)
				rp.Italic = &v
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "sz"):
				rp.Size = attrIntPtr(t, "val")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "szCs"):
				rp.SizeCs = attrIntPtr(t, "val")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				rp.Extra = append(rp.Extra, string(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return rp, nil
		}
	}
}

func parseSectionProps(dec *xml.Decoder, data []byte) (*SectionProps, error) {
	sp := &SectionProps{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse section properties: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "pgSz"):
				sp.Children = append(sp.Children, &PageSize{
					W:      attrInt(t, "w", 0),
					H:      attrInt(t, "h", 0),
					Orient: attrVal(t, "orient"),
				})
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "pgMar"):
				sp.Children = append(sp.Children, &PageMargins{
					Top:    attrInt(t, "top", 0),
					Right:  attrInt(t, "right", 0),
					Bottom: attrInt(t, "bottom", 0),
					Left:   attrInt(t, "left", 0),
					Header: attrInt(t, "header", 720),
					Footer: attrInt(t, "footer", 720),
					Gutter: attrInt(t, "gutter", 0),
				})
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case isW(t.Name, "mirrorMargins"):
				if onOff(t) {
					sp.Children = append(sp.Children, &MirrorMargins{})
				}
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				sp.Children = append(sp.Children, RawSectChild(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return sp, nil
		}
	}
}
