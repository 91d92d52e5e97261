package wml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// ErrNoStylesRoot indicates the styles part has no w:styles root element.
var ErrNoStylesRoot = errors.New("styles part has no styles element")

// StyleSheet models the styles part. Document defaults, latent styles and
// unrecognized style content are preserved verbatim; named styles are
// structured so their formatting can be rewritten.
type StyleSheet struct {
	RootStart string
	Trailer   string
	Children  []StylesChild
}

// StylesChild is a top-level child of the styles root.
type StylesChild interface{ stylesChild() }

// RawStylesChild is an unrecognized styles child preserved verbatim.
type RawStylesChild string

func (RawStylesChild) stylesChild() {}

// Style is a named, typed bundle of default formatting properties.
// Styles are created once and referenced, never duplicated.
type Style struct {
	Type    string
	ID      string
	Default string
	Extra   []string
	Para    *ParagraphProps
	Run     *RunProps
}

func (*Style) stylesChild() {}

// EnsurePara returns the style's paragraph properties, creating them
// if absent.
func (s *Style) EnsurePara() *ParagraphProps {
	if s.Para == nil {
		s.Para = &ParagraphProps{}
	}
	return s.Para
}

// EnsureRun returns the style's run properties, creating them if absent.
func (s *Style) EnsureRun() *RunProps {
	if s.Run == nil {
		s.Run = &RunProps{}
	}
	return s.Run
}

// NewStyleSheet returns an empty styles part for packages that lack one.
func NewStyleSheet() *StyleSheet {
	return &StyleSheet{
		RootStart: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			"\n" + `<w:styles xmlns:w="` + Namespace + `">`,
	}
}

// ParseStyles reconstructs the style sheet from styles part bytes.
func ParseStyles(data []byte) (*StyleSheet, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	ss := &StyleSheet{}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse styles: %w", ErrNoStylesRoot)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if isW(se.Name, "styles") {
			ss.RootStart = string(data[:dec.InputOffset()])
			break
		}
		if err := dec.Skip(); err != nil {
			return nil, fmt.Errorf("parse styles: %w", err)
		}
	}

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse styles: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if isW(t.Name, "style") {
				st, err := parseStyle(dec, data, t)
				if err != nil {
					return nil, err
				}
				ss.Children = append(ss.Children, st)
			} else {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parse styles: %w", err)
				}
				ss.Children = append(ss.Children, RawStylesChild(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			ss.Trailer = string(data[dec.InputOffset():])
			return ss, nil
		}
	}
}

func parseStyle(dec *xml.Decoder, data []byte, start xml.StartElement) (*Style, error) {
	st := &Style{
		Type:    attrVal(start, "type"),
		ID:      attrVal(start, "styleId"),
		Default: attrVal(start, "default"),
	}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse style %s: %w", st.ID, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isW(t.Name, "pPr"):
				props, err := parseParagraphProps(dec, data)
				if err != nil {
					return nil, err
				}
				st.Para = props
			case isW(t.Name, "rPr"):
				props, err := parseRunProps(dec, data)
				if err != nil {
					return nil, err
				}
				st.Run = props
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				st.Extra = append(st.Extra, string(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			return st, nil
		}
	}
}

// Lookup returns the style with the given id, or nil.
func (ss *StyleSheet) Lookup(id string) *Style {
	for _, c := range ss.Children {
		if st, ok := c.(*Style); ok && st.ID == id {
			return st
		}
	}
	return nil
}

// EnsureParagraphStyle returns the paragraph style with the given id,
// creating it with the given display name when absent.
func (ss *StyleSheet) EnsureParagraphStyle(id, name string) *Style {
	if st := ss.Lookup(id); st != nil {
		return st
	}
	var nameElem strings.Builder
	nameElem.WriteString(`<w:name w:val="`)
	writeEscaped(&nameElem, name)
	nameElem.WriteString(`"/>`)
	st := &Style{
		Type:  "paragraph",
		ID:    id,
		Extra: []string{nameElem.String(), "<w:qFormat/>"},
	}
	ss.Children = append(ss.Children, st)
	return st
}

// Marshal serializes the style sheet back into styles part bytes.
func (ss *StyleSheet) Marshal() []byte {
	var b strings.Builder
	b.WriteString(ss.RootStart)
	for _, c := range ss.Children {
		switch t := c.(type) {
		case *Style:
			writeStyle(&b, t)
		case RawStylesChild:
			b.WriteString(string(t))
		}
	}
	b.WriteString("</w:styles>")
	b.WriteString(ss.Trailer)
	return []byte(b.String())
}

func writeStyle(b *strings.Builder, st *Style) {
	b.WriteString(`<w:style w:type="`)
	writeEscaped(b, st.Type)
	b.WriteString(`" w:styleId="`)
	writeEscaped(b, st.ID)
	b.WriteString(`"`)
	if st.Default != "" {
		b.WriteString(` w:default="`)
		writeEscaped(b, st.Default)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, raw := range st.Extra {
		b.WriteString(raw)
	}
	if st.Para != nil && !st.Para.empty() {
		writeParagraphProps(b, st.Para)
	}
	if st.Run != nil && !st.Run.empty() {
		writeRunProps(b, st.Run)
	}
	b.WriteString("</w:style>")
}
