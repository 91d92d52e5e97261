package layout

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/bookbind/internal/docpkg"
	"github.com/dgallion1/bookbind/internal/wml"
)

const testDocHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`

const testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style></w:styles>`

func bodyPara(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func headingPara(text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="left"/></w:pPr>` +
		`<w:r><w:rPr><w:rFonts w:ascii="Courier" w:hAnsi="Courier"/><w:sz w:val="20"/></w:rPr>` +
		`<w:t>` + text + `</w:t></w:r></w:p>`
}

func defaultSectPr() string {
	return `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="708"/></w:sectPr>`
}

// buildManuscript writes a minimal docx fixture and returns its path.
func buildManuscript(t *testing.T, bodyXML string, extra map[string][]byte) string {
	t.Helper()
	document := testDocHeader + "<w:body>" + bodyXML + "</w:body></w:document>"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels":         `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
		"word/document.xml":   document,
		"word/styles.xml":     testStyles,
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		w.Write([]byte(entries[name]))
	}
	for name, data := range extra {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		w.Write(data)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "manuscript.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func formatFixture(t *testing.T, bodyXML string, opts Options) (*wml.Document, *docpkg.Package) {
	t.Helper()
	in := buildManuscript(t, bodyXML, nil)
	out := filepath.Join(t.TempDir(), "out.docx")
	if _, err := Format(in, out, opts); err != nil {
		t.Fatalf("format: %v", err)
	}
	pkg, err := docpkg.Open(out)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	docBytes, err := pkg.Entry(docpkg.MainDocumentPart)
	if err != nil {
		t.Fatalf("read output document: %v", err)
	}
	doc, err := wml.Parse(docBytes)
	if err != nil {
		t.Fatalf("parse output document: %v", err)
	}
	return doc, pkg
}

func TestFormat_TrimPresets(t *testing.T) {
	tests := []struct {
		trim  string
		wantW int
		wantH int
	}{
		{"6x9", 8640, 12960},
		{"5x8", 7200, 11520},
		{"8.5x11", 12240, 15840},
		{"bogus-size", 8640, 12960}, // unknown keys fall back to 6x9
	}
	for _, tt := range tests {
		t.Run(tt.trim, func(t *testing.T) {
			doc, _ := formatFixture(t, bodyPara("hello")+defaultSectPr(), Options{TrimSize: tt.trim})
			sections := doc.Sections()
			if len(sections) != 1 {
				t.Fatalf("expected 1 section, got %d", len(sections))
			}
			size := sections[0].EnsurePageSize()
			if size.W != tt.wantW || size.H != tt.wantH {
				t.Errorf("expected %dx%d twips, got %dx%d", tt.wantW, tt.wantH, size.W, size.H)
			}
		})
	}
}

func TestFormat_PrintModeMargins(t *testing.T) {
	doc, _ := formatFixture(t, bodyPara("hello")+defaultSectPr(), Options{PrintMode: true})
	sect := doc.Sections()[0]
	m := sect.EnsureMargins()
	if m.Top != 1440 || m.Bottom != 1440 {
		t.Errorf("expected 1in top/bottom margins, got %d/%d", m.Top, m.Bottom)
	}
	if m.Left != 1224 {
		t.Errorf("expected inside margin 1224, got %d", m.Left)
	}
	if m.Right != 864 {
		t.Errorf("expected outside margin 864, got %d", m.Right)
	}
	if m.Gutter != 0 {
		t.Errorf("expected zero gutter, got %d", m.Gutter)
	}
	if !sect.HasMirrorMargins() {
		t.Error("expected mirrored-margins marker in print mode")
	}
}

func TestFormat_NonPrintModeSameMarginsNoMarker(t *testing.T) {
	doc, _ := formatFixture(t, bodyPara("hello")+defaultSectPr(), Options{})
	sect := doc.Sections()[0]
	m := sect.EnsureMargins()
	if m.Left != 1224 || m.Right != 864 {
		t.Errorf("expected inside/outside margins, got %d/%d", m.Left, m.Right)
	}
	if sect.HasMirrorMargins() {
		t.Error("unexpected mirrored-margins marker without print mode")
	}
}

func TestFormat_FrontMatterOrder(t *testing.T) {
	doc, _ := formatFixture(t,
		bodyPara("original first paragraph")+defaultSectPr(),
		Options{Title: "My Book", Author: "Jane Doe"})

	texts := paragraphTexts(doc)

	titleIdx := indexOf(texts, "My Book")
	if titleIdx != 8 {
		t.Errorf("expected title after 8 spacers at index 8, got %d", titleIdx)
	}
	authorIdx := indexOf(texts, "Jane Doe")
	if authorIdx != titleIdx+3 {
		t.Errorf("expected author two spacers after title, got %d (title %d)", authorIdx, titleIdx)
	}
	copyrightIdx := indexOf(texts, fmt.Sprintf("Copyright © %d Jane Doe", time.Now().Year()))
	if copyrightIdx < 0 {
		t.Fatalf("copyright line with current year missing: %q", texts)
	}
	dedicationIdx := indexOf(texts, "For someone special…")
	tocIdx := indexOf(texts, "Table of Contents")
	originalIdx := indexOf(texts, "original first paragraph")

	// The paragraph-count placement heuristic lands the TOC at the tail of
	// the copyright page, ahead of the dedication.
	if !(titleIdx < copyrightIdx && copyrightIdx < tocIdx && tocIdx < dedicationIdx && dedicationIdx < originalIdx) {
		t.Errorf("wrong document order: title=%d copyright=%d toc=%d dedication=%d original=%d",
			titleIdx, copyrightIdx, tocIdx, dedicationIdx, originalIdx)
	}
}

func TestFormat_PlaceholdersWhenUnset(t *testing.T) {
	doc, _ := formatFixture(t, bodyPara("content")+defaultSectPr(), Options{})
	texts := paragraphTexts(doc)
	if indexOf(texts, "Untitled") < 0 {
		t.Error("expected placeholder title")
	}
	if indexOf(texts, "Author Name") < 0 {
		t.Error("expected placeholder author")
	}
}

func TestFormat_TOCField(t *testing.T) {
	doc, _ := formatFixture(t, bodyPara("content")+defaultSectPr(), Options{})
	out := string(doc.Marshal())

	begin := strings.Index(out, `<w:fldChar w:fldCharType="begin"/>`)
	instr := strings.Index(out, `TOC \o &#34;1-3&#34; \h \z \u`)
	sep := strings.Index(out, `<w:fldChar w:fldCharType="separate"/>`)
	fallback := strings.Index(out, "Update Field")
	end := strings.Index(out, `<w:fldChar w:fldCharType="end"/>`)
	if begin < 0 || instr < 0 || sep < 0 || fallback < 0 || end < 0 {
		t.Fatalf("field construct incomplete:\n%s", out)
	}
	if !(begin < instr && instr < sep && sep < fallback && fallback < end) {
		t.Errorf("field markers out of order: %d %d %d %d %d", begin, instr, sep, fallback, end)
	}
}

func TestFormat_NormalizesRunText(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">a` + "\t" + `b  c` + "\n\n\n\n" + `d</w:t></w:r></w:p>` + defaultSectPr()
	doc, _ := formatFixture(t, body, Options{})

	for _, p := range doc.Body.Paragraphs() {
		for _, r := range p.Runs() {
			for _, txt := range r.Texts() {
				if strings.Contains(txt.Value, "\t") {
					t.Errorf("tab survived normalization: %q", txt.Value)
				}
				if strings.Contains(txt.Value, "  ") {
					t.Errorf("double space survived normalization: %q", txt.Value)
				}
				if strings.Contains(txt.Value, "\n\n\n") {
					t.Errorf("triple newline survived normalization: %q", txt.Value)
				}
			}
		}
	}
}

func TestFormat_ChapterHeadings(t *testing.T) {
	doc, _ := formatFixture(t, headingPara("Chapter One")+bodyPara("text")+defaultSectPr(), Options{})

	var heading *wml.Paragraph
	for _, p := range doc.Body.Paragraphs() {
		if p.StyleID() == "Heading1" {
			heading = p
			break
		}
	}
	if heading == nil {
		t.Fatal("heading paragraph not found in output")
	}
	if !heading.Props.PageBreakBefore {
		t.Error("expected page-break-before on heading")
	}
	if heading.Props.Justify != "center" {
		t.Errorf("expected centered heading, got %q", heading.Props.Justify)
	}
	for _, r := range heading.Runs() {
		if r.Props == nil {
			t.Fatal("heading run has no properties")
		}
		if r.Props.Font != "Georgia" {
			t.Errorf("expected Georgia, got %q", r.Props.Font)
		}
		if r.Props.Size == nil || *r.Props.Size != 36 {
			t.Errorf("expected 18pt (36 half-points), got %v", r.Props.Size)
		}
		if r.Props.Bold == nil || !*r.Props.Bold {
			t.Error("expected bold heading run")
		}
	}
}

func TestFormat_ConfiguresStylesPart(t *testing.T) {
	in := buildManuscript(t, bodyPara("x")+defaultSectPr(), nil)
	out := filepath.Join(t.TempDir(), "out.docx")
	if _, err := Format(in, out, Options{LineSpacing: 1.5}); err != nil {
		t.Fatalf("format: %v", err)
	}
	pkg, err := docpkg.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	stylesBytes, err := pkg.Entry(docpkg.StylesPart)
	if err != nil {
		t.Fatalf("styles part: %v", err)
	}
	ss, err := wml.ParseStyles(stylesBytes)
	if err != nil {
		t.Fatalf("parse styles: %v", err)
	}

	normal := ss.Lookup("Normal")
	if normal == nil {
		t.Fatal("Normal style missing")
	}
	if normal.Run == nil || normal.Run.Font != "Georgia" {
		t.Errorf("Normal font not configured: %+v", normal.Run)
	}
	if normal.Para == nil || normal.Para.Spacing == nil || normal.Para.Spacing.Line == nil ||
		*normal.Para.Spacing.Line != 360 {
		t.Errorf("expected line spacing 360 (1.5x), got %+v", normal.Para)
	}

	heading := ss.Lookup("Heading1")
	if heading == nil {
		t.Fatal("Heading1 style not created")
	}
	if heading.Para == nil || !heading.Para.PageBreakBefore || heading.Para.Justify != "center" {
		t.Errorf("Heading1 paragraph props not configured: %+v", heading.Para)
	}
}

func TestFormat_PreservesMediaBytes(t *testing.T) {
	mediaBytes := []byte{0x00, 0x01, 0x02, 0xff, 0xfe}
	in := buildManuscript(t, bodyPara("x")+defaultSectPr(), map[string][]byte{
		"word/media/blob.bin": mediaBytes,
	})
	out := filepath.Join(t.TempDir(), "out.docx")
	if _, err := Format(in, out, Options{}); err != nil {
		t.Fatalf("format: %v", err)
	}
	pkg, err := docpkg.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := pkg.Entry("word/media/blob.bin")
	if err != nil {
		t.Fatalf("media entry: %v", err)
	}
	if !bytes.Equal(got, mediaBytes) {
		t.Errorf("media bytes changed: %v", got)
	}
}

func TestFormat_SecondPassIdempotentGeometry(t *testing.T) {
	in := buildManuscript(t, bodyPara("content")+defaultSectPr(), nil)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.docx")
	second := filepath.Join(dir, "second.docx")

	opts := Options{TrimSize: "5x8", PrintMode: true, Title: "Twice", Author: "Me"}
	if _, err := Format(in, first, opts); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := Format(first, second, opts); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	pkg, err := docpkg.Open(second)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	docBytes, err := pkg.Entry(docpkg.MainDocumentPart)
	if err != nil {
		t.Fatalf("document part: %v", err)
	}
	doc, err := wml.Parse(docBytes)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sect := doc.Sections()[0]
	size := sect.EnsurePageSize()
	if size.W != 7200 || size.H != 11520 {
		t.Errorf("geometry drifted on second pass: %dx%d", size.W, size.H)
	}
	if !sect.HasMirrorMargins() {
		t.Error("mirror marker lost on second pass")
	}
	// The marker must not stack up across passes.
	marshaled := string(doc.Marshal())
	if strings.Count(marshaled, "<w:mirrorMargins/>") != 1 {
		t.Errorf("expected exactly one mirror marker, output:\n%s", marshaled)
	}

	// Front matter accumulates: two title paragraphs after two passes.
	titles := 0
	for _, text := range paragraphTexts(doc) {
		if text == "Twice" {
			titles++
		}
	}
	if titles != 2 {
		t.Errorf("expected duplicated front matter (2 title paragraphs), got %d", titles)
	}
}

func TestFormat_CorruptInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "garbage.docx")
	if err := os.WriteFile(in, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.docx")
	_, err := Format(in, out, Options{})
	if !errors.Is(err, docpkg.ErrPackageCorrupt) {
		t.Fatalf("expected ErrPackageCorrupt, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("expected no output file for corrupt input")
	}
}

func TestFormat_WriteFailureKeepsWarnings(t *testing.T) {
	// A garbage media image forces a DPI warning; the write then fails.
	in := buildManuscript(t, bodyPara("x")+defaultSectPr(), map[string][]byte{
		"word/media/broken.png": []byte("not an image"),
	})
	out := filepath.Join(t.TempDir(), "no-such-dir", "out.docx")

	res, err := Format(in, out, Options{})
	if !errors.Is(err, docpkg.ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected DPI warnings preserved on failure, got %+v", res.Warnings)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("expected destination absent after failed write")
	}
}

func paragraphTexts(doc *wml.Document) []string {
	var out []string
	for _, p := range doc.Body.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			for _, txt := range r.Texts() {
				sb.WriteString(txt.Value)
			}
		}
		out = append(out, sb.String())
	}
	return out
}

func indexOf(texts []string, want string) int {
	for i, s := range texts {
		if s == want {
			return i
		}
	}
	return -1
}
