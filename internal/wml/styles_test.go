package wml

import (
	"strings"
	"testing"
)

const stylesSrc = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="24"/></w:rPr></w:rPrDefault></w:docDefaults><w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/><w:qFormat/></w:style></w:styles>`

func TestParseStyles_LookupAndPreserve(t *testing.T) {
	ss, err := ParseStyles([]byte(stylesSrc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	normal := ss.Lookup("Normal")
	if normal == nil {
		t.Fatal("Normal style not found")
	}
	if normal.Type != "paragraph" || normal.Default != "1" {
		t.Errorf("unexpected style attrs: %+v", normal)
	}

	out := string(ss.Marshal())
	if !strings.Contains(out, "<w:docDefaults>") {
		t.Errorf("docDefaults not preserved:\n%s", out)
	}
	if !strings.Contains(out, `<w:name w:val="Normal"/>`) {
		t.Errorf("style name not preserved:\n%s", out)
	}
	if !strings.Contains(out, `w:default="1"`) {
		t.Errorf("default attr not preserved:\n%s", out)
	}
}

func TestEnsureParagraphStyle_ReusesExisting(t *testing.T) {
	ss, err := ParseStyles([]byte(stylesSrc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := len(ss.Children)
	st := ss.EnsureParagraphStyle("Normal", "Normal")
	if st == nil || len(ss.Children) != before {
		t.Fatal("expected existing style to be reused")
	}
}

func TestEnsureParagraphStyle_CreatesMissing(t *testing.T) {
	ss, err := ParseStyles([]byte(stylesSrc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := ss.EnsureParagraphStyle("Heading1", "heading 1")
	if st == nil {
		t.Fatal("expected new style")
	}
	st.EnsureRun().SetFont("Georgia")
	st.EnsureRun().SetSize(36)
	st.EnsureRun().SetBold(true)
	st.EnsurePara().Justify = "center"
	st.EnsurePara().PageBreakBefore = true

	// Ensure again: must not duplicate.
	again := ss.EnsureParagraphStyle("Heading1", "heading 1")
	if again != st {
		t.Error("expected same style instance on second ensure")
	}

	out := string(ss.Marshal())
	wants := []string{
		`<w:style w:type="paragraph" w:styleId="Heading1">`,
		`<w:name w:val="heading 1"/>`,
		`<w:pageBreakBefore/>`,
		`<w:jc w:val="center"/>`,
		`<w:rFonts w:ascii="Georgia" w:hAnsi="Georgia"/>`,
		`<w:sz w:val="36"/>`,
		`<w:b/>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, `w:styleId="Heading1"`) != 1 {
		t.Errorf("Heading1 style duplicated:\n%s", out)
	}
}

func TestNewStyleSheet(t *testing.T) {
	ss := NewStyleSheet()
	ss.EnsureParagraphStyle("Normal", "Normal")
	out := string(ss.Marshal())
	if !strings.Contains(out, `xmlns:w="`+Namespace+`"`) {
		t.Errorf("missing namespace declaration:\n%s", out)
	}
	if !strings.HasSuffix(out, "</w:styles>") {
		t.Errorf("missing closing tag:\n%s", out)
	}
}
