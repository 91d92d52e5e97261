package docpkg

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func buildArchive(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func TestOpen_ValidArchive(t *testing.T) {
	order := []string{"[Content_Types].xml", "word/document.xml", "word/media/image1.png"}
	entries := map[string]string{
		"[Content_Types].xml":   "<Types/>",
		"word/document.xml":     "<w:document/>",
		"word/media/image1.png": "not-really-a-png",
	}
	path := filepath.Join(t.TempDir(), "in.docx")
	if err := os.WriteFile(path, buildArchive(t, entries, order), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	pkg, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := pkg.Entries()
	if len(names) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(names))
	}
	for i, want := range order {
		if names[i] != want {
			t.Errorf("entry[%d]: expected %q, got %q", i, want, names[i])
		}
	}

	doc, err := pkg.Entry(MainDocumentPart)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if string(doc) != "<w:document/>" {
		t.Errorf("unexpected document bytes: %q", doc)
	}
}

func TestOpen_CorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	if err := os.WriteFile(path, []byte("this is not a zip file"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Fatalf("expected ErrPackageCorrupt, got %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.docx"))
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Fatalf("expected ErrPackageCorrupt, got %v", err)
	}
}

func TestEntry_NotFound(t *testing.T) {
	pkg, err := OpenBytes(buildArchive(t, map[string]string{"a.xml": "x"}, []string{"a.xml"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = pkg.Entry("word/document.xml")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestWriteFile_PreservesAndReplaces(t *testing.T) {
	order := []string{"word/document.xml", "word/media/photo.jpg", "docProps/core.xml"}
	entries := map[string]string{
		"word/document.xml":     "<old/>",
		"word/media/photo.jpg":  "jpeg-bytes",
		"docProps/core.xml":     "<core/>",
	}
	pkg, err := OpenBytes(buildArchive(t, entries, order))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.docx")
	err = pkg.WriteFile(out, map[string][]byte{
		MainDocumentPart: []byte("<new/>"),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	names := got.Entries()
	if len(names) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(names))
	}
	for i, want := range order {
		if names[i] != want {
			t.Errorf("entry[%d]: expected %q, got %q", i, want, names[i])
		}
	}

	doc, _ := got.Entry(MainDocumentPart)
	if string(doc) != "<new/>" {
		t.Errorf("replaced entry: expected %q, got %q", "<new/>", doc)
	}
	media, _ := got.Entry("word/media/photo.jpg")
	if string(media) != "jpeg-bytes" {
		t.Errorf("preserved entry changed: %q", media)
	}
}

func TestWriteFile_FailureLeavesNoOutput(t *testing.T) {
	pkg, err := OpenBytes(buildArchive(t, map[string]string{"a.xml": "x"}, []string{"a.xml"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "missing-dir", "out.docx")
	err = pkg.WriteFile(dest, nil)
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat returned %v", statErr)
	}
}
