package pdfexport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAvailable(t *testing.T) {
	e := New("definitely-not-a-real-binary-xyz", time.Second, nil)
	if e.Available() {
		t.Error("expected unavailable for nonexistent binary")
	}
}

func TestConvertUnavailableBinary(t *testing.T) {
	e := New("definitely-not-a-real-binary-xyz", time.Second, nil)
	_, err := e.Convert(context.Background(), "in.docx", t.TempDir())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := verify(path); !errors.Is(err, ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
}
