// Package pdfexport converts formatted manuscripts to PDF through a
// headless LibreOffice process and verifies the result is a readable PDF.
package pdfexport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	pdflib "github.com/ledongthuc/pdf"
)

// ErrUnavailable is returned when the converter binary cannot be found.
var ErrUnavailable = errors.New("pdf converter not available")

// ErrBadOutput is returned when conversion produced no readable PDF.
var ErrBadOutput = errors.New("pdf conversion produced unreadable output")

// Exporter runs docx-to-PDF conversions.
type Exporter struct {
	// SofficePath is the LibreOffice binary, e.g. "soffice".
	SofficePath string
	// Timeout bounds a single conversion.
	Timeout time.Duration
	Log     *slog.Logger
}

// New returns an exporter with the given binary path and timeout.
func New(sofficePath string, timeout time.Duration, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{SofficePath: sofficePath, Timeout: timeout, Log: log}
}

// Available reports whether the converter binary can be resolved.
func (e *Exporter) Available() bool {
	_, err := exec.LookPath(e.SofficePath)
	return err == nil
}

// Convert renders docxPath to a PDF in outDir and returns the PDF path.
// The output is named PRINT_<id>.pdf so repeated conversions of the same
// manuscript never collide.
func (e *Exporter) Convert(ctx context.Context, docxPath, outDir string) (string, error) {
	if _, err := exec.LookPath(e.SofficePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, e.SofficePath)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, e.SofficePath,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("convert to pdf: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// soffice names the output after the input basename.
	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	produced := filepath.Join(outDir, base+".pdf")
	final := filepath.Join(outDir, fmt.Sprintf("PRINT_%s.pdf", uuid.NewString()[:8]))
	if err := os.Rename(produced, final); err != nil {
		return "", fmt.Errorf("rename pdf output: %w", err)
	}

	if err := verify(final); err != nil {
		os.Remove(final)
		return "", err
	}

	e.Log.Info("pdf conversion complete",
		"input", docxPath, "output", final, "duration", time.Since(start))
	return final, nil
}

// verify opens the produced file as a PDF and requires at least one page.
func verify(path string) error {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: no pages", ErrBadOutput)
	}
	return nil
}
