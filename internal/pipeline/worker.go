package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/bookbind/internal/layout"
	"github.com/dgallion1/bookbind/internal/pdfexport"
)

// Worker processes a single formatting job: stage the upload to disk, run
// the layout engine, optionally convert the result to PDF.
type Worker struct {
	uploadDir string
	exporter  *pdfexport.Exporter
	stats     *FormatStats
	log       *slog.Logger
}

func NewWorker(uploadDir string, exporter *pdfexport.Exporter, stats *FormatStats, log *slog.Logger) *Worker {
	return &Worker{
		uploadDir: uploadDir,
		exporter:  exporter,
		stats:     stats,
		log:       log,
	}
}

// Process runs the full formatting pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: stage the upload.
	job.SetStatus(StatusFormatting, "staging upload")
	inputPath := filepath.Join(w.uploadDir, fmt.Sprintf("input_%s_%s", shortID(job.ID), job.Filename))
	if err := os.WriteFile(inputPath, job.FileData(), 0o644); err != nil {
		log.Error("stage upload failed", "error", err)
		job.AddError(fmt.Sprintf("stage upload: %s", err))
		job.SetStatus(StatusFailed, "staging")
		return
	}
	defer os.Remove(inputPath)
	job.ClearFileData()

	// Phase 2: format.
	job.SetStatus(StatusFormatting, "formatting manuscript")
	base := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))
	outputPath := filepath.Join(w.uploadDir, fmt.Sprintf("FORMATTED_%s_%s.docx", base, shortID(job.ID)))

	start := time.Now()
	res, err := layout.Format(inputPath, outputPath, job.Options)
	w.stats.Record(time.Since(start).Milliseconds())
	job.SetWarnings(res.Warnings)
	if err != nil {
		log.Error("formatting failed", "error", err)
		job.AddError(fmt.Sprintf("format: %s", err))
		job.SetStatus(StatusFailed, "formatting")
		return
	}
	log.Info("formatting complete", "output", outputPath, "dpi_warnings", len(res.Warnings))

	// Phase 3: optional PDF export. A conversion failure is recorded but
	// does not fail the job; the formatted docx is still usable.
	pdfPath := ""
	if job.GeneratePDF && job.Options.PrintMode {
		job.SetStatus(StatusExporting, "converting to pdf")
		pdfPath, err = w.exporter.Convert(ctx, outputPath, w.uploadDir)
		if err != nil {
			log.Warn("pdf conversion failed", "error", err)
			job.AddError(fmt.Sprintf("pdf: %s", err))
			pdfPath = ""
		} else {
			log.Info("pdf conversion complete", "pdf", pdfPath)
		}
	}

	job.SetOutputs(outputPath, pdfPath)
	job.SetStatus(StatusCompleted, "done")
}

// shortID trims a job ID for use in file names.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
