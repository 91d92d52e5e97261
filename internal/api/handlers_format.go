package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bookbind/internal/layout"
	"github.com/dgallion1/bookbind/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readManuscript(w, r)
	if !ok {
		return
	}

	opts := layout.Options{
		TrimSize:    formOr(r, "trim_size", s.cfg.DefaultTrimSize),
		PrintMode:   r.FormValue("print_mode") == "true",
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		LineSpacing: s.cfg.DefaultLineSpacing,
		MinDPI:      s.cfg.MinImageDPI,
	}
	if v := r.FormValue("line_spacing"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.LineSpacing = f
		}
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:          pipeline.NewJobID(),
		Filename:    filename,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		Options:     opts,
		GeneratePDF: r.FormValue("generate_pdf") == "true",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/format/%s/status", job.ID),
	})
}

func (s *Server) handleFormatStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":       snap.ID,
		"status":       snap.Status,
		"phase":        snap.Phase,
		"dpi_warnings": snap.Warnings,
		"errors":       snap.Errors,
	}
	if snap.Status == pipeline.StatusCompleted {
		resp["download_url"] = fmt.Sprintf("/api/format/%s/download/docx", snap.ID)
		if snap.PDFPath != "" {
			resp["pdf_url"] = fmt.Sprintf("/api/format/%s/download/pdf", snap.ID)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	kind := chi.URLParam(r, "kind")

	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, "job not completed", http.StatusConflict)
		return
	}

	var path, contentType string
	switch kind {
	case "docx":
		path = snap.OutputPath
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		path = snap.PDFPath
		contentType = "application/pdf"
	default:
		jsonError(w, "unknown artifact kind", http.StatusBadRequest)
		return
	}
	if path == "" {
		jsonError(w, "artifact not available", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "artifact no longer on disk", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// readManuscript pulls the uploaded docx out of the multipart form and
// enforces the size and extension limits. On failure it writes the error
// response and returns ok=false.
func (s *Server) readManuscript(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	// Limit total request size, extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".docx") {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	return data, filename, true
}

func formOr(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
