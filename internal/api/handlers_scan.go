package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/bookbind/internal/docpkg"
	"github.com/dgallion1/bookbind/internal/dpi"
	"github.com/dgallion1/bookbind/internal/inspect"
)

// handleScan runs the image resolution check without formatting. Scans are
// fast enough to answer synchronously.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readManuscript(w, r)
	if !ok {
		return
	}

	minDPI := s.cfg.MinImageDPI
	if v := r.FormValue("min_dpi"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minDPI = n
		}
	}

	pkg, err := docpkg.OpenBytes(data)
	if err != nil {
		jsonError(w, "unreadable manuscript: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	warnings := dpi.ScanPackage(pkg, minDPI)
	if warnings == nil {
		warnings = []dpi.Warning{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":     filename,
		"min_dpi":      minDPI,
		"dpi_warnings": warnings,
	})
}

// handleInspect returns the manuscript outline and length statistics.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readManuscript(w, r)
	if !ok {
		return
	}

	report, err := inspect.Inspect(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "inspect failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
