package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/bookbind/internal/dpi"
	"github.com/dgallion1/bookbind/internal/layout"
)

// JobStatus represents the state of a formatting job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFormatting JobStatus = "formatting"
	StatusExporting  JobStatus = "exporting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single manuscript formatting run.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Options     layout.Options `json:"options"`
	GeneratePDF bool           `json:"generate_pdf"`

	OutputPath string        `json:"output_path,omitempty"`
	PDFPath    string        `json:"pdf_path,omitempty"`
	Warnings   []dpi.Warning `json:"dpi_warnings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetWarnings records the DPI scan outcome.
func (j *Job) SetWarnings(warnings []dpi.Warning) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = warnings
	j.UpdatedAt = time.Now()
}

// SetOutputs records the produced artifact paths.
func (j *Job) SetOutputs(docxPath, pdfPath string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = docxPath
	j.PDFPath = pdfPath
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw manuscript bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw manuscript bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// ClearFileData drops the manuscript bytes once processing is done.
func (j *Job) ClearFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string         `json:"job_id"`
	Filename    string         `json:"filename"`
	Status      JobStatus      `json:"status"`
	Phase       string         `json:"phase"`
	Options     layout.Options `json:"options"`
	GeneratePDF bool           `json:"generate_pdf"`
	OutputPath  string         `json:"output_path,omitempty"`
	PDFPath     string         `json:"pdf_path,omitempty"`
	Warnings    []dpi.Warning  `json:"dpi_warnings"`
	Errors      []string       `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	warnings := j.Warnings
	if warnings == nil {
		warnings = []dpi.Warning{}
	}
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Status:      j.Status,
		Phase:       j.Phase,
		Options:     j.Options,
		GeneratePDF: j.GeneratePDF,
		OutputPath:  j.OutputPath,
		PDFPath:     j.PDFPath,
		Warnings:    warnings,
		Errors:      errs,
	}
}
