package api

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

const usageMarkdown = `# bookbind

Formats docx manuscripts for print: trim size, mirrored margins, front
matter, chapter breaks and a dynamic table of contents.

## Endpoints

### POST /api/format

Multipart form upload. Returns 202 with a job ID to poll.

| Field | Description |
| --- | --- |
| file | The manuscript (.docx), required |
| trim_size | 6x9 (default), 5x8, 8.5x11 |
| print_mode | "true" enables mirrored margins |
| title | Book title for the title page |
| author | Author name for the title and copyright pages |
| line_spacing | Body line spacing multiplier, default 1.15 |
| generate_pdf | "true" also renders a PDF (print_mode only) |

### GET /api/format/{jobID}/status

Job state, DPI warnings and download URLs once completed.

### GET /api/format/{jobID}/download/{docx|pdf}

Fetch a produced artifact.

### POST /api/scan

Image resolution check only; answers synchronously with DPI warnings.

### POST /api/inspect

Chapter outline and word counts without formatting.

### GET /api/stats

Queue depth and rolling formatting-duration percentiles.
`

var usageHTML struct {
	once sync.Once
	body []byte
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	usageHTML.once.Do(func() {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(usageMarkdown), &buf); err != nil {
			buf.Reset()
			buf.WriteString("<pre>" + usageMarkdown + "</pre>")
		}
		usageHTML.body = buf.Bytes()
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(usageHTML.body)
}
