// Package inspect produces a pre-flight summary of a manuscript: chapter
// outline and rough length statistics, for callers deciding how to format.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// Chapter is one heading found in the manuscript body.
type Chapter struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Report summarizes a manuscript before formatting.
type Report struct {
	Title      string    `json:"title"`
	Paragraphs int       `json:"paragraphs"`
	Words      int       `json:"words"`
	Chapters   []Chapter `json:"chapters"`
}

// Inspect reads a manuscript stream and returns its outline and counts.
// Spacer paragraphs with no text are not counted.
func Inspect(r io.Reader, filename string) (*Report, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "bookbind-inspect-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	report := &Report{
		Title: strings.TrimSuffix(filename, ".docx"),
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		report.Paragraphs++
		report.Words += len(strings.Fields(text))

		if level := headingLevel(para); level > 0 {
			report.Chapters = append(report.Chapters, Chapter{Title: text, Level: level})
		}
	}

	return report, nil
}

func headingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
