// Package layout is the manuscript layout engine: a fixed sequence of
// transformations over the document tree of a zip-packaged manuscript.
// No pagination is computed; the engine inserts structural hints (forced
// breaks, a dynamic TOC field) for the consuming word processor to resolve.
package layout

import (
	"fmt"

	"github.com/dgallion1/bookbind/internal/docpkg"
	"github.com/dgallion1/bookbind/internal/dpi"
	"github.com/dgallion1/bookbind/internal/wml"
)

// Options configures one formatting pass. Unknown trim sizes fall back to
// the 6x9 preset silently; a bad form value should not abort the job.
type Options struct {
	TrimSize    string  `json:"trim_size"`
	PrintMode   bool    `json:"print_mode"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	LineSpacing float64 `json:"line_spacing"`
	// MinDPI is the print-resolution floor for the image scan.
	MinDPI int `json:"-"`
}

func (o Options) withDefaults() Options {
	if o.TrimSize == "" {
		o.TrimSize = DefaultTrimSize
	}
	if o.Title == "" {
		o.Title = placeholderTitle
	}
	if o.Author == "" {
		o.Author = placeholderAuthor
	}
	if o.LineSpacing <= 0 {
		o.LineSpacing = DefaultLineSpacing
	}
	if o.MinDPI <= 0 {
		o.MinDPI = dpi.DefaultMinDPI
	}
	return o
}

// Result carries the formatting outcome. Warnings are populated from the
// DPI scan and are preserved even when formatting fails afterwards.
type Result struct {
	OutputPath string        `json:"output_path,omitempty"`
	Warnings   []dpi.Warning `json:"dpi_warnings"`
}

// Format rewrites the manuscript at inputPath into a print-ready package
// at outputPath. The pipeline runs synchronously to completion; a failed
// call leaves no output file behind.
func Format(inputPath, outputPath string, opts Options) (Result, error) {
	opts = opts.withDefaults()
	var res Result

	pkg, err := docpkg.Open(inputPath)
	if err != nil {
		return res, fmt.Errorf("open manuscript: %w", err)
	}

	res.Warnings = dpi.ScanPackage(pkg, opts.MinDPI)

	docBytes, err := pkg.Entry(docpkg.MainDocumentPart)
	if err != nil {
		return res, fmt.Errorf("read main document part: %w", err)
	}
	doc, err := wml.Parse(docBytes)
	if err != nil {
		return res, fmt.Errorf("parse main document part: %w", err)
	}

	styles, err := loadStyles(pkg)
	if err != nil {
		return res, fmt.Errorf("parse styles part: %w", err)
	}

	configurePages(doc, opts)
	configureStyles(styles, opts.LineSpacing)
	normalizeText(doc)
	formatChapters(doc)
	applyBodyFormatting(doc, opts.LineSpacing)
	insertFrontMatter(doc, opts.Title, opts.Author)
	insertTOC(doc)

	replacements := map[string][]byte{
		docpkg.MainDocumentPart: doc.Marshal(),
		docpkg.StylesPart:       styles.Marshal(),
	}
	if err := pkg.WriteFile(outputPath, replacements); err != nil {
		return res, fmt.Errorf("write formatted package: %w", err)
	}

	res.OutputPath = outputPath
	return res, nil
}

func loadStyles(pkg *docpkg.Package) (*wml.StyleSheet, error) {
	data, err := pkg.Entry(docpkg.StylesPart)
	if err != nil {
		return wml.NewStyleSheet(), nil
	}
	return wml.ParseStyles(data)
}
