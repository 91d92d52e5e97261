// Package dpi scans embedded raster images in a document package for
// minimum print resolution. The scan is advisory: every failure mode
// degrades to an informational warning, never an error.
package dpi

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	// Raster decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dgallion1/bookbind/internal/docpkg"
)

// DefaultMinDPI is the print-resolution threshold applied when none is given.
const DefaultMinDPI = 300

// defaultDensity is assumed for images carrying no resolution metadata.
const defaultDensity = 72

// Warning reports one image below the resolution threshold, or one image
// (or container) that could not be analyzed. DPI is 0 when unknown.
type Warning struct {
	Image    string `json:"image"`
	DPI      int    `json:"dpi"`
	Required int    `json:"required"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Message  string `json:"message"`
}

var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

func isRasterEntry(name string) bool {
	return rasterExtensions[strings.ToLower(path.Ext(name))]
}

// Scan opens the package at docxPath and scans its media entries.
// An unreadable container yields a single warning describing the failure.
func Scan(docxPath string, minDPI int) []Warning {
	if minDPI <= 0 {
		minDPI = DefaultMinDPI
	}
	pkg, err := docpkg.Open(docxPath)
	if err != nil {
		return []Warning{{
			Image:    "N/A",
			Required: minDPI,
			Message:  fmt.Sprintf("error reading document package: %v", err),
		}}
	}
	return ScanPackage(pkg, minDPI)
}

// ScanPackage scans every media entry with a raster-image extension and
// returns one warning per non-compliant or unreadable image.
func ScanPackage(pkg *docpkg.Package, minDPI int) []Warning {
	if minDPI <= 0 {
		minDPI = DefaultMinDPI
	}
	var warnings []Warning
	for _, name := range pkg.Entries() {
		if !strings.HasPrefix(name, docpkg.MediaPrefix) || !isRasterEntry(name) {
			continue
		}
		data, err := pkg.Entry(name)
		if err != nil {
			continue
		}
		base := path.Base(name)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			warnings = append(warnings, Warning{
				Image:    base,
				Required: minDPI,
				Message:  fmt.Sprintf("could not analyze image '%s': %v", base, err),
			})
			continue
		}

		x, y := resolution(data)
		avg := (x + y) / 2
		if avg < minDPI {
			warnings = append(warnings, Warning{
				Image:    base,
				DPI:      avg,
				Required: minDPI,
				Width:    cfg.Width,
				Height:   cfg.Height,
				Message: fmt.Sprintf("Image '%s' has %d DPI (minimum %d DPI required for print)",
					base, avg, minDPI),
			})
		}
	}
	return warnings
}
