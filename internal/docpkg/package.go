// Package docpkg reads and writes zip-packaged word-processing documents.
// A Package is a read-only snapshot of the archive; mutations are expressed
// as replacement parts handed to WriteFile, which always produces a new
// archive rather than patching the original in place.
package docpkg

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Well-known part names inside a wordprocessing package.
const (
	MainDocumentPart = "word/document.xml"
	StylesPart       = "word/styles.xml"
	MediaPrefix      = "word/media/"
)

var (
	// ErrPackageCorrupt indicates the byte stream is not a valid archive.
	ErrPackageCorrupt = errors.New("package corrupt")
	// ErrEntryNotFound indicates a required part is missing from the package.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrWriteFailed indicates the output archive could not be persisted.
	ErrWriteFailed = errors.New("write failed")
)

// Package is an ordered set of named byte-blob entries from a zip archive.
// Entry names are unique; on duplicate names the last entry wins.
type Package struct {
	names   []string
	entries map[string][]byte
	headers map[string]zip.FileHeader
}

// Open reads the archive at path fully into memory.
func Open(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageCorrupt, err)
	}
	return OpenBytes(data)
}

// OpenBytes reads an archive from an in-memory byte slice.
func OpenBytes(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageCorrupt, err)
	}

	pkg := &Package{
		entries: make(map[string][]byte, len(zr.File)),
		headers: make(map[string]zip.FileHeader, len(zr.File)),
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open entry %s: %v", ErrPackageCorrupt, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read entry %s: %v", ErrPackageCorrupt, f.Name, err)
		}
		if _, seen := pkg.entries[f.Name]; !seen {
			pkg.names = append(pkg.names, f.Name)
		}
		pkg.entries[f.Name] = content
		pkg.headers[f.Name] = f.FileHeader
	}
	return pkg, nil
}

// Entries returns entry names in archive order.
func (p *Package) Entries() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Has reports whether the named entry exists.
func (p *Package) Has(name string) bool {
	_, ok := p.entries[name]
	return ok
}

// Entry returns the raw bytes of the named entry.
func (p *Package) Entry(name string) ([]byte, error) {
	data, ok := p.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return data, nil
}

// WriteFile writes a new archive at path containing every original entry
// byte-for-byte, except entries named in replacements, whose bytes are
// substituted. Replacement entries absent from the original are appended.
// Writing is atomic from the caller's perspective: either a complete archive
// exists at path afterwards or nothing does.
func (p *Package) WriteFile(path string, replacements map[string][]byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bookbind-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	zw := zip.NewWriter(tmp)
	written := make(map[string]bool, len(p.names))
	for _, name := range p.names {
		content := p.entries[name]
		if repl, ok := replacements[name]; ok {
			content = repl
		}
		hdr := p.headers[name]
		w, err := zw.CreateHeader(&hdr)
		if err != nil {
			return fail(fmt.Errorf("create entry %s: %v", name, err))
		}
		if _, err := w.Write(content); err != nil {
			return fail(fmt.Errorf("write entry %s: %v", name, err))
		}
		written[name] = true
	}
	for name, content := range replacements {
		if written[name] {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return fail(fmt.Errorf("create entry %s: %v", name, err))
		}
		if _, err := w.Write(content); err != nil {
			return fail(fmt.Errorf("write entry %s: %v", name, err))
		}
	}

	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}
