package layout

import "github.com/dgallion1/bookbind/internal/wml"

// configurePages applies the trim preset and print margins to every
// section. Print mode zeroes the binding gutter and attaches the
// mirrored-margins marker so facing pages alternate inside/outside.
func configurePages(doc *wml.Document, opts Options) {
	preset, ok := TrimPresets[opts.TrimSize]
	if !ok {
		preset = TrimPresets[DefaultTrimSize]
	}

	for _, sect := range doc.Sections() {
		size := sect.EnsurePageSize()
		size.W = preset.Width
		size.H = preset.Height

		m := sect.EnsureMargins()
		m.Top = marginTop
		m.Bottom = marginBottom
		m.Left = marginInside
		m.Right = marginOutside

		if opts.PrintMode {
			m.Gutter = 0
			sect.SetMirrorMargins()
		}
	}
}
