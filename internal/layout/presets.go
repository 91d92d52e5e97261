package layout

import "github.com/dgallion1/bookbind/internal/wml"

// Trim presets, margins and type constants are process-wide immutable
// configuration; the transformation passes are pure functions of
// (tree, options) against these values.

// TrimPreset is a page size in twips.
type TrimPreset struct {
	Width  int
	Height int
}

// DefaultTrimSize is used when the requested trim key is unrecognized.
const DefaultTrimSize = "6x9"

// TrimPresets maps trim-size keys to page dimensions.
var TrimPresets = map[string]TrimPreset{
	"6x9":    {Width: wml.Inches(6), Height: wml.Inches(9)},
	"5x8":    {Width: wml.Inches(5), Height: wml.Inches(8)},
	"8.5x11": {Width: wml.Inches(8.5), Height: wml.Inches(11)},
}

// Page margins in twips. Inside/outside pair with mirrored margins for
// bound printing.
var (
	marginTop     = wml.Inches(1)
	marginBottom  = wml.Inches(1)
	marginInside  = wml.Inches(0.85)
	marginOutside = wml.Inches(0.6)
)

// Typography.
const (
	fontFamily = "Georgia"

	bodySizePt       = 11
	headingSizePt    = 18
	titleSizePt      = 36
	authorSizePt     = 18
	copyrightSizePt  = 10
	dedicationSizePt = 14
	tocFallbackPt    = 10

	bodyStyleID    = "Normal"
	headingStyleID = "Heading1"

	// DefaultLineSpacing is the body line-spacing multiplier applied when
	// the caller supplies none.
	DefaultLineSpacing = 1.15
)

// Body paragraph spacing and indentation.
var (
	bodySpaceAfter   = wml.Twentieths(6)
	bodyFirstIndent  = wml.Inches(0.25)
	headSpaceBefore  = wml.Twentieths(24)
	headSpaceAfter   = wml.Twentieths(12)
	zeroIndent       = 0
)

// Placeholder front-matter values for callers that supply none.
const (
	placeholderTitle  = "Untitled"
	placeholderAuthor = "Author Name"
)
