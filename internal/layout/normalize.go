package layout

import (
	"regexp"
	"strings"

	"github.com/dgallion1/bookbind/internal/wml"
)

var (
	multiSpace   = regexp.MustCompile(` {2,}`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// normalizeText collapses redundant whitespace inside run text: tabs
// become single spaces, space runs collapse to one, and three or more
// newlines collapse to two. Operates per run, so a sequence split across
// adjacent runs is not collapsed — an accepted limitation.
func normalizeText(doc *wml.Document) {
	for _, p := range doc.Body.Paragraphs() {
		for _, r := range p.Runs() {
			for _, t := range r.Texts() {
				t.Value = cleanText(t.Value)
			}
		}
	}
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = multiNewline.ReplaceAllString(s, "\n\n")
	return s
}
