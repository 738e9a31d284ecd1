package feed

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// Matcher tests entries against keyword terms with a case-insensitive
// substring search.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run reports whether any term occurs in the entry. An empty term list
// never matches.
func (m *Matcher) Run(e Entry, terms []string, titleOnly bool) bool {
	if len(terms) == 0 {
		return false
	}

	// A Caser is stateful, so one per call
	caser := cases.Fold()
	haystack := caser.String(m.haystack(e, titleOnly))

	for _, term := range terms {
		if strings.Contains(haystack, caser.String(term)) {
			return true
		}
	}
	return false
}

func (m *Matcher) haystack(e Entry, titleOnly bool) string {
	if titleOnly {
		return e.Title
	}

	parts := make([]string, 0, 4)
	for _, s := range []string{e.Title, e.Summary, e.Description} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if e.Content != "" {
		parts = append(parts, markupPattern.ReplaceAllString(e.Content, " "))
	}

	return strings.Join(parts, " ")
}
