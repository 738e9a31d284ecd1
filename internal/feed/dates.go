package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Epoch is the publish time given to entries without any usable date.
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseDate parses a date in any of the common feed formats. Dates without
// a zone are read as UTC. The result is always in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// PickDate selects the publish time of e. Textual published, updated and
// created fields are tried first, then their pre-parsed counterparts in
// the same order.
func PickDate(e Entry) (time.Time, bool) {
	for _, s := range []string{e.Published, e.Updated, e.Created} {
		if t, ok := ParseDate(s); ok {
			return t, true
		}
	}

	for _, t := range []*time.Time{e.PublishedParsed, e.UpdatedParsed, e.CreatedParsed} {
		if t != nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// FormatDate renders t as an RFC 1123 date with a numeric UTC offset.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
