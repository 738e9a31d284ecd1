package feed

import (
	"cmp"
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

const urnUUIDPrefix = "urn:uuid:"

var imgTagPattern = regexp.MustCompile(`(?i)<img\b[^>]*>`)

// Candidate is an entry that passed keyword matching and the recency
// window, with its canonical identifier and publish time resolved.
type Candidate struct {
	Entry       Entry
	GUID        string
	PublishedAt time.Time
}

func NewCandidate(e Entry) Candidate {
	publishedAt, ok := PickDate(e)
	if !ok {
		publishedAt = Epoch
	}

	return Candidate{
		Entry:       e,
		GUID:        CanonicalGUID(e),
		PublishedAt: publishedAt,
	}
}

// Normalize builds the output item for a candidate of the given source.
func Normalize(c Candidate, rule Rule) Item {
	item := Item{
		GUID:        c.GUID,
		Title:       c.Entry.Title,
		Link:        PickLink(c.Entry),
		HTML:        PickBody(c.Entry),
		PublishedAt: c.PublishedAt,
		Category:    rule.Label,
	}

	if rule.TakeImageEnclosure {
		item.ImageURL = PickImage(c.Entry)
	}

	return item
}

// CanonicalGUID returns the entry identifier without a urn:uuid: prefix,
// or a SHA-1 of link and title when the entry has no usable identifier.
func CanonicalGUID(e Entry) string {
	id := strings.TrimSpace(e.ID)
	if len(id) >= len(urnUUIDPrefix) && strings.EqualFold(id[:len(urnUUIDPrefix)], urnUUIDPrefix) {
		id = strings.TrimSpace(id[len(urnUUIDPrefix):])
	}
	if id != "" {
		return id
	}

	hash := sha1.Sum([]byte(e.Link + "||" + e.Title))
	return hex.EncodeToString(hash[:])
}

// PickBody returns the first non-empty of content, summary and description
// with inline image tags removed.
func PickBody(e Entry) string {
	body := cmp.Or(e.Content, e.Summary, e.Description)
	if body == "" {
		return ""
	}
	return imgTagPattern.ReplaceAllString(body, "")
}

func PickLink(e Entry) string {
	if e.Link != "" {
		return NormalizeURL(e.Link)
	}

	var best string
	for _, l := range e.Links {
		rel := strings.ToLower(l.Rel)
		if rel != "alternate" {
			continue
		}
		if isHTMLType(strings.ToLower(l.Type)) {
			return NormalizeURL(l.Href)
		}
		if best == "" {
			best = NormalizeURL(l.Href)
		}
	}
	if best != "" {
		return best
	}

	if len(e.Links) > 0 {
		return NormalizeURL(e.Links[0].Href)
	}
	return ""
}

// PickImage returns the first image attachment: enclosures first, then
// links with rel="enclosure". Empty when there is none. An image-typed
// attachment without a URL is skipped so a later usable one still wins.
func PickImage(e Entry) string {
	for _, enc := range e.Enclosures {
		if isImageType(enc.Type) && enc.URL != "" {
			return NormalizeURL(enc.URL)
		}
	}

	for _, l := range e.Links {
		if strings.EqualFold(l.Rel, "enclosure") && isImageType(l.Type) && l.Href != "" {
			return NormalizeURL(l.Href)
		}
	}

	return ""
}
