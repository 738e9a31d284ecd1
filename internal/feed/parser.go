package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Parser turns raw feed bytes into entries. Atom documents go through the
// Atom parser so link relations and types survive; RSS and JSON Feed go
// through the universal parser.
//
// The gofeed parsers keep per-document state, so Run builds fresh ones on
// every call and a Parser may be shared between goroutines.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) ([]Entry, error) {
	if gofeed.DetectFeedType(bytes.NewReader(data)) == gofeed.FeedTypeAtom {
		atomParser := &atom.Parser{}
		feed, err := atomParser.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse atom feed: %w", err)
		}

		entries := make([]Entry, 0, len(feed.Entries))
		for _, e := range feed.Entries {
			if e != nil {
				entries = append(entries, p.fromAtom(e))
			}
		}

		slog.Debug("Feed parsed", "type", "atom", "title", feed.Title, "entries", len(entries))
		return entries, nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item != nil {
			entries = append(entries, p.fromItem(item))
		}
	}

	slog.Debug("Feed parsed", "type", feed.FeedType, "title", feed.Title, "entries", len(entries))
	return entries, nil
}

func (p *Parser) fromAtom(e *atom.Entry) Entry {
	entry := Entry{
		Title:           e.Title,
		Summary:         e.Summary,
		ID:              e.ID,
		Published:       e.Published,
		Updated:         e.Updated,
		Created:         extensionValue(e.Extensions, "created"),
		PublishedParsed: utc(e.PublishedParsed),
		UpdatedParsed:   utc(e.UpdatedParsed),
	}

	if e.Content != nil {
		entry.Content = e.Content.Value
	}

	for _, l := range e.Links {
		if l == nil {
			continue
		}
		// A link without rel is an alternate link (RFC 4287 section 4.2.7.2)
		link := Link{
			Rel:  strings.ToLower(cmp.Or(l.Rel, "alternate")),
			Type: strings.ToLower(l.Type),
			Href: l.Href,
		}
		entry.Links = append(entry.Links, link)

		if entry.Link == "" && link.Rel == "alternate" &&
			(isHTMLType(link.Type) || link.Type == "application/xhtml+xml") {
			entry.Link = link.Href
		}
	}

	return entry
}

func (p *Parser) fromItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title:           item.Title,
		Link:            item.Link,
		Content:         item.Content,
		Description:     item.Description,
		ID:              item.GUID,
		Published:       item.Published,
		Updated:         item.Updated,
		Created:         extensionValue(item.Extensions, "created"),
		PublishedParsed: utc(item.PublishedParsed),
		UpdatedParsed:   utc(item.UpdatedParsed),
	}

	for _, href := range item.Links {
		if href != "" {
			entry.Links = append(entry.Links, Link{Rel: "alternate", Href: href})
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil {
			entry.Enclosures = append(entry.Enclosures, Enclosure{
				URL:  enc.URL,
				Type: strings.ToLower(enc.Type),
			})
		}
	}

	return entry
}

// extensionValue returns the first non-empty Dublin Core element called name.
func extensionValue(exts ext.Extensions, name string) string {
	for _, prefix := range []string{"dcterms", "dc"} {
		for _, e := range exts[prefix][name] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
