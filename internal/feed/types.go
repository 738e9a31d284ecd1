package feed

import (
	"time"
)

// Parsed entry types

// Entry is one feed entry as produced by the parser, independent of the
// source dialect. Every field is optional.
type Entry struct {
	Title       string
	Link        string
	Links       []Link
	Content     string // first content value
	Summary     string
	Description string
	Enclosures  []Enclosure
	ID          string // Atom id, RSS guid or JSON Feed id

	Published string
	Updated   string
	Created   string

	// Pre-decomposed dates, already in UTC
	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
	CreatedParsed   *time.Time
}

type Link struct {
	Rel  string
	Type string
	Href string
}

type Enclosure struct {
	URL  string
	Type string
}

// Output types

type Item struct {
	GUID        string
	Title       string
	Link        string
	HTML        string
	PublishedAt time.Time
	Category    string
	ImageURL    string
}

type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfURL     string
}

// Source rule types

type Rule struct {
	Label              string
	Terms              []string
	TitleOnly          bool
	TakeImageEnclosure bool
}
