package tasks

import (
	"context"

	"github.com/lysyi3m/rss-merge/internal/feed"
)

// Fetcher retrieves the raw bytes of a feed URL.
type Fetcher interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

// EntryParser turns raw feed bytes into entries.
type EntryParser interface {
	Run(data []byte) ([]feed.Entry, error)
}
