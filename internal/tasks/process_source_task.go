package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/rss-merge/internal/feed"
)

// ProcessSourceTask fetches and parses one source and keeps the entries
// that match its rule inside the recency window. It touches no shared
// state, so several tasks may run at once.
type ProcessSourceTask struct {
	Task
	Rule     feed.Rule
	cutoff   time.Time
	fetcher  Fetcher
	parser   EntryParser
	filterer *feed.Filterer
}

func NewProcessSourceTask(url string, rule feed.Rule, cutoff time.Time, fetcher Fetcher, parser EntryParser, filterer *feed.Filterer) *ProcessSourceTask {
	return &ProcessSourceTask{
		Task:     NewTask(TaskTypeProcessSource, url),
		Rule:     rule,
		cutoff:   cutoff,
		fetcher:  fetcher,
		parser:   parser,
		filterer: filterer,
	}
}

func (t *ProcessSourceTask) Execute(ctx context.Context) (int, feed.FilterResult, error) {
	select {
	case <-ctx.Done():
		return 0, feed.FilterResult{}, ctx.Err()
	default:
	}

	t.Start()
	defer t.Finish()

	data, err := t.fetcher.Run(ctx, t.URL)
	if err != nil {
		return 0, feed.FilterResult{}, fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries, err := t.parser.Run(data)
	if err != nil {
		return 0, feed.FilterResult{}, fmt.Errorf("failed to parse feed: %w", err)
	}

	return len(entries), t.filterer.Run(entries, t.Rule, t.cutoff), nil
}
