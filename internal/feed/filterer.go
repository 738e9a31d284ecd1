package feed

import (
	"time"
)

type FilterResult struct {
	Candidates []Candidate
	Unmatched  int
	Expired    int
}

// Filterer applies a source's keyword rule and the recency window.
type Filterer struct {
	matcher *Matcher
}

func NewFilterer() *Filterer {
	return &Filterer{
		matcher: NewMatcher(),
	}
}

// Cutoff returns the oldest publish time still inside a window ending at now.
func Cutoff(now time.Time, window time.Duration) time.Time {
	return now.UTC().Add(-window)
}

func (f *Filterer) Run(entries []Entry, rule Rule, cutoff time.Time) FilterResult {
	result := FilterResult{
		Candidates: make([]Candidate, 0, len(entries)),
	}

	for _, e := range entries {
		if !f.matcher.Run(e, rule.Terms, rule.TitleOnly) {
			result.Unmatched++
			continue
		}

		c := NewCandidate(e)
		if c.PublishedAt.Before(cutoff) {
			result.Expired++
			continue
		}

		result.Candidates = append(result.Candidates, c)
	}

	return result
}
