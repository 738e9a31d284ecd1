package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/rss-merge/internal/config"
	"github.com/lysyi3m/rss-merge/internal/feed"
)

// SourceReport summarizes what happened to one source during a run.
type SourceReport struct {
	URL        string
	Label      string
	Err        error
	Total      int
	Unmatched  int
	Expired    int
	Duplicates int
	Added      int
}

type Result struct {
	Items   []feed.Item
	Sources []SourceReport
}

// Runner processes every configured source and merges the survivors.
// Sources are fetched by up to workerCount goroutines; their results are
// folded into one accumulator in configuration order, so the output does
// not depend on the worker count.
type Runner struct {
	fetcher     Fetcher
	parser      EntryParser
	filterer    *feed.Filterer
	workerCount int
}

func NewRunner(fetcher Fetcher, parser EntryParser, filterer *feed.Filterer, workerCount int) *Runner {
	return &Runner{
		fetcher:     fetcher,
		parser:      parser,
		filterer:    filterer,
		workerCount: max(workerCount, 1),
	}
}

type taskOutcome struct {
	task   *ProcessSourceTask
	total  int
	result feed.FilterResult
	err    error
}

func (r *Runner) Run(ctx context.Context, c *config.Config, now time.Time) Result {
	log := slog.With("run_id", uuid.NewString())
	cutoff := feed.Cutoff(now, c.Window())

	log.Info("Run started",
		"sources", len(c.Sources),
		"window_days", c.WindowDays,
		"cutoff", cutoff.Format(time.RFC3339),
		"workers", r.workerCount)

	outcomes := make([]taskOutcome, len(c.Sources))

	var g errgroup.Group
	g.SetLimit(r.workerCount)
	for i, src := range c.Sources {
		task := NewProcessSourceTask(src.URL, RuleFor(src), cutoff, r.fetcher, r.parser, r.filterer)
		g.Go(func() error {
			total, result, err := task.Execute(ctx)
			outcomes[i] = taskOutcome{task: task, total: total, result: result, err: err}
			return nil
		})
	}
	// Tasks report failures through their outcome, never through the group
	_ = g.Wait()

	acc := feed.NewAccumulator()
	reports := make([]SourceReport, 0, len(outcomes))
	for _, o := range outcomes {
		report := SourceReport{
			URL:   o.task.URL,
			Label: o.task.Rule.Label,
			Err:   o.err,
		}

		if o.err != nil {
			log.Warn("Source skipped", "url", o.task.URL, "label", o.task.Rule.Label, "error", o.err)
			reports = append(reports, report)
			continue
		}

		report.Total = o.total
		report.Unmatched = o.result.Unmatched
		report.Expired = o.result.Expired
		for _, cand := range o.result.Candidates {
			if acc.Add(cand, o.task.Rule) {
				report.Added++
			} else {
				report.Duplicates++
			}
		}
		reports = append(reports, report)

		log.Info("Task completed",
			"type", o.task.Type,
			"task_id", o.task.ID,
			"label", report.Label,
			"duration", o.task.GetDuration(),
			"total", report.Total,
			"unmatched", report.Unmatched,
			"expired", report.Expired,
			"duplicates", report.Duplicates,
			"new", report.Added)
	}

	items := acc.Items(c.MaxItems)
	log.Info("Run finished", "collected", acc.Len(), "duplicates", acc.Duplicates(), "items", len(items))

	return Result{
		Items:   items,
		Sources: reports,
	}
}

// RuleFor converts a configured source into its matching rule.
func RuleFor(src config.Source) feed.Rule {
	return feed.Rule{
		Label:              src.Label,
		Terms:              src.Match,
		TitleOnly:          src.TitleOnly,
		TakeImageEnclosure: src.TakeImageEnclosure,
	}
}
