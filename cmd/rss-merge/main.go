package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-merge/internal/cfg"
	"github.com/lysyi3m/rss-merge/internal/config"
	"github.com/lysyi3m/rss-merge/internal/feed"
	"github.com/lysyi3m/rss-merge/internal/fetcher"
	"github.com/lysyi3m/rss-merge/internal/output"
	"github.com/lysyi3m/rss-merge/internal/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if appCfg == nil {
		// Help was shown
		return 0
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS merge", "version", appCfg.Version, "config", appCfg.ConfigFile, "output", appCfg.OutputFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feedsCfg, err := config.Load(appCfg.ConfigFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", appCfg.ConfigFile, "error", err)
		return 1
	}

	result, err := merge(ctx, appCfg, feedsCfg, time.Now().UTC())
	if err != nil {
		slog.Error("Merge failed", "error", err)
		return 1
	}

	failed := 0
	for _, src := range result.Sources {
		if src.Err != nil {
			failed++
		}
	}

	slog.Info("Output written", "path", appCfg.OutputFile, "items", len(result.Items), "failed_sources", failed)
	return 0
}

// merge runs every source, renders the merged feed with now as its build
// time and writes it to the configured output file.
func merge(ctx context.Context, appCfg *cfg.Cfg, feedsCfg *config.Config, now time.Time) (tasks.Result, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	runner := tasks.NewRunner(
		fetcher.NewFetcher(httpClient, appCfg.UserAgent, appCfg.FetchTimeout),
		feed.NewParser(),
		feed.NewFilterer(),
		appCfg.WorkerCount)

	result := runner.Run(ctx, feedsCfg, now)

	// An interrupted run would publish a feed missing the cancelled sources
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run interrupted: %w", err)
	}

	channel := feed.Channel{
		Title:       feedsCfg.Channel.Title,
		Link:        feedsCfg.Channel.Link,
		Description: feedsCfg.Channel.Description,
		Language:    feedsCfg.Channel.Language,
		SelfURL:     feedsCfg.Channel.SelfURL,
	}
	doc := feed.NewGenerator(appCfg.Version).Run(channel, result.Items, now)

	if err := output.NewWriter(feed.XMLDeclaration).Run(appCfg.OutputFile, doc); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", appCfg.OutputFile, err)
	}

	return result, nil
}
