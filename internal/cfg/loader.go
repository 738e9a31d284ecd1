package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	DefaultConfigFile = "feeds.yaml"
	DefaultOutputFile = "feed.xml"
	DefaultUserAgent  = "Onet-Podcast-Aggregator/1.1 (+github actions)"
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	ConfigFile string `long:"config" env:"FEEDS_CONFIG" default:"feeds.yaml" description:"Feed merge configuration file"`
	OutputFile string `long:"output" env:"OUTPUT_FILE" default:"feed.xml" description:"Path of the generated RSS document"`

	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Onet-Podcast-Aggregator/1.1 (+github actions)" description:"User agent string for HTTP requests"`
	FetchTimeout int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-source fetch timeout in seconds"`
	WorkerCount  int    `long:"workers" env:"WORKER_COUNT" default:"1" description:"Number of sources fetched concurrently"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses args and the environment. A nil Cfg with a nil error means
// help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %d", raw.FetchTimeout)
	}

	return &Cfg{
		ConfigFile:   cmp.Or(raw.ConfigFile, DefaultConfigFile),
		OutputFile:   cmp.Or(raw.OutputFile, DefaultOutputFile),
		UserAgent:    cmp.Or(raw.UserAgent, DefaultUserAgent),
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		WorkerCount:  max(raw.WorkerCount, 1),
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}, nil
}
