package cfg

import "time"

type Cfg struct {
	// Files
	ConfigFile string
	OutputFile string

	// Fetching
	UserAgent    string
	FetchTimeout time.Duration
	WorkerCount  int

	// Application metadata
	Debug   bool
	Version string
}
