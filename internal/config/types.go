package config

// Config is the content of the feed merge configuration file.
type Config struct {
	WindowDays int      `yaml:"window_days"`
	MaxItems   int      `yaml:"max_items"`
	Channel    Channel  `yaml:"channel"`
	Sources    []Source `yaml:"sources"`
}

// Channel holds the metadata of the generated feed.
type Channel struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	SelfURL     string `yaml:"self_url"`
}

// Source is one upstream feed and its keyword rule.
type Source struct {
	URL                string   `yaml:"url"`
	Label              string   `yaml:"label"`
	Match              []string `yaml:"match"`
	TitleOnly          bool     `yaml:"title_only"`
	TakeImageEnclosure bool     `yaml:"take_image_enclosure"`
}
