package scraper

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"sigsim-api/pkg/confkit"
)

const (
	defaultTimelineLimit = 10
	defaultRatePerMinute = 15

	envBearerToken = "TWITTER_BEARER_TOKEN"
)

// Config selects and tunes the tweet source.
type Config struct {
	// Source is one of: twitter | mock.
	Source string `yaml:"source"`
	// Handles are the timelines polled by the pipeline.
	Handles []string `yaml:"handles"`
	// Limit is how many tweets to pull per handle per run.
	Limit int `yaml:"limit"`
	// BearerToken is usually left empty in the file and supplied via env.
	BearerToken   string `yaml:"bearer_token"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

// LoadConfig reads scraper configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scraper config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scraper config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal scraper config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = "mock"
	}
	if c.Limit <= 0 {
		c.Limit = defaultTimelineLimit
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = defaultRatePerMinute
	}
	if c.BearerToken == "" {
		c.BearerToken = os.Getenv(envBearerToken)
	}
	for i, h := range c.Handles {
		c.Handles[i] = NormalizeHandle(h)
	}
}

// Validate checks that the source selection is coherent.
func (c *Config) Validate() error {
	switch c.Source {
	case "twitter", "mock":
	default:
		return fmt.Errorf("scraper config: unknown source %q", c.Source)
	}
	for _, h := range c.Handles {
		if h == "" {
			return fmt.Errorf("scraper config: handles cannot contain empty values")
		}
	}
	return nil
}

// New builds the configured Source. A twitter source without a bearer token
// falls back to the deterministic mock so the pipeline stays usable offline.
func New(cfg *Config) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scraper: config is required")
	}
	switch cfg.Source {
	case "mock":
		return NewMockSource(), nil
	case "twitter":
		if cfg.BearerToken == "" {
			logx.Slowf("scraper: %s missing, falling back to mock source", envBearerToken)
			return NewMockSource(), nil
		}
		return NewTwitter(cfg.BearerToken, cfg.RatePerMinute), nil
	}
	return nil, fmt.Errorf("scraper: unknown source %q", cfg.Source)
}
