package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sigsim-api/pkg/confkit"
)

// Config controls runtime behaviour for the signal extractor.
type Config struct {
	// MaxLeverage caps the leverage accepted from extracted signals; higher
	// values are clamped, not rejected.
	MaxLeverage float64 `yaml:"max_leverage"`
	// RequireKnownTicker drops signals whose ticker is not in the supported
	// currency list.
	RequireKnownTicker bool `yaml:"require_known_ticker"`
	// StrictLevels rejects signals whose take-profit and stop-loss levels
	// sit on the wrong side of the entry price.
	StrictLevels bool `yaml:"strict_levels"`
	// PromptTemplate is the extraction prompt path, resolved relative to
	// the config file by the caller.
	PromptTemplate string        `yaml:"prompt_template"`
	ExtractTimeout time.Duration `yaml:"-"`

	ExtractTimeoutRaw string `yaml:"extract_timeout"`
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extractor config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads extractor configuration from the default project location and panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/extractor.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read extractor config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal extractor config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxLeverage <= 0 {
		c.MaxLeverage = 20
	}
	if strings.TrimSpace(c.PromptTemplate) == "" {
		c.PromptTemplate = "prompts/extractor.txt"
	}
	if strings.TrimSpace(c.ExtractTimeoutRaw) == "" {
		c.ExtractTimeoutRaw = "45s"
	}
}

func (c *Config) parseDurations() error {
	timeout, err := time.ParseDuration(c.ExtractTimeoutRaw)
	if err != nil {
		return fmt.Errorf("extractor config: invalid extract_timeout %q: %w", c.ExtractTimeoutRaw, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("extractor config: extract_timeout must be positive, got %s", timeout)
	}
	c.ExtractTimeout = timeout
	return nil
}

// Validate ensures configuration sanity.
func (c *Config) Validate() error {
	if c.MaxLeverage <= 0 {
		return errors.New("extractor config: max_leverage must be positive")
	}
	return nil
}
