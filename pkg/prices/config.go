package prices

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"sigsim-api/pkg/confkit"
)

const (
	defaultRatePerMinute   = 30
	defaultSimulationHours = 24

	envCoinCapKey   = "COINCAP_API_KEY"
	envCoinGeckoKey = "COINGECKO_API_KEY"
	envMoralisKey   = "MORALIS_API_KEY"
)

// Config selects and tunes the price-series provider.
type Config struct {
	// Provider is one of: coincap | coingecko | moralis | mock.
	Provider string `yaml:"provider"`
	// APIKey is usually left empty in the file and supplied via env.
	APIKey        string        `yaml:"api_key"`
	RatePerMinute int           `yaml:"rate_per_minute"`
	CacheDir      string        `yaml:"cache_dir"`
	CacheTTL      time.Duration `yaml:"-"`
	// SimulationHours is the default walk-forward window for callers that do
	// not specify one.
	SimulationHours int `yaml:"simulation_hours"`
	// Step is the default sample spacing.
	Step time.Duration `yaml:"-"`

	cacheTTLRaw string `yaml:"cache_ttl"`
	stepRaw     string `yaml:"step"`
}

// LoadConfig reads provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read prices config: %w", err)
	}

	var raw struct {
		Provider        string `yaml:"provider"`
		APIKey          string `yaml:"api_key"`
		RatePerMinute   int    `yaml:"rate_per_minute"`
		CacheDir        string `yaml:"cache_dir"`
		CacheTTL        string `yaml:"cache_ttl"`
		SimulationHours int    `yaml:"simulation_hours"`
		Step            string `yaml:"step"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal prices config: %w", err)
	}

	cfg := &Config{
		Provider:        strings.ToLower(strings.TrimSpace(raw.Provider)),
		APIKey:          raw.APIKey,
		RatePerMinute:   raw.RatePerMinute,
		CacheDir:        raw.CacheDir,
		SimulationHours: raw.SimulationHours,
		cacheTTLRaw:     raw.CacheTTL,
		stepRaw:         raw.Step,
	}
	cfg.applyDefaults()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = "mock"
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = defaultRatePerMinute
	}
	if c.SimulationHours <= 0 {
		c.SimulationHours = defaultSimulationHours
	}
	if c.APIKey == "" {
		c.APIKey = envKeyFor(c.Provider)
	}
}

func envKeyFor(provider string) string {
	switch provider {
	case "coincap":
		return os.Getenv(envCoinCapKey)
	case "coingecko":
		return os.Getenv(envCoinGeckoKey)
	case "moralis":
		return os.Getenv(envMoralisKey)
	}
	return ""
}

func (c *Config) parseDurations() error {
	if c.cacheTTLRaw != "" {
		d, err := time.ParseDuration(c.cacheTTLRaw)
		if err != nil {
			return fmt.Errorf("prices config: bad cache_ttl %q: %w", c.cacheTTLRaw, err)
		}
		c.CacheTTL = d
	}
	if c.stepRaw == "" {
		c.Step = time.Minute
		return nil
	}
	d, err := time.ParseDuration(c.stepRaw)
	if err != nil {
		return fmt.Errorf("prices config: bad step %q: %w", c.stepRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("prices config: step must be positive")
	}
	c.Step = d
	return nil
}

// Validate checks that the provider selection is coherent.
func (c *Config) Validate() error {
	switch c.Provider {
	case "coincap", "coingecko", "moralis", "mock":
	default:
		return fmt.Errorf("prices config: unknown provider %q", c.Provider)
	}
	if c.SimulationHours <= 0 {
		return fmt.Errorf("prices config: simulation_hours must be positive")
	}
	return nil
}

// New builds the configured Provider. Real providers without an API key fall
// back to the deterministic mock so the pipeline stays usable offline.
func New(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prices: config is required")
	}

	var inner Provider
	switch cfg.Provider {
	case "mock":
		inner = NewMock()
	case "coincap":
		if cfg.APIKey == "" {
			logx.Slowf("prices: %s missing, falling back to mock provider", envCoinCapKey)
			inner = NewMock()
		} else {
			inner = NewCoinCap(cfg.APIKey, cfg.RatePerMinute)
		}
	case "coingecko":
		if cfg.APIKey == "" {
			logx.Slowf("prices: %s missing, falling back to mock provider", envCoinGeckoKey)
			inner = NewMock()
		} else {
			inner = NewCoinGecko(cfg.APIKey, cfg.RatePerMinute)
		}
	case "moralis":
		if cfg.APIKey == "" {
			logx.Slowf("prices: %s missing, falling back to mock provider", envMoralisKey)
			inner = NewMock()
		} else {
			inner = NewMoralis(cfg.APIKey, cfg.RatePerMinute)
		}
	default:
		return nil, fmt.Errorf("prices: unknown provider %q", cfg.Provider)
	}

	if cfg.CacheDir != "" {
		cached, err := NewCache(inner, cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return inner, nil
}
