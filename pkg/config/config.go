package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"5s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Tracing struct {
		Enabled     bool   `yaml:"enabled"`
		ServiceName string `yaml:"service_name" default:"stockscope"`
		PrettyPrint bool   `yaml:"pretty_print"`
	} `yaml:"tracing"`
	Provider struct {
		Type      string        `yaml:"type" default:"yahoo"`
		ChartURL  string        `yaml:"chart_url" default:"https://query1.finance.yahoo.com"`
		QuoteURL  string        `yaml:"quote_url" default:"https://query2.finance.yahoo.com"`
		CookieURL string        `yaml:"cookie_url" default:"https://fc.yahoo.com"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; StockScope/1.0)"`
	} `yaml:"provider"`
	Analysis struct {
		SMAWindow           int    `yaml:"sma_window" default:"20"`
		DecompositionPeriod int    `yaml:"decomposition_period" default:"30"`
		Lookback            string `yaml:"lookback" default:"1y"`
		Interval            string `yaml:"interval" default:"1d"`
	} `yaml:"analysis"`
	RateLimit struct {
		Enabled      bool          `yaml:"enabled" default:"true"`
		Backend      string        `yaml:"backend" default:"memory"`
		Capacity     float64       `yaml:"capacity" default:"10"`
		RefillPerSec float64       `yaml:"refill_per_sec" default:"0.5"`
		Window       time.Duration `yaml:"window" default:"1m"`
		MaxKeys      int           `yaml:"max_keys" default:"10000"`
		Redis        struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"stockscope:ratelimit"`
		} `yaml:"redis"`
	} `yaml:"ratelimit"`
}

// Default returns a configuration populated only from `default` tags.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. Keys missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PROVIDER_TYPE"); v != "" {
		c.Provider.Type = v
	}
	if v := getenv("YAHOO_BASE_URL"); v != "" {
		c.Provider.ChartURL = v
		c.Provider.QuoteURL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.RateLimit.Redis.Addr = v
	}
	if v := getenv("TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Provider.Type != "yahoo" && c.Provider.Type != "mock" {
		return fmt.Errorf("provider.type must be 'yahoo' or 'mock', got '%s'", c.Provider.Type)
	}
	if c.Provider.Type == "yahoo" && (c.Provider.ChartURL == "" || c.Provider.QuoteURL == "") {
		return fmt.Errorf("provider.chart_url and provider.quote_url are required for yahoo")
	}
	if c.Analysis.SMAWindow < 1 {
		return fmt.Errorf("analysis.sma_window must be positive, got %d", c.Analysis.SMAWindow)
	}
	if c.Analysis.DecompositionPeriod < 2 {
		return fmt.Errorf("analysis.decomposition_period must be at least 2, got %d", c.Analysis.DecompositionPeriod)
	}
	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case "memory":
			if c.RateLimit.Capacity < 1 || c.RateLimit.RefillPerSec <= 0 {
				return fmt.Errorf("ratelimit.capacity must be >= 1 and refill_per_sec > 0")
			}
			if c.RateLimit.MaxKeys < 1 {
				return fmt.Errorf("ratelimit.max_keys must be positive, got %d", c.RateLimit.MaxKeys)
			}
		case "redis":
			if c.RateLimit.Redis.Addr == "" {
				return fmt.Errorf("ratelimit.redis.addr is required for the redis backend")
			}
			if c.RateLimit.Window <= 0 || c.RateLimit.Capacity < 1 {
				return fmt.Errorf("ratelimit.window and ratelimit.capacity must be positive")
			}
		default:
			return fmt.Errorf("ratelimit.backend must be 'memory' or 'redis', got '%s'", c.RateLimit.Backend)
		}
	}
	return nil
}
