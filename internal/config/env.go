package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment variables read by LoadEnv.
const EnvPrefix = "DARKLINK"

// envSettings lists the settings that can be overridden from the
// environment, e.g. DARKLINK_CONCURRENCY=20.
type envSettings struct {
	Rules          string        `envconfig:"RULES"`
	URLs           string        `envconfig:"URLS"`
	Output         string        `envconfig:"OUTPUT"`
	Format         string        `envconfig:"FORMAT"`
	Concurrency    int           `envconfig:"CONCURRENCY"`
	MaxDepth       int           `envconfig:"MAX_DEPTH"`
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT"`
	Retries        int           `envconfig:"RETRIES"`
	Backoff        time.Duration `envconfig:"BACKOFF"`
	MaxBodySize    int64         `envconfig:"MAX_BODY_SIZE"`
	Proxy          string        `envconfig:"PROXY"`
	Rate           float64       `envconfig:"RATE"`
	VerifyTLS      bool          `envconfig:"VERIFY_TLS"`
	Charset        string        `envconfig:"CHARSET"`
	Profiles       []string      `envconfig:"PROFILES"`
	LogFormat      string        `envconfig:"LOG_FORMAT"`
	DBDir          string        `envconfig:"DB_DIR"`
}

// LoadEnv overrides c with the DARKLINK_* variables that are set. Unset
// variables leave the current values unchanged.
func (c *Config) LoadEnv() error {
	s := envSettings{
		Rules:          c.RulesFile,
		URLs:           c.URLsFile,
		Output:         c.ReportFile,
		Format:         c.Format,
		Concurrency:    c.Concurrency,
		MaxDepth:       c.MaxDepth,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		Retries:        c.Retries,
		Backoff:        c.Backoff,
		MaxBodySize:    c.MaxBodySize,
		Proxy:          c.Proxy,
		Rate:           c.RateLimit,
		VerifyTLS:      c.VerifyTLS,
		Charset:        c.Charset,
		Profiles:       c.Profiles,
		LogFormat:      c.LogFormat,
		DBDir:          c.DBDir,
	}

	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	c.RulesFile = s.Rules
	c.URLsFile = s.URLs
	c.ReportFile = s.Output
	c.Format = s.Format
	c.Concurrency = s.Concurrency
	c.MaxDepth = s.MaxDepth
	c.ConnectTimeout = s.ConnectTimeout
	c.ReadTimeout = s.ReadTimeout
	c.Retries = s.Retries
	c.Backoff = s.Backoff
	c.MaxBodySize = s.MaxBodySize
	c.Proxy = s.Proxy
	c.RateLimit = s.Rate
	c.VerifyTLS = s.VerifyTLS
	c.Charset = s.Charset
	c.Profiles = s.Profiles
	c.LogFormat = s.LogFormat
	c.DBDir = s.DBDir

	return nil
}
