package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".darklink.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .darklink.yaml configuration file. Scan
// settings are pointers so that a key missing from the file leaves the
// current value alone.
type File struct {
	Rules          *string        `yaml:"rules,omitempty"`
	URLs           *string        `yaml:"urls,omitempty"`
	Output         *string        `yaml:"output,omitempty"`
	Format         *string        `yaml:"format,omitempty"`
	Concurrency    *int           `yaml:"concurrency,omitempty"`
	MaxDepth       *int           `yaml:"maxDepth,omitempty"`
	ConnectTimeout *time.Duration `yaml:"connectTimeout,omitempty"`
	ReadTimeout    *time.Duration `yaml:"readTimeout,omitempty"`
	Retries        *int           `yaml:"retries,omitempty"`
	Backoff        *time.Duration `yaml:"backoff,omitempty"`
	MaxBodySize    *int64         `yaml:"maxBodySize,omitempty"`
	Proxy          *string        `yaml:"proxy,omitempty"`
	Rate           *float64       `yaml:"rate,omitempty"`
	VerifyTLS      *bool          `yaml:"verifyTLS,omitempty"`
	Charset        *string        `yaml:"charset,omitempty"`
	Profiles       []string       `yaml:"profiles,omitempty"`
	LogFormat      *string        `yaml:"logFormat,omitempty"`

	// Sites maps a host (optionally with port) to its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless a site overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	sites := make(map[string]SiteConfig, len(cf.Sites))
	for host, sc := range cf.Sites {
		sites[strings.ToLower(host)] = sc
	}
	cf.Sites = sites

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. .darklink.yaml in the current directory
// 3. .darklink.yaml in the user's home directory
// 4. config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ApplyFile copies every setting present in cf onto c and keeps cf for
// per-site lookups.
func (c *Config) ApplyFile(cf *File) {
	if cf == nil {
		return
	}

	setString(&c.RulesFile, cf.Rules)
	setString(&c.URLsFile, cf.URLs)
	setString(&c.ReportFile, cf.Output)
	setString(&c.Format, cf.Format)
	setString(&c.Proxy, cf.Proxy)
	setString(&c.Charset, cf.Charset)
	setString(&c.LogFormat, cf.LogFormat)
	setValue(&c.Concurrency, cf.Concurrency)
	setValue(&c.MaxDepth, cf.MaxDepth)
	setValue(&c.ConnectTimeout, cf.ConnectTimeout)
	setValue(&c.ReadTimeout, cf.ReadTimeout)
	setValue(&c.Retries, cf.Retries)
	setValue(&c.Backoff, cf.Backoff)
	setValue(&c.MaxBodySize, cf.MaxBodySize)
	setValue(&c.RateLimit, cf.Rate)
	setValue(&c.VerifyTLS, cf.VerifyTLS)
	if len(cf.Profiles) > 0 {
		c.Profiles = slices.Clone(cf.Profiles)
	}

	c.Sites = cf
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
