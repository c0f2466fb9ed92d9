package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/darklink/internal/model"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "rules file", got: cfg.RulesFile, want: "rules.txt"},
		{name: "urls file", got: cfg.URLsFile, want: "urls.txt"},
		{name: "report file", got: cfg.ReportFile, want: "result.xlsx"},
		{name: "concurrency", got: cfg.Concurrency, want: 10},
		{name: "max depth", got: cfg.MaxDepth, want: 3},
		{name: "connect timeout", got: cfg.ConnectTimeout, want: 7 * time.Second},
		{name: "read timeout", got: cfg.ReadTimeout, want: 15 * time.Second},
		{name: "retries", got: cfg.Retries, want: 3},
		{name: "backoff", got: cfg.Backoff, want: 500 * time.Millisecond},
		{name: "max body size", got: cfg.MaxBodySize, want: int64(5 * 1024 * 1024)},
		{name: "verify tls", got: cfg.VerifyTLS, want: false},
		{name: "save to db", got: cfg.SaveToDB, want: true},
		{name: "report format", got: cfg.ReportFormat(), want: FormatXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "valid", modify: func(_ *Config) {}},
		{name: "missing rules file", modify: func(c *Config) { c.RulesFile = "" }, wantErr: ErrNoRulesFile},
		{name: "no url source", modify: func(c *Config) { c.URLsFile = "" }, wantErr: ErrNoURLSource},
		{name: "positional urls only", modify: func(c *Config) {
			c.URLsFile = ""
			c.URLs = []string{"https://example.com/"}
		}},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "zero depth", modify: func(c *Config) { c.MaxDepth = 0 }, wantErr: ErrInvalidMaxDepth},
		{name: "zero connect timeout", modify: func(c *Config) { c.ConnectTimeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative read timeout", modify: func(c *Config) { c.ReadTimeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "negative retries", modify: func(c *Config) { c.Retries = -1 }, wantErr: ErrInvalidRetries},
		{name: "zero retries", modify: func(c *Config) { c.Retries = 0 }},
		{name: "negative backoff", modify: func(c *Config) { c.Backoff = -1 }, wantErr: ErrInvalidBackoff},
		{name: "negative rate", modify: func(c *Config) { c.RateLimit = -1 }, wantErr: ErrInvalidRateLimit},
		{name: "zero body size", modify: func(c *Config) { c.MaxBodySize = 0 }, wantErr: ErrInvalidMaxBodySize},
		{name: "unknown format", modify: func(c *Config) { c.Format = "pdf" }, wantErr: ErrUnknownFormat},
		{name: "format is case-insensitive", modify: func(c *Config) { c.Format = "JSON" }},
		{name: "unknown profile", modify: func(c *Config) { c.Profiles = []string{"tablet"} }, wantErr: ErrUnknownProfile},
		{name: "mobile only", modify: func(c *Config) { c.Profiles = []string{"Mobile"} }},
		{name: "json logs", modify: func(c *Config) { c.LogFormat = "json" }},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: ErrUnknownLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestDeviceProfiles tests profile selection by name.
func TestDeviceProfiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		names   []string
		want    []model.DeviceProfile
		wantErr error
	}{
		{name: "empty selects all", want: []model.DeviceProfile{model.ProfileDesktop, model.ProfileMobile}},
		{name: "single", names: []string{"mobile"}, want: []model.DeviceProfile{model.ProfileMobile}},
		{
			name:  "fixed order and duplicates",
			names: []string{"mobile", " DESKTOP ", "mobile"},
			want:  []model.DeviceProfile{model.ProfileDesktop, model.ProfileMobile},
		},
		{name: "unknown", names: []string{"desktop", "tv"}, wantErr: ErrUnknownProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Profiles = tt.names
			got, err := cfg.DeviceProfiles()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("DeviceProfiles() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFormatFromPath tests format inference from the report path.
func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"result.xlsx":    FormatXLSX,
		"REPORT.XLSX":    FormatXLSX,
		"out.json":       FormatJSON,
		"out.md":         FormatMarkdown,
		"out.markdown":   FormatMarkdown,
		"out.txt":        FormatText,
		"-":              FormatText,
		"no-extension":   FormatText,
		"dir/nested.csv": FormatText,
	}

	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

// TestLoadConfigFile tests reading the YAML configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.darklink.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads settings and sites", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".darklink.yaml")
		content := `rules: keywords.txt
concurrency: 4
connectTimeout: 3s
readTimeout: 1m
rate: 2.5
verifyTLS: true
defaults:
  cookie: "default=abc"
sites:
  Example.COM:
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Rules == nil || *cf.Rules != "keywords.txt" {
			t.Errorf("unexpected rules %v", cf.Rules)
		}
		if cf.Concurrency == nil || *cf.Concurrency != 4 {
			t.Errorf("unexpected concurrency %v", cf.Concurrency)
		}
		if cf.ConnectTimeout == nil || *cf.ConnectTimeout != 3*time.Second {
			t.Errorf("unexpected connect timeout %v", cf.ConnectTimeout)
		}
		if cf.ReadTimeout == nil || *cf.ReadTimeout != time.Minute {
			t.Errorf("unexpected read timeout %v", cf.ReadTimeout)
		}
		if cf.URLs != nil {
			t.Errorf("expected missing key to stay nil, got %q", *cf.URLs)
		}

		site, ok := cf.Sites["example.com"]
		if !ok {
			t.Fatal("expected site keys to be lower-cased")
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("unexpected headers %v", site.Headers)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".darklink.yaml")
		if err := os.WriteFile(configPath, []byte("concurrency: [1, 2"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected a parse error")
		}
	})
}

// TestApplyFile tests that only keys present in the file override values.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	concurrency := 4
	output := " report.md "
	verify := true
	rate := 1.5

	cfg := NewConfig()
	logFormat := "json"
	cf := &File{
		Concurrency: &concurrency,
		Output:      &output,
		VerifyTLS:   &verify,
		Rate:        &rate,
		Profiles:    []string{"desktop"},
		LogFormat:   &logFormat,
	}
	cfg.ApplyFile(cf)

	if cfg.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.ReportFile != "report.md" {
		t.Errorf("expected trimmed report path, got %q", cfg.ReportFile)
	}
	if cfg.ReportFormat() != FormatMarkdown {
		t.Errorf("expected markdown format, got %q", cfg.ReportFormat())
	}
	if !cfg.VerifyTLS || cfg.RateLimit != 1.5 {
		t.Errorf("unexpected tls/rate: %v %v", cfg.VerifyTLS, cfg.RateLimit)
	}
	if cfg.MaxDepth != DefaultMaxDepth || cfg.RulesFile != DefaultRulesFile {
		t.Error("expected absent keys to keep defaults")
	}
	if !slices.Equal(cfg.Profiles, []string{"desktop"}) || cfg.LogFormat != LogFormatJSON {
		t.Errorf("unexpected profiles/log format: %q %q", cfg.Profiles, cfg.LogFormat)
	}
	if cfg.Sites != cf {
		t.Error("expected site settings to be kept")
	}

	cfg.ApplyFile(nil)
	if cfg.Concurrency != 4 {
		t.Error("nil file must not change the config")
	}
}

// TestFindConfigFile tests explicit path handling.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("rules: r.txt\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for missing explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

// TestXDGDirs checks that directories are namespaced by the app name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{XDGDataDir(), XDGConfigDir()} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %q to end with %q", dir, AppName)
		}
	}
}
