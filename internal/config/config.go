package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/darklink/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "darklink"

	// DefaultConcurrency is the number of URLs checked at the same time.
	DefaultConcurrency = 10

	// DefaultMaxDepth is the number of decode rounds per page.
	DefaultMaxDepth = 3

	// DefaultConnectTimeout bounds TCP connect and TLS handshake.
	DefaultConnectTimeout = 7 * time.Second

	// DefaultReadTimeout bounds the wait for response headers.
	DefaultReadTimeout = 15 * time.Second

	// DefaultRetries is how often a transient server error is retried.
	DefaultRetries = 3

	// DefaultBackoff is the base delay between retries.
	DefaultBackoff = 500 * time.Millisecond

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultRulesFile is the rule list read when none is given.
	DefaultRulesFile = "rules.txt"

	// DefaultURLsFile is the URL list read when none is given.
	DefaultURLsFile = "urls.txt"

	// DefaultReportFile is where the report is written when no path is given.
	DefaultReportFile = "result.xlsx"
)

// Report formats.
const (
	FormatXLSX     = "xlsx"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the supported report formats.
var Formats = []string{FormatXLSX, FormatText, FormatJSON, FormatMarkdown}

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all options of a scan. It is built once before the scan and
// passed down explicitly.
type Config struct {
	// RulesFile is the path of the keyword rule list.
	RulesFile string

	// URLsFile is the path of the URL list. It may be empty when URLs are
	// given on the command line.
	URLsFile string

	// URLs are extra URLs given on the command line. They are checked after
	// the URLs from URLsFile.
	URLs []string

	// ReportFile is the report path. "-" writes to standard output.
	ReportFile string

	// Format is the report format. Empty means: derive it from ReportFile.
	Format string

	// Concurrency is the number of URLs checked at the same time.
	Concurrency int

	// MaxDepth is the number of decode rounds per page.
	MaxDepth int

	// ConnectTimeout bounds TCP connect and TLS handshake.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers.
	ReadTimeout time.Duration

	// Retries is how often a 500/502/503/504 response or transport error is
	// retried.
	Retries int

	// Backoff is the base delay between retries.
	Backoff time.Duration

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// Proxy is an optional socks5://, socks5h://, http:// or https:// proxy.
	Proxy string

	// RateLimit is the maximum number of requests per second to one host.
	// Zero disables the limit.
	RateLimit float64

	// VerifyTLS enables certificate verification.
	VerifyTLS bool

	// Charset forces the page charset instead of detecting it.
	Charset string

	// Profiles names the device profiles to attempt. Empty means all of
	// them.
	Profiles []string

	// LogFormat is the log output format, text or json. Empty means text.
	LogFormat string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit configuration file path.
	ConfigFilePath string

	// Sites holds per-site settings from the configuration file.
	Sites *File

	// DBDir is the directory of the run history database.
	DBDir string

	// SaveToDB stores the run in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		RulesFile:      DefaultRulesFile,
		URLsFile:       DefaultURLsFile,
		ReportFile:     DefaultReportFile,
		Concurrency:    DefaultConcurrency,
		MaxDepth:       DefaultMaxDepth,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		Retries:        DefaultRetries,
		Backoff:        DefaultBackoff,
		MaxBodySize:    DefaultMaxBodySize,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for darklink.
// On Linux: ~/.local/share/darklink
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for darklink.
// On Linux: ~/.config/darklink
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ReportFormat returns Format, or the format implied by the extension of
// ReportFile. Standard output and unknown extensions get the text format.
func (c *Config) ReportFormat() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}
	return FormatFromPath(c.ReportFile)
}

// FormatFromPath maps a report path to a format by its extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.RulesFile == "" {
		return ErrNoRulesFile
	}
	if c.URLsFile == "" && len(c.URLs) == 0 {
		return ErrNoURLSource
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}
	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.Backoff < 0 {
		return ErrInvalidBackoff
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if !isKnownFormat(c.ReportFormat()) {
		return ErrUnknownFormat
	}
	if _, err := c.DeviceProfiles(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", LogFormatText, LogFormatJSON:
	default:
		return ErrUnknownLogFormat
	}
	return nil
}

// DeviceProfiles returns the profiles named by Profiles in the fixed attempt
// order, or every profile when Profiles is empty.
func (c *Config) DeviceProfiles() ([]model.DeviceProfile, error) {
	if len(c.Profiles) == 0 {
		return slices.Clone(model.DefaultProfiles), nil
	}

	selected := make(map[model.DeviceProfile]bool, len(c.Profiles))
	for _, name := range c.Profiles {
		p, ok := model.ParseDeviceProfile(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
		}
		selected[p] = true
	}

	profiles := make([]model.DeviceProfile, 0, len(selected))
	for _, p := range model.DefaultProfiles {
		if selected[p] {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func isKnownFormat(format string) bool {
	return slices.Contains(Formats, format)
}
