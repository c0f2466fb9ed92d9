package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoRulesFile is returned when no rule list path is set.
	ErrNoRulesFile = errors.New("no rules file specified: use --rules")

	// ErrNoURLSource is returned when neither a URL list nor URL arguments
	// are given.
	ErrNoURLSource = errors.New("no URLs specified: provide URLs or use --urls")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxDepth is returned when the decode depth is not positive.
	ErrInvalidMaxDepth = errors.New("invalid decode depth: must be positive")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry count is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidBackoff is returned when the retry backoff is negative.
	ErrInvalidBackoff = errors.New("invalid backoff: must be non-negative")

	// ErrInvalidRateLimit is returned when the rate limit is negative.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrUnknownFormat is returned for an unsupported report format.
	ErrUnknownFormat = errors.New("unknown report format: use xlsx, text, json or markdown")

	// ErrUnknownProfile is returned for a device profile name other than
	// desktop or mobile.
	ErrUnknownProfile = errors.New("unknown device profile: use desktop or mobile")

	// ErrUnknownLogFormat is returned for a log format other than text or json.
	ErrUnknownLogFormat = errors.New("unknown log format: use text or json")
)

// Input source errors. They are fatal before any page is fetched.
var (
	// ErrRulesNotFound is returned when the rule list does not exist.
	ErrRulesNotFound = errors.New("rules file not found")

	// ErrURLsNotFound is returned when the URL list does not exist.
	ErrURLsNotFound = errors.New("URL list not found")

	// ErrNoRules is returned when the rule list holds no rule.
	ErrNoRules = errors.New("rules file contains no rules")

	// ErrNoURLs is returned when the URL list holds no URL.
	ErrNoURLs = errors.New("URL list contains no URLs")

	// ErrNoURLColumn is returned for a CSV URL list without a "url" header.
	ErrNoURLColumn = errors.New("csv URL list must contain a 'url' header column")
)
