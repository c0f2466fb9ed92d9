package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/darklink/internal/decode"
	"github.com/nao1215/darklink/internal/fetch"
	"github.com/nao1215/darklink/internal/model"
	"github.com/nao1215/darklink/internal/rule"
)

// HeaderSource returns extra request headers for a URL, such as a cookie
// configured for its site. It may return nil.
type HeaderSource func(rawURL string) http.Header

// ReachableFunc is called as soon as a profile gets an HTTP 200 for a URL.
// It may be called from several goroutines at once.
type ReachableFunc func(rawURL string, profile model.DeviceProfile)

// Checker checks a single URL under every device profile.
// A Checker is safe for concurrent use.
type Checker struct {
	fetcher     fetch.Fetcher
	rules       *rule.Set
	profiles    []model.DeviceProfile
	siteHeaders HeaderSource
	onReachable ReachableFunc
	pickAgent   func(n int) int
	maxDepth    int
	logger      *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithProfiles overrides the device profiles and their order.
func WithProfiles(profiles ...model.DeviceProfile) CheckerOption {
	return func(c *Checker) {
		if len(profiles) > 0 {
			c.profiles = profiles
		}
	}
}

// WithMaxDepth sets the number of decode rounds. Values below one keep the
// default.
func WithMaxDepth(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithSiteHeaders adds per-site headers on top of the profile headers.
func WithSiteHeaders(source HeaderSource) CheckerOption {
	return func(c *Checker) {
		c.siteHeaders = source
	}
}

// WithReachable sets the hook fired for every successful profile.
func WithReachable(fn ReachableFunc) CheckerOption {
	return func(c *Checker) {
		c.onReachable = fn
	}
}

// WithUserAgentPicker sets how a user agent is chosen from a profile's pool.
func WithUserAgentPicker(pick func(n int) int) CheckerOption {
	return func(c *Checker) {
		c.pickAgent = pick
	}
}

// WithCheckerLogger sets the logger.
func WithCheckerLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker that fetches through fetcher and matches
// rules.
func NewChecker(fetcher fetch.Fetcher, rules *rule.Set, opts ...CheckerOption) *Checker {
	c := &Checker{
		fetcher:  fetcher,
		rules:    rules,
		profiles: model.DefaultProfiles,
		maxDepth: decode.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// newPipeline builds the analysis pipeline for one page.
func (c *Checker) newPipeline() *Pipeline {
	p := New(WithLogger(c.logger), WithContinueOnError(true))
	p.AddSteps(PageSteps(c.rules, c.maxDepth)...)
	return p
}

// Check fetches rawURL once per profile and merges the outcome. It never
// returns nil and never fails: fetch errors and non-200 responses are
// recorded in the result.
func (c *Checker) Check(ctx context.Context, rawURL string) *model.URLResult {
	var (
		attempts = make([]model.Attempt, 0, len(c.profiles))
		matched  = make(map[string]struct{})
		hidden   []string
		lastErr  string
	)

	for _, profile := range c.profiles {
		attempt, page := c.attempt(ctx, rawURL, profile)
		attempts = append(attempts, attempt)

		if !attempt.Succeeded() {
			lastErr = attempt.Error
			c.logger.Debug("profile failed",
				"url", rawURL,
				"profile", profile,
				"error", attempt.Error,
			)
			continue
		}

		if c.onReachable != nil {
			c.onReachable(rawURL, profile)
		}

		if err := c.newPipeline().Execute(ctx, page); err != nil {
			c.logger.Warn("page analysis incomplete",
				"url", rawURL,
				"profile", profile,
				"error", err,
			)
		}

		for _, m := range page.Matches {
			matched[m] = struct{}{}
		}
		hidden = appendUnique(hidden, page.HiddenLinks...)
	}

	return model.NewURLResult(rawURL, attempts, c.inRuleOrder(matched), hidden, lastErr)
}

// attempt performs one fetch. The page is nil unless the attempt succeeded.
func (c *Checker) attempt(ctx context.Context, rawURL string, profile model.DeviceProfile) (model.Attempt, *model.Page) {
	attempt := model.Attempt{Profile: profile}

	header := fetch.ProfileHeaders(profile, c.pickAgent)
	if c.siteHeaders != nil {
		for key, values := range c.siteHeaders(rawURL) {
			header[http.CanonicalHeaderKey(key)] = values
		}
	}

	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, &fetch.Request{URL: rawURL, Header: header})
	attempt.Duration = time.Since(start)

	if err != nil {
		attempt.Error = err.Error()
		return attempt, nil
	}

	attempt.StatusCode = resp.StatusCode
	attempt.BodyHash = model.HashBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		attempt.Error = fmt.Sprintf("status code %d", resp.StatusCode)
		return attempt, nil
	}

	page := model.NewPage(rawURL, profile, resp.StatusCode, resp.Body)
	if resp.FinalURL != "" {
		page.FinalURL = resp.FinalURL
	}
	return attempt, page
}

// inRuleOrder returns the matched rules in rule-load order, or nil.
func (c *Checker) inRuleOrder(matched map[string]struct{}) []string {
	if len(matched) == 0 || c.rules == nil {
		return nil
	}
	var ordered []string
	for _, r := range c.rules.Rules() {
		if _, ok := matched[r]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered
}
