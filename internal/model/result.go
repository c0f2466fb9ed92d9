package model

import (
	"time"
)

// Status is the overall outcome of checking one URL.
type Status string

const (
	// StatusSuccess means at least one device profile got an HTTP 200.
	StatusSuccess Status = "success"

	// StatusFailure means every device profile failed.
	StatusFailure Status = "failure"
)

// Attempt records one fetch under one device profile.
type Attempt struct {
	// Profile is the device profile used.
	Profile DeviceProfile `json:"profile"`

	// StatusCode is the HTTP status, or 0 when the request itself failed.
	StatusCode int `json:"status_code,omitempty"`

	// Error describes why the attempt did not succeed.
	Error string `json:"error,omitempty"`

	// BodyHash is the SHA3-256 digest of the response body.
	BodyHash string `json:"body_hash,omitempty"`

	// Duration is how long the fetch took.
	Duration time.Duration `json:"duration"`
}

// Succeeded reports whether the attempt produced a usable page.
func (a Attempt) Succeeded() bool {
	return a.Error == "" && a.StatusCode == 200
}

// URLResult is the merged outcome of all device profile attempts for one URL.
// It is built once by the URL checker and not modified afterwards.
type URLResult struct {
	// URL is the checked URL as given in the input list.
	URL string `json:"url"`

	// Status is success when at least one profile succeeded.
	Status Status `json:"status"`

	// Succeeded lists the profiles that got an HTTP 200, in attempt order.
	Succeeded []DeviceProfile `json:"succeeded,omitempty"`

	// Coverage is the display label derived from Succeeded.
	Coverage Coverage `json:"coverage"`

	// DarkLink is true iff MatchedRules is non-empty.
	DarkLink bool `json:"dark_link"`

	// MatchedRules is the union of rules found across all successful attempts.
	// It is nil when nothing matched.
	MatchedRules []string `json:"matched_rules,omitempty"`

	// HiddenLinks are link targets found inside invisible markup.
	HiddenLinks []string `json:"hidden_links,omitempty"`

	// Error is the last error seen. It is only set when no profile succeeded.
	Error string `json:"error,omitempty"`

	// Attempts holds every fetch attempt in order.
	Attempts []Attempt `json:"attempts,omitempty"`

	// CheckedAt is when the check finished.
	CheckedAt time.Time `json:"checked_at"`
}

// NewURLResult assembles a URLResult from the collected attempt data and
// enforces the relations between its fields.
func NewURLResult(url string, attempts []Attempt, matched, hiddenLinks []string, lastErr string) *URLResult {
	succeeded := make([]DeviceProfile, 0, len(attempts))
	for _, a := range attempts {
		if a.Succeeded() {
			succeeded = append(succeeded, a.Profile)
		}
	}

	r := &URLResult{
		URL:         url,
		Status:      StatusFailure,
		Coverage:    CoverageFor(succeeded),
		HiddenLinks: hiddenLinks,
		Attempts:    attempts,
		CheckedAt:   time.Now(),
	}

	if len(succeeded) > 0 {
		r.Status = StatusSuccess
		r.Succeeded = succeeded
	} else {
		r.Error = lastErr
	}

	if len(matched) > 0 {
		r.MatchedRules = matched
		r.DarkLink = true
	}

	return r
}

// OK reports whether the URL was reached by at least one profile.
func (r *URLResult) OK() bool {
	return r.Status == StatusSuccess
}

// RunSummary aggregates the results of one batch run.
type RunSummary struct {
	// ID is the database identifier, set once the run is stored.
	ID int64 `json:"id,omitempty"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last URL check finished.
	FinishedAt time.Time `json:"finished_at"`

	// Total is the number of URLs checked.
	Total int `json:"total"`

	// Succeeded is the number of URLs reached by at least one profile.
	Succeeded int `json:"succeeded"`

	// Failed is the number of URLs no profile could reach.
	Failed int `json:"failed"`

	// DarkLinks is the number of URLs with at least one matched rule.
	DarkLinks int `json:"dark_links"`

	// Results holds one entry per input URL, in input order.
	Results []*URLResult `json:"results"`
}

// NewRunSummary counts results and returns the summary.
func NewRunSummary(results []*URLResult, startedAt, finishedAt time.Time) *RunSummary {
	s := &RunSummary{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Total:      len(results),
		Results:    results,
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
		if r.DarkLink {
			s.DarkLinks++
		}
	}

	return s
}

// Elapsed returns the wall-clock duration of the run.
func (s *RunSummary) Elapsed() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// DarkLinkResults returns the results that matched at least one rule.
func (s *RunSummary) DarkLinkResults() []*URLResult {
	out := make([]*URLResult, 0, s.DarkLinks)
	for _, r := range s.Results {
		if r != nil && r.DarkLink {
			out = append(out, r)
		}
	}
	return out
}
