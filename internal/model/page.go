package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Page holds one successful response and everything derived from it while it
// moves through the analysis pipeline. A Page belongs to the single URL check
// that fetched it and is dropped once its matches are merged.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after redirects.
	FinalURL string

	// Profile is the device profile used for the request.
	Profile DeviceProfile

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the response body converted to UTF-8.
	Body string

	// Decoded is the body after deep decoding. NewPage starts it as Body.
	Decoded string

	// ScanText is the text the rules are matched against.
	ScanText string

	// Matches are the rules found in ScanText, in rule order.
	Matches []string

	// HiddenLinks are link targets placed inside invisible markup.
	HiddenLinks []string

	// Performed lists the pipeline steps that ran, in order.
	Performed []string

	// StepErrors holds the errors of steps that failed.
	StepErrors []error
}

// NewPage creates a Page for a fetched response.
func NewPage(url string, profile DeviceProfile, statusCode int, body string) *Page {
	return &Page{
		URL:        url,
		FinalURL:   url,
		Profile:    profile,
		StatusCode: statusCode,
		Body:       body,
		Decoded:    body,
	}
}

// HashBody returns the hex SHA3-256 digest of body, or "" for an empty body.
func HashBody(body string) string {
	if body == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
