package fetch

import (
	"context"
	"net/http"
)

// Request describes a single page retrieval.
type Request struct {
	// URL is the absolute http or https URL to fetch.
	URL string

	// Header is sent with the request. It may be nil.
	Header http.Header
}

// Response is the outcome of a completed HTTP exchange. A non-200 status is
// still a Response, not an error.
type Response struct {
	// StatusCode is the status of the final response after redirects.
	StatusCode int

	// Body is the response body converted to UTF-8.
	Body string

	// FinalURL is the URL that produced the response, after redirects.
	FinalURL string

	// ContentType is the Content-Type header of the response.
	ContentType string
}

// Fetcher retrieves a page. Implementations must be safe for concurrent use.
// An error means no HTTP response was obtained (DNS, connect, TLS, timeout,
// too many redirects or cancellation).
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req *Request) (*Response, error)

// Fetch calls f(ctx, req).
func (f FetcherFunc) Fetch(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
