// Package fetch retrieves pages over HTTP for the checker.
//
// The Fetcher interface is the seam between the checker and the network;
// tests replace it with an in-memory fake. HTTPFetcher is the production
// implementation: it applies connect and read timeouts, follows redirects,
// retries transient server errors with exponential backoff, converts the
// body to UTF-8 and optionally routes through a SOCKS5 or HTTP proxy with a
// per-host rate limit.
//
// Usage:
//
//	f, err := fetch.NewHTTPFetcher(
//	    fetch.WithConnectTimeout(7*time.Second),
//	    fetch.WithReadTimeout(15*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	resp, err := f.Fetch(ctx, &fetch.Request{
//	    URL:    "https://example.com/",
//	    Header: fetch.ProfileHeaders(model.ProfileDesktop, nil),
//	})
package fetch
