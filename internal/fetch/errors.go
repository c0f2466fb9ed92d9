package fetch

import "errors"

var (
	// ErrUnsupportedScheme is returned for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme: expected http or https")

	// ErrUnsupportedProxy is returned when the proxy URL scheme is not one
	// of socks5, socks5h, http or https.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme: expected socks5, socks5h, http or https")

	// ErrUnknownCharset is returned when a forced charset name is not known.
	ErrUnknownCharset = errors.New("unknown charset")

	// ErrTooManyRedirects is returned when a redirect chain exceeds the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy
	// could be established.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyNotSOCKS5 is returned when the proxy does not answer the
	// SOCKS5 greeting.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrProxyTimeout is returned when the proxy check times out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")
)
