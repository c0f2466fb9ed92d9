package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 greeting performed by CheckProxy.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 greeting bytes.
const (
	socks5Version  = 0x05
	socks5AuthNone = 0x00
	socks5AuthUser = 0x02
	socks5NoAccept = 0xFF
)

// configureProxy points transport at the proxy described by rawURL.
func configureProxy(transport *http.Transport, forward *net.Dialer, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, forward)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		if cd, ok := d.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
}

// CheckProxy verifies that a SOCKS5 proxy is reachable and speaks SOCKS5 by
// performing the method negotiation. HTTP proxies are only checked for
// reachability.
func CheckProxy(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", u.Host)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrProxyTimeout, u.Host)
		}
		return fmt.Errorf("%w: %s", ErrProxyCannotConnect, u.Host)
	}
	defer conn.Close()

	switch u.Scheme {
	case "http", "https":
		return nil
	case "socks5", "socks5h":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyCannotConnect, u.Host)
	}

	greeting := []byte{socks5Version, 0x01, socks5AuthNone}
	if u.User != nil {
		greeting = []byte{socks5Version, 0x02, socks5AuthNone, socks5AuthUser}
	}
	if _, err := conn.Write(greeting); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyCannotConnect, u.Host)
	}

	reply := make([]byte, 2)
	if _, err := io.ReadFull(conn, reply); err != nil {
		if IsTimeout(err) {
			return fmt.Errorf("%w: %s", ErrProxyTimeout, u.Host)
		}
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, u.Host)
	}
	if reply[0] != socks5Version || reply[1] == socks5NoAccept {
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, u.Host)
	}
	return nil
}
