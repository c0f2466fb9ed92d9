package config

import (
	"net/http"
	"net/url"
	"strings"
)

// SiteConfig holds request settings for one site.
type SiteConfig struct {
	// Cookie is sent with every request to the site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent to the site. They override the
	// device profile headers of the same name.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// GetSiteConfig returns the settings for host merged over the defaults.
// host is matched first with its port, then without it.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := SiteConfig{Cookie: cf.Defaults.Cookie}
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		if h, _, found := strings.Cut(host, ":"); found {
			site, ok = cf.Sites[strings.ToLower(h)]
		}
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	return result
}

// HeadersFor returns the site headers for rawURL, including the cookie, or
// nil when nothing is configured for it.
func (cf *File) HeadersFor(rawURL string) http.Header {
	if cf == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	sc := cf.GetSiteConfig(u.Host)
	if sc.Cookie == "" && len(sc.Headers) == 0 {
		return nil
	}

	h := make(http.Header, len(sc.Headers)+1)
	for k, v := range sc.Headers {
		h.Set(k, v)
	}
	if sc.Cookie != "" {
		h.Set("Cookie", sc.Cookie)
	}
	return h
}
