package fetch

import (
	"math/rand/v2"
	"net/http"

	"github.com/nao1215/darklink/internal/model"
)

// Header values sent with every page request.
const (
	headerAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	headerAcceptLanguage = "zh-CN,zh;q=0.9"
	headerConnection     = "keep-alive"
	headerDNT            = "1"
	headerReferer        = "https://www.google.com/"
)

// userAgents holds the user-agent pool of each device profile.
var userAgents = map[model.DeviceProfile][]string{
	model.ProfileDesktop: {
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	},
	model.ProfileMobile: {
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (Linux; Android 14; SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
		"Mozilla/5.0 (iPad; CPU OS 17_1_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	},
}

// UserAgents returns a copy of the user-agent pool for profile.
func UserAgents(profile model.DeviceProfile) []string {
	pool := userAgents[profile]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// ProfileHeaders builds the request headers for profile with a user agent
// picked from the profile's pool. pick returns an index in [0, n); nil picks
// uniformly at random.
func ProfileHeaders(profile model.DeviceProfile, pick func(n int) int) http.Header {
	if pick == nil {
		pick = rand.IntN
	}

	h := make(http.Header)
	if pool := userAgents[profile]; len(pool) > 0 {
		h.Set("User-Agent", pool[pick(len(pool))])
	}
	h.Set("Accept", headerAccept)
	h.Set("Accept-Language", headerAcceptLanguage)
	h.Set("Connection", headerConnection)
	h.Set("DNT", headerDNT)
	h.Set("Referer", headerReferer)
	return h
}
