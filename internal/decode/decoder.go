package decode

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	// percentRun matches one or more consecutive %HH escapes.
	percentRun = regexp.MustCompile(`(?:%[0-9A-Fa-f]{2})+`)

	// hexEscape matches a single \xHH escape.
	hexEscape = regexp.MustCompile(`\\x[0-9A-Fa-f]{2}`)

	// base64Run matches a run of at least four base64 alphabet characters
	// with up to two padding characters.
	base64Run = regexp.MustCompile(`[A-Za-z0-9+/]{4,}={0,2}`)
)

// Func is a single decoding pass.
type Func func(string) string

// Pass is a named decoding pass.
type Pass struct {
	Name   string
	Decode Func
}

// Round is the fixed order in which passes are applied in one round.
var Round = []Pass{
	{Name: "url", Decode: URL},
	{Name: "html", Decode: HTMLEntity},
	{Name: "hex", Decode: HexEscape},
	{Name: "base64", Decode: Base64},
}

// URL percent-decodes every run of %HH escapes. Invalid UTF-8 in the decoded
// bytes becomes U+FFFD. A '%' that does not start a valid escape is kept, and
// '+' is not treated as a space.
func URL(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	return percentRun.ReplaceAllStringFunc(s, func(run string) string {
		decoded, err := url.PathUnescape(run)
		if err != nil {
			return run
		}
		if utf8.ValidString(decoded) {
			return decoded
		}
		return strings.ToValidUTF8(decoded, "�")
	})
}

// HTMLEntity resolves named and numeric character references such as
// &amp;, &#39; and &#x3C;.
func HTMLEntity(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

// HexEscape replaces every \xHH escape with the byte it encodes. Each escape
// is decoded on its own, so a byte that is not valid UTF-8 by itself (any
// value above 0x7f) is dropped.
func HexEscape(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	return hexEscape.ReplaceAllStringFunc(s, func(esc string) string {
		b, err := hex.DecodeString(esc[2:])
		if err != nil {
			return esc
		}
		return strings.ToValidUTF8(string(b), "")
	})
}

// Base64 decodes every run of base64 alphabet characters that is at least
// four characters long. Trailing '=' are dropped and the data is padded again
// to a multiple of four, so over-padded runs still decode. A run that still
// fails to decode is kept verbatim; bytes that are not valid UTF-8 are dropped
// from a successful decode.
func Base64(s string) string {
	return base64Run.ReplaceAllStringFunc(s, decodeBase64Run)
}

func decodeBase64Run(run string) string {
	data := strings.TrimRight(run, "=")
	if rem := len(data) % 4; rem != 0 {
		data += strings.Repeat("=", 4-rem)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return run
	}
	return strings.ToValidUTF8(string(raw), "")
}
