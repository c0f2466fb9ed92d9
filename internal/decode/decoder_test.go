package decode

import (
	"encoding/base64"
	"strings"
	"testing"
)

// TestURL tests percent-decoding.
func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text is unchanged", input: "hello world", want: "hello world"},
		{name: "decodes ascii escapes", input: "%3Ca%20href%3D%22x%22%3E", want: `<a href="x">`},
		{name: "decodes multi-byte utf-8", input: "%E4%BD%A0%E5%A5%BD", want: "你好"},
		{name: "keeps a lone percent sign", input: "100% sure", want: "100% sure"},
		{name: "keeps malformed escapes and decodes valid ones", input: "%zz%41", want: "%zzA"},
		{name: "keeps truncated escape", input: "abc%4", want: "abc%4"},
		{name: "does not turn plus into space", input: "a+b", want: "a+b"},
		{name: "invalid utf-8 becomes replacement character", input: "%FF", want: "\uFFFD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := URL(tt.input); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestHTMLEntity tests HTML entity resolution.
func TestHTMLEntity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "named entities", input: "&lt;a href=&quot;x&quot;&gt;", want: `<a href="x">`},
		{name: "decimal entity", input: "it&#39;s", want: "it's"},
		{name: "hex entity", input: "&#x41;&#X42;", want: "AB"},
		{name: "ampersand", input: "a &amp; b", want: "a & b"},
		{name: "unknown entity is kept", input: "&zzzz;", want: "&zzzz;"},
		{name: "no ampersand", input: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HTMLEntity(tt.input); got != tt.want {
				t.Errorf("HTMLEntity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestHexEscape tests \xHH decoding.
func TestHexEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ascii run", input: `\x68\x65\x6c\x6c\x6f`, want: "hello"},
		{name: "mixed with text", input: `a\x41b`, want: "aAb"},
		{name: "upper case digits", input: `\x4A\x53`, want: "JS"},
		{name: "escapes are decoded one byte at a time", input: `\xe4\xbd\xa0`, want: ""},
		{name: "high bytes between ascii", input: `\x41\xe4\x42`, want: "AB"},
		{name: "invalid hex is kept", input: `\xzz`, want: `\xzz`},
		{name: "single digit is kept", input: `\x4`, want: `\x4`},
		{name: "invalid utf-8 is dropped", input: `a\xffb`, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HexEscape(tt.input); got != tt.want {
				t.Errorf("HexEscape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestBase64 tests base64 run decoding.
func TestBase64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "padded run", input: "aGVsbG8=", want: "hello"},
		{name: "missing padding is added", input: "aGVsbG8", want: "hello"},
		{name: "over-padded run", input: "YWJj==", want: "abc"},
		{name: "padding beyond the run is kept", input: "YWJjZA=====", want: "abcd==="},
		{name: "run inside text", input: `x("Y2FzaW5v")`, want: `x("casino")`},
		{name: "short runs are ignored", input: "a b c", want: "a b c"},
		{name: "undecodable run is kept", input: "abcde", want: "abcde"},
		{name: "three characters are too short", input: "aGk", want: "aGk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Base64(tt.input); got != tt.want {
				t.Errorf("Base64(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("binary output is dropped", func(t *testing.T) {
		t.Parallel()

		encoded := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd})
		if got := Base64(encoded); got != "" {
			t.Errorf("expected invalid utf-8 to be dropped, got %q", got)
		}
	})
}

// TestDecodersAreTotal feeds malformed input to every pass.
func TestDecodersAreTotal(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"%",
		"%%%%",
		"%G1%1",
		`\x`,
		`\x\x\x1`,
		"&#;",
		"&#1114112;",
		"&",
		"====",
		"ab==cd==",
		"A===",
		string([]byte{0xff, 0x00, 0xfe}),
		strings.Repeat("A", 1023),
	}

	for _, input := range inputs {
		for _, p := range Round {
			_ = p.Decode(input)
		}
		_ = Deep(input, DefaultMaxDepth)
	}
}
