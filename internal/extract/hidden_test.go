package extract

import (
	"slices"
	"testing"
)

// TestHiddenLinks tests detection of anchors hidden by markup.
func TestHiddenLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{
			name:   "visible link is ignored",
			markup: `<p><a href="https://ok.example">ok</a></p>`,
			want:   nil,
		},
		{
			name:   "display none on parent",
			markup: `<div style="display: none"><a href="https://spam.example">x</a></div>`,
			want:   []string{"https://spam.example"},
		},
		{
			name:   "visibility hidden on anchor",
			markup: `<a style="VISIBILITY:hidden" href="https://spam.example/a">x</a>`,
			want:   []string{"https://spam.example/a"},
		},
		{
			name:   "zero font size",
			markup: `<span style="font-size:0px"><a href="/casino">x</a></span>`,
			want:   []string{"/casino"},
		},
		{
			name:   "zero height with overflow hidden",
			markup: `<div style="height:0;overflow:hidden"><a href="/h">x</a></div>`,
			want:   []string{"/h"},
		},
		{
			name:   "zero height without overflow hidden",
			markup: `<div style="height:0"><a href="/h">x</a></div>`,
			want:   nil,
		},
		{
			name:   "off-screen position",
			markup: `<div style="position:absolute;left:-9999px"><a href="/off">x</a></div>`,
			want:   []string{"/off"},
		},
		{
			name:   "small negative offset is not hidden",
			markup: `<div style="position:relative;top:-2px"><a href="/nudge">x</a></div>`,
			want:   nil,
		},
		{
			name:   "negative text indent",
			markup: `<p style="text-indent:-5000em"><a href="/indent">x</a></p>`,
			want:   []string{"/indent"},
		},
		{
			name:   "hidden attribute",
			markup: `<section hidden><div><a href="/deep">x</a></div></section>`,
			want:   []string{"/deep"},
		},
		{
			name:   "important flag",
			markup: `<div style="display:none !important"><a href="/imp">x</a></div>`,
			want:   []string{"/imp"},
		},
		{
			name: "deduplicated in document order",
			markup: `<div style="display:none">` +
				`<a href="/b">1</a><a href="/a">2</a><a href="/b">3</a>` +
				`</div><a href="/visible">v</a>`,
			want: []string{"/b", "/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := HiddenLinks(tt.markup)
			if !slices.Equal(got, tt.want) {
				t.Errorf("HiddenLinks() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParseLength tests CSS length parsing.
func TestParseLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  float64
		ok    bool
	}{
		{value: "0", want: 0, ok: true},
		{value: "0px", want: 0, ok: true},
		{value: "-9999px", want: -9999, ok: true},
		{value: "1.5em", want: 1.5, ok: true},
		{value: "auto", ok: false},
		{value: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, ok := parseLength(tt.value)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseLength(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestParseStyle tests inline style declarations.
func TestParseStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  map[string]string
	}{
		{name: "empty", style: "", want: map[string]string{}},
		{
			name:  "case and spacing",
			style: " DISPLAY : NONE ; Left: -9999PX ",
			want:  map[string]string{"display": "none", "left": "-9999px"},
		},
		{
			name:  "important flag",
			style: "visibility:hidden !important",
			want:  map[string]string{"visibility": "hidden"},
		},
		{
			name:  "later declaration wins",
			style: "display:none;display:block",
			want:  map[string]string{"display": "block"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseStyle(tt.style)
			if len(got) != len(tt.want) {
				t.Fatalf("parseStyle(%q) = %v, want %v", tt.style, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseStyle(%q)[%q] = %q, want %q", tt.style, k, got[k], v)
				}
			}
		})
	}
}
