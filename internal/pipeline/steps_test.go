package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/darklink/internal/model"
	"github.com/nao1215/darklink/internal/rule"
)

func mustRules(t *testing.T, rules ...string) *rule.Set {
	t.Helper()

	s, err := rule.NewSet(rules)
	if err != nil {
		t.Fatalf("rule.NewSet() error = %v", err)
	}
	return s
}

func runSteps(t *testing.T, body string, steps ...Step) *model.Page {
	t.Helper()

	page := model.NewPage("https://example.com/", model.ProfileDesktop, 200, body)
	for _, s := range steps {
		if err := s.Do(context.Background(), page); err != nil {
			t.Fatalf("%s: unexpected error: %v", s.Name(), err)
		}
	}
	return page
}

// TestDecodeStep tests that the decoded body is recorded.
func TestDecodeStep(t *testing.T) {
	t.Parallel()

	page := runSteps(t, "a%20b", NewDecodeStep(3))

	if page.Decoded != "a b" {
		t.Errorf("Decoded = %q, want %q", page.Decoded, "a b")
	}
	if page.Body != "a%20b" {
		t.Errorf("body was modified: %q", page.Body)
	}
}

// TestExtractStep tests scan text construction.
func TestExtractStep(t *testing.T) {
	t.Parallel()

	t.Run("uses body without decode step", func(t *testing.T) {
		t.Parallel()

		page := runSteps(t, "<p>hello</p><script>go()</script>", NewExtractStep())

		if !strings.Contains(page.ScanText, "hello") || !strings.Contains(page.ScanText, "go()") {
			t.Errorf("unexpected scan text %q", page.ScanText)
		}
		if strings.Contains(page.ScanText, "<p>") {
			t.Errorf("expected tags removed, got %q", page.ScanText)
		}
	})

	t.Run("uses the decoded body only", func(t *testing.T) {
		t.Parallel()

		page := runSteps(t, "%3Cb%3Ea-b-c%3C%2Fb%3E", NewDecodeStep(3), NewExtractStep())

		if !strings.Contains(page.ScanText, "a-b-c") {
			t.Errorf("expected decoded text, got %q", page.ScanText)
		}
		if strings.Contains(page.ScanText, "%3C") || strings.Contains(page.ScanText, "<b>") {
			t.Errorf("expected only the decoded text without tags, got %q", page.ScanText)
		}
	})
}

// TestMatchStep tests rule matching on the scan text.
func TestMatchStep(t *testing.T) {
	t.Parallel()

	t.Run("keywords in undecodable runs", func(t *testing.T) {
		t.Parallel()

		rules := mustRules(t, "viagra", "casino", "lottery")
		page := runSteps(t, "<p>Free Viagra100 Casino777</p>", PageSteps(rules, 3)...)

		if want := []string{"viagra", "casino"}; !slices.Equal(page.Matches, want) {
			t.Errorf("Matches = %q, want %q", page.Matches, want)
		}
	})

	t.Run("plain words rewritten by base64 are not matched", func(t *testing.T) {
		t.Parallel()

		rules := mustRules(t, "casino")
		page := runSteps(t, "<p>Free Casino here</p>", PageSteps(rules, 3)...)

		if page.Matches != nil {
			t.Errorf("expected no match on the decoded text %q, got %q", page.Decoded, page.Matches)
		}
	})

	t.Run("base64 keyword in script", func(t *testing.T) {
		t.Parallel()

		rules := mustRules(t, "casino")
		encoded := base64.StdEncoding.EncodeToString([]byte("casino777"))
		page := runSteps(t, `<script>document.write(atob("`+encoded+`"))</script>`, PageSteps(rules, 3)...)

		if !slices.Equal(page.Matches, []string{"casino"}) {
			t.Errorf("expected casino to be found, got %q", page.Matches)
		}
	})

	t.Run("missing rule set", func(t *testing.T) {
		t.Parallel()

		err := NewMatchStep(nil).Do(context.Background(), newTestPage())
		if !errors.Is(err, ErrNoRules) {
			t.Errorf("expected ErrNoRules, got %v", err)
		}
	})
}

// TestHiddenLinkStep tests hidden link detection in the served markup.
func TestHiddenLinkStep(t *testing.T) {
	t.Parallel()

	body := `<div style="display:none"><a href="https://spam.example/1">x</a></div>` +
		`<a href="https://ok.example/">ok</a>`

	page := runSteps(t, body, NewDecodeStep(3), NewHiddenLinkStep())

	want := []string{"https://spam.example/1"}
	if !slices.Equal(page.HiddenLinks, want) {
		t.Errorf("HiddenLinks = %q, want %q", page.HiddenLinks, want)
	}
}

// TestPageSteps tests the standard step order.
func TestPageSteps(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(PageSteps(mustRules(t, "x"), 3)...)

	want := []string{StepDecode, StepExtract, StepMatch, StepHiddenLink}
	if got := p.StepNames(); !slices.Equal(got, want) {
		t.Errorf("StepNames() = %q, want %q", got, want)
	}
}
