package extract

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// offscreenThreshold is the magnitude, in any unit, beyond which a negative
// offset is treated as moving content out of view.
const offscreenThreshold = 100

// HiddenLinks returns the href of every anchor that is hidden from visitors,
// either on the anchor itself or on one of its ancestors. Links are
// deduplicated and returned in document order. Markup that cannot be parsed
// yields nil.
func HiddenLinks(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		if a.Parents().AddSelection(a).FilterFunction(isHidden).Length() == 0 {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links
}

// isHidden reports whether a single element hides itself and its subtree.
func isHidden(_ int, s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	style, ok := s.Attr("style")
	if !ok {
		return false
	}
	return hiddenByStyle(parseStyle(style))
}

// parseStyle reads the declarations of an inline style attribute into
// lower-cased property and value pairs, with any !important flag removed.
// Later declarations win, as in CSS.
func parseStyle(style string) map[string]string {
	decls := make(map[string]string)
	p := css.NewParser(parse.NewInputString(style), true)

	// Every call consumes at least one token, so this bounds malformed input.
	for range len(style) + 1 {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			if errors.Is(p.Err(), io.EOF) {
				break
			}
			continue
		}
		if gt != css.DeclarationGrammar {
			continue
		}

		var value strings.Builder
		for _, v := range p.Values() {
			value.Write(v.Data)
		}
		v := strings.ToLower(strings.TrimSpace(value.String()))
		v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
		decls[strings.ToLower(string(data))] = v
	}
	return decls
}

func hiddenByStyle(decls map[string]string) bool {
	if decls["display"] == "none" {
		return true
	}
	if decls["visibility"] == "hidden" {
		return true
	}
	if isZeroLength(decls["font-size"]) {
		return true
	}
	if decls["overflow"] == "hidden" && (isZeroLength(decls["height"]) || isZeroLength(decls["width"])) {
		return true
	}
	for _, prop := range []string{"left", "top", "text-indent"} {
		if n, ok := parseLength(decls[prop]); ok && n <= -offscreenThreshold {
			return true
		}
	}
	return false
}

func isZeroLength(value string) bool {
	n, ok := parseLength(value)
	return ok && n == 0
}

// parseLength reads the numeric part of a CSS length such as "0", "-9999px"
// or "1.5em".
func parseLength(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	end := 0
	for end < len(value) {
		c := value[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(value[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
