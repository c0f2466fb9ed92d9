package extract

import (
	"regexp"
	"strings"
)

var (
	// invisibleBlock matches script and style elements with their content.
	invisibleBlock = regexp.MustCompile(`(?is)<script.*?>.*?</script>|<style.*?>.*?</style>`)

	// anyTag matches a single markup tag.
	anyTag = regexp.MustCompile(`<[^>]+>`)

	// scriptBody captures the content of each script element.
	scriptBody = regexp.MustCompile(`(?is)<script.*?>(.*?)</script>`)
)

// VisibleText removes script and style blocks and replaces every other tag
// with a single space.
func VisibleText(markup string) string {
	text := invisibleBlock.ReplaceAllString(markup, "")
	return anyTag.ReplaceAllString(text, " ")
}

// ScriptText returns the inner content of every script element joined by
// spaces.
func ScriptText(markup string) string {
	matches := scriptBody.FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return ""
	}
	bodies := make([]string, 0, len(matches))
	for _, m := range matches {
		bodies = append(bodies, m[1])
	}
	return strings.Join(bodies, " ")
}

// CombinedText returns the visible text followed by a space and the script
// content of markup. It never fails; unbalanced markup yields best-effort
// text.
func CombinedText(markup string) string {
	return VisibleText(markup) + " " + ScriptText(markup)
}
