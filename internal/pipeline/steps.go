package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/nao1215/darklink/internal/decode"
	"github.com/nao1215/darklink/internal/extract"
	"github.com/nao1215/darklink/internal/model"
	"github.com/nao1215/darklink/internal/rule"
)

// Step names.
const (
	StepDecode     = "decode"
	StepExtract    = "extract"
	StepMatch      = "match"
	StepHiddenLink = "hidden_link"
)

// ErrNoRules is returned by a MatchStep built without a rule set.
var ErrNoRules = errors.New("match step has no rule set")

// DecodeStep fills page.Decoded by deep-decoding the body.
type DecodeStep struct {
	maxDepth int
}

// NewDecodeStep creates a DecodeStep running at most maxDepth rounds.
func NewDecodeStep(maxDepth int) *DecodeStep {
	return &DecodeStep{maxDepth: maxDepth}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return StepDecode
}

// Do decodes page.Body.
func (s *DecodeStep) Do(_ context.Context, page *model.Page) error {
	page.Decoded = decode.Deep(page.Body, s.maxDepth)
	return nil
}

// ExtractStep builds page.ScanText from the decoded body.
type ExtractStep struct{}

// NewExtractStep creates an ExtractStep.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return StepExtract
}

// Do extracts text from page.Decoded.
func (s *ExtractStep) Do(_ context.Context, page *model.Page) error {
	page.ScanText = extract.CombinedText(page.Decoded)
	return nil
}

// MatchStep matches the rule set against page.ScanText.
type MatchStep struct {
	rules *rule.Set
}

// NewMatchStep creates a MatchStep for rules.
func NewMatchStep(rules *rule.Set) *MatchStep {
	return &MatchStep{rules: rules}
}

// Name returns the step name.
func (s *MatchStep) Name() string {
	return StepMatch
}

// Do sets page.Matches.
func (s *MatchStep) Do(_ context.Context, page *model.Page) error {
	if s.rules == nil {
		return ErrNoRules
	}
	page.Matches = s.rules.Match(page.ScanText)
	return nil
}

// HiddenLinkStep records anchors that the served markup hides from visitors.
type HiddenLinkStep struct{}

// NewHiddenLinkStep creates a HiddenLinkStep.
func NewHiddenLinkStep() *HiddenLinkStep {
	return &HiddenLinkStep{}
}

// Name returns the step name.
func (s *HiddenLinkStep) Name() string {
	return StepHiddenLink
}

// Do sets page.HiddenLinks from page.Body. Decoded text is not searched:
// the base64 pass rewrites attribute names such as href.
func (s *HiddenLinkStep) Do(ctx context.Context, page *model.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.Contains(page.Body, "<a") && !strings.Contains(page.Body, "<A") {
		page.HiddenLinks = nil
		return nil
	}
	page.HiddenLinks = extract.HiddenLinks(page.Body)
	return nil
}

// PageSteps returns the analysis steps in their standard order.
func PageSteps(rules *rule.Set, maxDepth int) []Step {
	return []Step{
		NewDecodeStep(maxDepth),
		NewExtractStep(),
		NewMatchStep(rules),
		NewHiddenLinkStep(),
	}
}

// appendUnique appends values not yet in dst, keeping first-seen order.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
