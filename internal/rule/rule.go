package rule

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyRuleSet is returned when no usable rule remains after trimming.
var ErrEmptyRuleSet = errors.New("rule set is empty")

// Set is an immutable, ordered collection of keyword rules. A Set is safe
// for concurrent use by multiple goroutines.
type Set struct {
	rules    []string
	patterns []*regexp.Regexp
}

// NewSet builds a Set from raw rule lines. Lines are trimmed; empty lines and
// duplicates are dropped while the first occurrence keeps its position.
// Each rule is a literal: characters such as '.' or '*' carry no pattern
// meaning.
func NewSet(rules []string) (*Set, error) {
	s := &Set{}
	seen := make(map[string]struct{}, len(rules))

	for _, r := range rules {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		s.rules = append(s.rules, r)
		s.patterns = append(s.patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(r)))
	}

	if len(s.rules) == 0 {
		return nil, ErrEmptyRuleSet
	}
	return s, nil
}

// Len returns the number of rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in load order.
func (s *Set) Rules() []string {
	out := make([]string, len(s.rules))
	copy(out, s.rules)
	return out
}

// Match returns every rule that occurs in text, case-insensitively, in load
// order. It returns nil when nothing matches.
func (s *Set) Match(text string) []string {
	var matched []string
	for i, p := range s.patterns {
		if p.MatchString(text) {
			matched = append(matched, s.rules[i])
		}
	}
	return matched
}
