package database

import (
	"slices"

	"github.com/nao1215/darklink/internal/model"
)

// Change is how one check of a URL differs from the check before it.
type Change struct {
	// Added are rules matched now but not before.
	Added []string `json:"added,omitempty"`

	// Removed are rules matched before but not now.
	Removed []string `json:"removed,omitempty"`

	// BodyChanged is true when both checks reached the page and no body
	// hash is shared between them.
	BodyChanged bool `json:"body_changed"`

	// Unreachable is true when no profile reached the page in the current
	// check. Rules are not compared then.
	Unreachable bool `json:"unreachable,omitempty"`
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && !c.BodyChanged && !c.Unreachable
}

// Compare returns the change from previous to current. A nil previous
// means current is the first reachable check: all its rules are added.
// Failed checks matched nothing, so they are never compared by rules: a
// failed current yields an Unreachable change and a failed previous yields
// no change.
func Compare(previous, current *model.URLResult) Change {
	var c Change
	if current == nil {
		return c
	}
	if !current.OK() {
		c.Unreachable = true
		return c
	}
	if previous == nil {
		c.Added = slices.Clone(current.MatchedRules)
		return c
	}
	if !previous.OK() {
		return c
	}

	for _, r := range current.MatchedRules {
		if !slices.Contains(previous.MatchedRules, r) {
			c.Added = append(c.Added, r)
		}
	}
	for _, r := range previous.MatchedRules {
		if !slices.Contains(current.MatchedRules, r) {
			c.Removed = append(c.Removed, r)
		}
	}

	prevHashes, curHashes := bodyHashes(previous), bodyHashes(current)
	if len(prevHashes) > 0 && len(curHashes) > 0 {
		c.BodyChanged = !slices.ContainsFunc(curHashes, func(h string) bool {
			return slices.Contains(prevHashes, h)
		})
	}
	return c
}

// Changes compares every record of a newest-first history with the nearest
// older record that reached the page, so an outage in between does not show
// as rules removed and added again. The result is aligned with records.
func Changes(records []URLRecord) []Change {
	out := make([]Change, len(records))
	for i, rec := range records {
		var previous *model.URLResult
		for _, older := range records[i+1:] {
			if older.Result != nil && older.Result.OK() {
				previous = older.Result
				break
			}
		}
		out[i] = Compare(previous, rec.Result)
	}
	return out
}

func bodyHashes(r *model.URLResult) []string {
	var hashes []string
	for _, a := range r.Attempts {
		if a.Succeeded() && a.BodyHash != "" {
			hashes = append(hashes, a.BodyHash)
		}
	}
	return hashes
}
