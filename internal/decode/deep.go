package decode

// DefaultMaxDepth is the number of rounds Deep runs at most.
const DefaultMaxDepth = 3

// Apply runs one round of every pass in Round over s.
func Apply(s string) string {
	for _, p := range Round {
		s = p.Decode(s)
	}
	return s
}

// Deep applies rounds until a round leaves the text unchanged or maxDepth
// rounds have run, and returns the final text. A maxDepth of zero or less
// returns text unchanged.
func Deep(text string, maxDepth int) string {
	current := text
	for depth := 0; depth < maxDepth; depth++ {
		next := Apply(current)
		if next == current {
			break
		}
		current = next
	}
	return current
}
