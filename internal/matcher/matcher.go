// Package matcher compares user-supplied answers against expected answers.
// Free-text answers tolerate small typos via edit distance; numeric answers
// require an exact digit match. All comparisons are pure functions over
// normalized strings.
package matcher

import "strings"

// Normalize lowercases the string, trims surrounding whitespace and
// collapses internal whitespace runs to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsCorrect reports whether userAnswer matches expected. An empty
// normalized answer is never correct and an exact normalized match is
// always correct. Beyond that, numeric mode requires equality after
// stripping all whitespace, while text mode tolerates an edit distance of
// up to max(1, floor(0.2 * character length of expected)) over the
// normalized strings.
func IsCorrect(userAnswer, expected string, numeric bool) bool {
	normUser := Normalize(userAnswer)
	normExpected := Normalize(expected)

	if normUser == "" {
		return false
	}
	if normUser == normExpected {
		return true
	}

	if numeric {
		return stripSpaces(normUser) == stripSpaces(normExpected)
	}

	// Threshold counts characters, not bytes; accented expecteds would
	// otherwise get a wider tolerance than their visible length earns.
	maxDistance := len([]rune(normExpected)) / 5
	if maxDistance < 1 {
		maxDistance = 1
	}
	return Distance(normUser, normExpected) <= maxDistance
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Distance returns the Levenshtein edit distance between a and b:
// the minimum number of unit-cost single-character insertions, deletions
// and substitutions transforming one into the other. It keeps only two
// rows of the dynamic-programming table, so space is O(min(len a, len b)).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j-1]+cost, // substitution
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
