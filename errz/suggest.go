package errz

import (
	"sort"
	"strings"
)

// Suggest returns up to three candidates close to target by edit distance,
// nearest first. Short targets only match candidates one edit away.
func Suggest(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	target = strings.ToUpper(target)
	limit := 3
	switch {
	case len(target) <= 3:
		limit = 1
	case len(target) <= 5:
		limit = 2
	}

	type match struct {
		value string
		dist  int
	}
	var matches []match
	for _, c := range candidates {
		upper := strings.ToUpper(c)
		if c == "" || upper == target {
			continue
		}
		if d := editDistance(target, upper); d <= limit {
			matches = append(matches, match{c, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].value < matches[j].value
	})
	if len(matches) > 3 {
		matches = matches[:3]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

// DidYouMean renders suggestions as a hint, or "" when there are none.
func DidYouMean(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean " + suggestions[0] + "?"
	}
	return "did you mean one of " + strings.Join(suggestions, ", ") + "?"
}

// editDistance is the Levenshtein distance over bytes, kept to two rows.
func editDistance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
