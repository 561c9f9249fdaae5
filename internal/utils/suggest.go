package utils

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a suggestion may be from the requested value
const maxSuggestDistance = 2

// SuggestContainer returns the available container closest to want, or "" when
// nothing is close enough. Ties go to the first candidate in available.
func SuggestContainer(want string, available []string) string {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return ""
	}

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, candidate := range available {
		lower := strings.ToLower(candidate)
		if lower == want {
			// Same spelling but different case, the closest possible hint
			return candidate
		}
		distance := levenshtein.ComputeDistance(want, lower)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}
