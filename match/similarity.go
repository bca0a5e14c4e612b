package match

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// tokenOverlap is the overlap coefficient of two token sets: the size of the
// intersection divided by the size of the smaller set. It rewards a listing
// name that is a subset of a longer official name ("marina heights" inside
// "marina heights tower 1") without penalizing the extra tokens.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, tok := range a {
		setA[tok] = true
	}
	setB := make(map[string]bool, len(b))
	for _, tok := range b {
		setB[tok] = true
	}

	matched := 0
	for tok := range setB {
		if setA[tok] {
			matched++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(matched) / float64(smaller)
}

// nameSimilarity compares two normalized token slices. It takes the better
// of token-set overlap and Jaro-Winkler similarity of the joined strings, so
// both word-level and character-level agreement count.
func nameSimilarity(queryTokens, candidateTokens []string) float64 {
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	overlap := tokenOverlap(queryTokens, candidateTokens)
	jw := float64(edlib.JaroWinklerSimilarity(
		strings.Join(queryTokens, " "),
		strings.Join(candidateTokens, " "),
	))

	if jw > overlap {
		return jw
	}
	return overlap
}

// sizeCloseness scores how close two sizes are: 1.0 inside the tolerance
// band, decaying linearly to 0 at twice the band. Both values must share a
// unit; the scorer converts dataset square metres to square feet first.
func sizeCloseness(a, b, tolerance float64) float64 {
	if a <= 0 || b <= 0 || tolerance <= 0 {
		return 0
	}

	larger := a
	if b > larger {
		larger = b
	}
	relDiff := (larger - minFloat(a, b)) / larger

	if relDiff <= tolerance {
		return 1
	}
	if relDiff >= 2*tolerance {
		return 0
	}
	return (2*tolerance - relDiff) / tolerance
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
