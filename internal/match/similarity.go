package match

import "strings"

// LevenshteinDistance returns the classic edit distance between a and b,
// with insert, delete, and substitute each costing 1. Callers are expected
// to normalize case and whitespace first.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// TokenMatchPercentage returns the fraction of inputTokens present as
// substrings within any whitespace-delimited lowercase word of
// candidateText. Containment is deliberate: "123" matches "12345".
func TokenMatchPercentage(inputTokens []string, candidateText string) float64 {
	if len(inputTokens) == 0 {
		return 0
	}

	words := strings.Fields(strings.ToLower(candidateText))
	matched := 0

	for _, token := range inputTokens {
		token = strings.ToLower(token)
		for _, word := range words {
			if strings.Contains(word, token) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(inputTokens))
}
