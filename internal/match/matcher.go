package match

import (
	"regexp"
	"sort"
	"strings"

	"gatehouse/internal/geocoder"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
)

// housePrefixPattern requires a house-number-like prefix: digits, then
// whitespace, then a word.
var housePrefixPattern = regexp.MustCompile(`^\d+\s+\w+`)

const (
	maxSuggestions = 5

	// Short inputs need a higher token match to pass; the 10-char boundary
	// and both thresholds are tuned values and must not drift.
	shortInputLength   = 10
	shortMatchRequired = 0.6
	longMatchRequired  = 0.4

	tokenCoverageRequired = 0.7
	tokenCoverageFloor    = 2
)

// Matcher reconciles free-text address input against geocoder candidates.
type Matcher struct {
	log logger.Logger
}

func NewMatcher() *Matcher {
	return &Matcher{log: logger.New("match")}
}

// Validate reports whether input plausibly names a real-world address given
// the geocoder candidates. fromSuggestion marks input the member picked from
// the autocomplete list, which bypasses the structural checks and the final
// candidate requirement.
func (m *Matcher) Validate(input string, candidates []geocoder.Result, fromSuggestion bool) bool {
	log := m.log.Function("Validate")

	input = strings.TrimSpace(input)
	if len(input) < 5 {
		return false
	}

	if !fromSuggestion && !housePrefixPattern.MatchString(input) {
		return false
	}

	parts := meaningfulParts(input)
	if !fromSuggestion && len(parts) < 2 {
		return false
	}

	for _, candidate := range candidates {
		if !hasUsableComponents(candidate) {
			continue
		}
		if m.candidateMatches(input, parts, candidate) {
			log.Debug("candidate matched", "input", input, "candidate", candidate.DisplayName)
			return true
		}
	}

	return fromSuggestion
}

// meaningfulParts splits on whitespace and commas and keeps parts longer
// than one character.
func meaningfulParts(input string) []string {
	raw := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if len(p) > 1 {
			parts = append(parts, p)
		}
	}
	return parts
}

// hasUsableComponents gates candidates on either (road AND (city OR state))
// or a house number.
func hasUsableComponents(candidate geocoder.Result) bool {
	addr := candidate.Address
	if addr.Road != "" && (addr.CityLike() != "" || addr.State != "") {
		return true
	}
	return addr.HouseNumber != ""
}

func (m *Matcher) candidateMatches(input string, parts []string, candidate geocoder.Result) bool {
	normalizedInput := strings.ToLower(input)
	normalizedCandidate := candidate.Normalized()
	candidateText := normalizedCandidate + " " + strings.ToLower(candidate.DisplayName)

	if strings.Contains(candidateText, normalizedInput) ||
		strings.Contains(normalizedInput, normalizedCandidate) {
		return true
	}

	required := longMatchRequired
	if len(input) < shortInputLength {
		required = shortMatchRequired
	}
	if TokenMatchPercentage(parts, candidateText) >= required {
		return true
	}

	threshold := min(5, len(input)/3)
	if LevenshteinDistance(normalizedInput, normalizedCandidate) <= threshold {
		return true
	}

	return tokenCoverageMatches(normalizedInput, candidateText)
}

// tokenCoverageMatches accepts when enough of the longer input tokens show
// up in the candidate text: at least 70% of tokens longer than two
// characters, and never fewer than two.
func tokenCoverageMatches(normalizedInput, candidateText string) bool {
	var tokens []string
	for _, t := range strings.FieldsFunc(normalizedInput, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}

	if len(tokens) == 0 {
		return false
	}

	matched := 0
	for _, t := range tokens {
		if strings.Contains(candidateText, t) {
			matched++
		}
	}

	if matched < tokenCoverageFloor {
		return false
	}
	return float64(matched) >= tokenCoverageRequired*float64(len(tokens))
}

// RankSuggestions maps raw geocoder results to autocomplete suggestions
// ordered by structural completeness, keeping the top five.
func (m *Matcher) RankSuggestions(results []geocoder.Result) []AddressSuggestion {
	suggestions := make([]AddressSuggestion, 0, len(results))

	for _, result := range results {
		addr := result.Address
		city := addr.CityLike()

		street := addr.Road
		if addr.HouseNumber != "" && street != "" {
			street = addr.HouseNumber + " " + street
		}

		if street == "" && city == "" && addr.State == "" {
			continue
		}

		quality := 0
		for _, component := range []string{addr.Road, addr.HouseNumber, city, addr.State, addr.Postcode} {
			if component != "" {
				quality++
			}
		}

		suggestions = append(suggestions, AddressSuggestion{
			FullAddress: result.DisplayName,
			Street:      street,
			City:        city,
			State:       addr.State,
			ZipCode:     addr.Postcode,
			Quality:     quality,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Quality > suggestions[j].Quality
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}
