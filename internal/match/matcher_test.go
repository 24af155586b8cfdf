package match

import (
	"testing"

	"gatehouse/internal/geocoder"

	"github.com/stretchr/testify/assert"
)

func mainStreetCandidate() geocoder.Result {
	return geocoder.Result{
		DisplayName: "123, Main St, Pharr, Texas, 78577, United States",
		Address: geocoder.Components{
			HouseNumber: "123",
			Road:        "Main St",
			City:        "Pharr",
			State:       "Texas",
		},
	}
}

func TestMatcher_Validate(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		input          string
		candidates     []geocoder.Result
		fromSuggestion bool
		expected       bool
	}{
		{
			name:       "matching candidate passes",
			input:      "123 Main St",
			candidates: []geocoder.Result{mainStreetCandidate()},
			expected:   true,
		},
		{
			name:       "input shorter than five characters",
			input:      "12 A",
			candidates: []geocoder.Result{mainStreetCandidate()},
			expected:   false,
		},
		{
			name:           "short input rejected even from suggestion",
			input:          "12 A",
			candidates:     nil,
			fromSuggestion: true,
			expected:       false,
		},
		{
			name:       "missing house number prefix",
			input:      "Main Street Pharr",
			candidates: []geocoder.Result{mainStreetCandidate()},
			expected:   false,
		},
		{
			name:           "missing prefix bypassed when selected from suggestions",
			input:          "Main St, Pharr, Texas",
			candidates:     []geocoder.Result{mainStreetCandidate()},
			fromSuggestion: true,
			expected:       true,
		},
		{
			name:       "single meaningful part",
			input:      "123 M",
			candidates: []geocoder.Result{mainStreetCandidate()},
			expected:   false,
		},
		{
			name:       "no candidates",
			input:      "123 Main St",
			candidates: nil,
			expected:   false,
		},
		{
			name:           "no candidates but selected from suggestions",
			input:          "123 Main St, Pharr, Texas",
			candidates:     nil,
			fromSuggestion: true,
			expected:       true,
		},
		{
			name:  "candidate without usable components is skipped",
			input: "123 Main St",
			candidates: []geocoder.Result{
				{
					DisplayName: "Texas, United States",
					Address:     geocoder.Components{State: "Texas"},
				},
			},
			expected: false,
		},
		{
			name:  "house number only candidate is usable",
			input: "123 Main St",
			candidates: []geocoder.Result{
				{
					DisplayName: "123 Main Street",
					Address:     geocoder.Components{HouseNumber: "123"},
				},
			},
			expected: true,
		},
		{
			name:  "unrelated candidate fails",
			input: "999 Oak Grove Blvd",
			candidates: []geocoder.Result{
				{
					DisplayName: "42, Willow Lane, Springfield, Illinois",
					Address: geocoder.Components{
						HouseNumber: "42",
						Road:        "Willow Lane",
						City:        "Springfield",
						State:       "Illinois",
					},
				},
			},
			expected: false,
		},
		{
			name:  "token overlap accepts reordered long input",
			input: "456 Harlingen Sunset Boulevard",
			candidates: []geocoder.Result{
				{
					DisplayName: "Sunset Boulevard, Harlingen, Texas, United States",
					Address: geocoder.Components{
						HouseNumber: "456",
						Road:        "Sunset Boulevard",
						City:        "Harlingen",
						State:       "Texas",
					},
				},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Validate(tt.input, tt.candidates, tt.fromSuggestion)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Selecting a suggestion and validating its exact text must always pass.
func TestMatcher_SuggestionRoundTrip(t *testing.T) {
	matcher := NewMatcher()

	suggestions := matcher.RankSuggestions([]geocoder.Result{mainStreetCandidate()})
	assert.NotEmpty(t, suggestions)

	for _, s := range suggestions {
		assert.True(t, matcher.Validate(s.FullAddress, nil, true))
	}
}

func TestMatcher_RankSuggestions(t *testing.T) {
	matcher := NewMatcher()

	t.Run("quality counts present components", func(t *testing.T) {
		suggestions := matcher.RankSuggestions([]geocoder.Result{mainStreetCandidate()})
		assert.Len(t, suggestions, 1)
		assert.Equal(t, 4, suggestions[0].Quality)
		assert.Equal(t, "123 Main St", suggestions[0].Street)
		assert.Equal(t, "Pharr", suggestions[0].City)
		assert.Equal(t, "Texas", suggestions[0].State)
	})

	t.Run("entries missing street and locality are dropped", func(t *testing.T) {
		suggestions := matcher.RankSuggestions([]geocoder.Result{
			{DisplayName: "78577, United States", Address: geocoder.Components{Postcode: "78577"}},
		})
		assert.Empty(t, suggestions)
	})

	t.Run("sorted descending by quality and capped at five", func(t *testing.T) {
		results := []geocoder.Result{
			{DisplayName: "road only", Address: geocoder.Components{Road: "Main St", State: "Texas"}},
			mainStreetCandidate(),
			{
				DisplayName: "full",
				Address: geocoder.Components{
					HouseNumber: "1",
					Road:        "Elm St",
					City:        "Pharr",
					State:       "Texas",
					Postcode:    "78577",
				},
			},
			{DisplayName: "city only", Address: geocoder.Components{City: "Pharr"}},
			{DisplayName: "town", Address: geocoder.Components{Road: "Oak St", Town: "Alamo"}},
			{DisplayName: "village", Address: geocoder.Components{Road: "Pine St", Village: "Edcouch"}},
			{DisplayName: "state only", Address: geocoder.Components{State: "Texas"}},
		}

		suggestions := matcher.RankSuggestions(results)
		assert.Len(t, suggestions, 5)
		assert.Equal(t, 5, suggestions[0].Quality)
		for i := 1; i < len(suggestions); i++ {
			assert.GreaterOrEqual(t, suggestions[i-1].Quality, suggestions[i].Quality)
		}
	})

	t.Run("town and village fill the city slot", func(t *testing.T) {
		suggestions := matcher.RankSuggestions([]geocoder.Result{
			{DisplayName: "town", Address: geocoder.Components{Road: "Oak St", Town: "Alamo"}},
		})
		assert.Len(t, suggestions, 1)
		assert.Equal(t, "Alamo", suggestions[0].City)
	})
}
