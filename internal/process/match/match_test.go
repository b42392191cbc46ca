package match

import "testing"

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		terms    []string
		expected bool
	}{
		{
			name:     "single term present",
			haystack: "classic porsche meetup",
			terms:    []string{"porsche"},
			expected: true,
		},
		{
			name:     "no term present",
			haystack: "sunset harbor gathering",
			terms:    []string{"porsche", "tesla"},
			expected: false,
		},
		{
			name:     "spaced term needs surrounding spaces",
			haystack: "vintage carpet fair",
			terms:    []string{" car "},
			expected: false,
		},
		{
			name:     "spaced term matches mid-string",
			haystack: "bring a car to the show",
			terms:    []string{" car "},
			expected: true,
		},
		{
			name:     "spaced term misses string edge",
			haystack: "car show downtown",
			terms:    []string{" car "},
			expected: false,
		},
		{
			name:     "empty haystack",
			haystack: "",
			terms:    []string{"truck"},
			expected: false,
		},
		{
			name:     "empty term list",
			haystack: "anything at all",
			terms:    nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAny(tt.haystack, tt.terms); got != tt.expected {
				t.Errorf("ContainsAny() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		terms    []string
		expected int
	}{
		{
			name:     "single occurrence",
			haystack: "the tesla owners club",
			terms:    []string{"tesla"},
			expected: 1,
		},
		{
			name:     "repeated occurrences each count",
			haystack: "truck show with truck rides and a truck parade",
			terms:    []string{"truck"},
			expected: 3,
		},
		{
			name:     "multiple terms sum",
			haystack: "mustang and corvette drivers, mustang parade",
			terms:    []string{"mustang", "vette", "driver"},
			expected: 4,
		},
		{
			name:     "occurrences not distinct terms",
			haystack: "rally rally rally",
			terms:    []string{"rally"},
			expected: 3,
		},
		{
			name:     "nothing matches",
			haystack: "quiet morning walk",
			terms:    []string{"speedway", "garage"},
			expected: 0,
		},
		{
			name:     "empty haystack",
			haystack: "",
			terms:    []string{"fuel"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.haystack, tt.terms); got != tt.expected {
				t.Errorf("Score() = %v, want %v", got, tt.expected)
			}

			// A positive score and a successful match must agree.
			if got, want := ContainsAny(tt.haystack, tt.terms), Score(tt.haystack, tt.terms) > 0; got != want {
				t.Errorf("ContainsAny() = %v, want %v (score agreement)", got, want)
			}
		})
	}
}
