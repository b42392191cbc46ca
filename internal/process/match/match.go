// Package match implements substring term matching over curated term lists.
//
// Callers pass a lowercase haystack; terms are curated lowercase and several
// deliberately carry surrounding spaces (" car ") to approximate word
// boundaries. That costs matches at string edges ("car show" does not contain
// " car ") and is accepted for compatibility with the hand-tuned lists.
package match

import "strings"

// ContainsAny reports whether any term occurs in haystack as a substring.
func ContainsAny(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}

	return false
}

// Score sums the non-overlapping occurrence counts of every term in haystack.
// It counts substring occurrences, not distinct terms, so one term appearing
// three times contributes three.
func Score(haystack string, terms []string) int {
	total := 0
	for _, t := range terms {
		total += strings.Count(haystack, t)
	}

	return total
}
