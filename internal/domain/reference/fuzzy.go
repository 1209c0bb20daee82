package reference

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity thresholds per kind (0-100 scale). Warehouse codes are rigid
// tokens, so a false positive there is costlier than for a city name.
const (
	CityThreshold      = 65
	WarehouseThreshold = 80

	maxCandidates = 5
)

// Candidate is a fuzzy match with its similarity score.
type Candidate struct {
	Value string
	Score int
}

// FuzzyCities returns up to five cities similar to the input, best first.
// Every result scores at least CityThreshold.
func (s *Snapshot) FuzzyCities(input string) []Candidate {
	return rankCandidates(input, s.Cities(), CityThreshold)
}

// FuzzyWarehouses returns up to five warehouse codes similar to the input,
// best first. Every result scores at least WarehouseThreshold.
func (s *Snapshot) FuzzyWarehouses(input string) []Candidate {
	return rankCandidates(input, s.Warehouses(), WarehouseThreshold)
}

func rankCandidates(input string, pool []string, threshold int) []Candidate {
	normalized := normalize(input)
	if normalized == "" {
		return nil
	}

	var candidates []Candidate
	for _, value := range pool {
		if score := similarity(normalized, value); score >= threshold {
			candidates = append(candidates, Candidate{Value: value, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// similarity scores two normalized strings from 0 to 100. Exact matches and
// containment score high; otherwise the score is the better of a normalized
// Levenshtein ratio and a subsequence component for abbreviated input.
func similarity(a, b string) int {
	if a == b {
		return 100
	}

	if strings.Contains(a, b) {
		return 75 + 25*len(b)/len(a)
	}
	if strings.Contains(b, a) {
		return 75 + 25*len(a)/len(b)
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	score := 100 * (maxLen - distance) / maxLen

	// Abbreviated input like "KLKT" for KOLKATA is a subsequence of its
	// target but scores poorly on edit distance. Longer abbreviations score
	// closer to 100.
	if fuzzy.MatchFold(a, b) {
		if sub := 70 + 30*len(a)/len(b); sub > score {
			score = sub
		}
	}

	return score
}
