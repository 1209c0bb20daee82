package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyCities(t *testing.T) {
	s := loadTestSnapshot(t,
		"KOHLAPUR-89", "KOLKATA-74", "GREATER NOIDA-62", "GURGAON-9", "CHENNAI-16")

	t.Run("close misspelling matches", func(t *testing.T) {
		matches := s.FuzzyCities("kolhapur")
		require.NotEmpty(t, matches)
		assert.Equal(t, "KOHLAPUR", matches[0].Value)
	})

	t.Run("truncated input matches", func(t *testing.T) {
		matches := s.FuzzyCities("greater noid")
		require.NotEmpty(t, matches)
		assert.Equal(t, "GREATER NOIDA", matches[0].Value)
	})

	t.Run("abbreviated input matches", func(t *testing.T) {
		matches := s.FuzzyCities("klkt")
		require.NotEmpty(t, matches)
		assert.Equal(t, "KOLKATA", matches[0].Value)
	})

	t.Run("garbage input matches nothing", func(t *testing.T) {
		assert.Empty(t, s.FuzzyCities("zzqqxxw"))
	})

	t.Run("empty input matches nothing", func(t *testing.T) {
		assert.Empty(t, s.FuzzyCities("   "))
	})
}

func TestFuzzyWarehouses(t *testing.T) {
	s := loadTestSnapshot(t, "SONIPAT-4", "KOLKATA-74", "KOLKATA-73", "KOLKATA-13")

	matches := s.FuzzyWarehouses("KOLKATA-7")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, WarehouseThreshold)
	}
}

func TestRankCandidates_ThresholdCapAndOrder(t *testing.T) {
	pool := []string{
		"KOLKATA-1", "KOLKATA-2", "KOLKATA-3", "KOLKATA-4",
		"KOLKATA-5", "KOLKATA-6", "KOLKATA-7",
	}

	candidates := rankCandidates("KOLKATA-1", pool, 70)

	assert.LessOrEqual(t, len(candidates), maxCandidates)
	for i, c := range candidates {
		assert.GreaterOrEqual(t, c.Score, 70)
		if i > 0 {
			assert.GreaterOrEqual(t, candidates[i-1].Score, c.Score)
		}
	}
	require.NotEmpty(t, candidates)
	assert.Equal(t, "KOLKATA-1", candidates[0].Value)
	assert.Equal(t, 100, candidates[0].Score)
}

func TestSimilarity(t *testing.T) {
	t.Run("exact match scores 100", func(t *testing.T) {
		assert.Equal(t, 100, similarity("CHENNAI", "CHENNAI"))
	})

	t.Run("containment scores high", func(t *testing.T) {
		assert.GreaterOrEqual(t, similarity("TELL ME ABOUT CHENNAI", "CHENNAI"), 75)
	})

	t.Run("single edit scores high", func(t *testing.T) {
		assert.GreaterOrEqual(t, similarity("KOLHAPUR", "KOHLAPUR"), 70)
	})

	t.Run("subsequence abbreviation clears the city threshold", func(t *testing.T) {
		// Edit distance alone puts "KLKT" at 100*4/7 = 57, below the
		// threshold; the subsequence component must carry it over.
		assert.GreaterOrEqual(t, similarity("KLKT", "KOLKATA"), CityThreshold)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		assert.Less(t, similarity("XYZ", "CHENNAI"), 50)
	})
}
