package search

import (
	"sort"

	"github.com/poiesic/mailsift/core"
)

// Rank filters scored emails by threshold, orders them by score descending
// (ties keep corpus order), caps the result at topK, and attaches score
// categories. TotalFound counts matches above the threshold before the cap
// so callers can see how many matched even when only a subset is returned.
//
// Rank is pure: it never fails, a topK larger than the filtered set simply
// returns everything, and a threshold of 1.0 or above may legitimately
// return zero results.
func Rank(emails []core.Email, scores []float32, threshold float32, topK int) *core.SearchResult {
	kept := make([]core.ScoredEmail, 0, len(emails))
	for i, email := range emails {
		if i >= len(scores) {
			break
		}
		if scores[i] < threshold {
			continue
		}
		kept = append(kept, core.ScoredEmail{
			Email:    email,
			Score:    scores[i],
			Category: core.CategorizeScore(scores[i]),
		})
	}

	// Stable sort keeps corpus order on ties, so identical inputs always
	// produce identical results.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	totalFound := len(kept)
	if topK > 0 && len(kept) > topK {
		kept = kept[:topK]
	}

	return &core.SearchResult{
		Results:       kept,
		TotalFound:    totalFound,
		ThresholdUsed: threshold,
	}
}
