// Package rating computes review statistics over already-fetched reviews.
// Every function is pure and safe for concurrent use.
package rating

import (
	"sort"

	"github.com/utafrali/StallReview/internal/domain"
)

const (
	// MinReviewsForRanking is the number of reviews a stall needs before it
	// can appear in the ranking.
	MinReviewsForRanking = 3
	// RankingSize is the number of stalls the ranking returns.
	RankingSize = 3
)

// StallScore is the mean rating of one stall.
type StallScore struct {
	StallID     int64
	Mean        float64
	ReviewCount int
}

// TopStalls ranks stalls by mean rating, highest first. Stalls with fewer than
// minReviews reviews are left out entirely. Equal means keep the order in
// which each stall first appears in reviews. At most limit scores are
// returned; a non-positive limit returns none.
func TopStalls(reviews []domain.Review, minReviews, limit int) []StallScore {
	if limit <= 0 {
		return []StallScore{}
	}

	type tally struct {
		sum   int
		count int
	}
	var order []int64
	tallies := make(map[int64]*tally)
	for _, r := range reviews {
		t, ok := tallies[r.StallID]
		if !ok {
			t = &tally{}
			tallies[r.StallID] = t
			order = append(order, r.StallID)
		}
		t.sum += r.Rating
		t.count++
	}

	scores := make([]StallScore, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		if t.count < minReviews {
			continue
		}
		scores = append(scores, StallScore{
			StallID:     id,
			Mean:        float64(t.sum) / float64(t.count),
			ReviewCount: t.count,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Mean > scores[j].Mean
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// Summarize computes the average, count and star histogram of reviews. With
// no reviews the average is nil rather than a division by zero. Ratings
// outside [1, 5] are not counted.
func Summarize(stallID int64, reviews []domain.Review) domain.RatingSummary {
	summary := domain.RatingSummary{StallID: stallID}

	sum := 0
	for _, r := range reviews {
		if !domain.ValidRating(r.Rating) {
			continue
		}
		summary.RatingDistribution[r.Rating-1]++
		summary.RatingCount++
		sum += r.Rating
	}

	if summary.RatingCount > 0 {
		avg := float64(sum) / float64(summary.RatingCount)
		summary.AverageRating = &avg
	}
	return summary
}
