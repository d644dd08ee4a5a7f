package domain

import "time"

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and comment for a stall.
type Review struct {
	ID        int64     `json:"id"`
	StallID   int64     `json:"stall_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// RatingSummary describes the ratings of one stall. AverageRating is nil when
// the stall has no reviews. RatingDistribution[i] counts reviews rated i+1.
type RatingSummary struct {
	StallID            int64          `json:"stall_id"`
	AverageRating      *float64       `json:"average_rating"`
	RatingCount        int            `json:"rating_count"`
	RatingDistribution [MaxRating]int `json:"rating_distribution"`
}

// Ranking is the body of the top-ranking endpoint.
type Ranking struct {
	Ranking []Stall `json:"ranking"`
}
