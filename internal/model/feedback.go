package model

import "time"

// Rating bounds and the maximum accepted comment length for feedback.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Feedback is one participant's one-time rating of the other after an
// accepted match, mirroring the `feedback` table.  Rows are immutable:
// there is no update or delete path, and the schema enforces at most one
// row per (match_request_id, reviewer_id).
type Feedback struct {
	ID             uint64    // feedback.id
	MatchRequestID uint64    // feedback.match_request_id
	ReviewerID     uint64    // feedback.reviewer_id
	RevieweeID     uint64    // feedback.reviewee_id
	Rating         int       // feedback.rating (1..5)
	Comment        string    // feedback.comment (nullable, capped at 1000 chars)
	CreatedAt      time.Time // feedback.created_at
}
