package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/syoh89/lipcoding-competition/internal/model"
)

// FeedbackRepo provides data access to the feedback table. Rows are
// append-only; there is no update or delete path.
type FeedbackRepo struct{ DB *sql.DB }

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{DB: db} }

// Create records one participant's rating of the other for an accepted
// match. Checks run in a fixed order so the caller always gets the most
// specific error: existence, accepted status, participation, reviewee
// identity, then one-review-per-reviewer. The match row is locked FOR
// UPDATE for the duration so a racing double-submit serializes here; the
// unique index on (match_request_id, reviewer_id) catches anything that
// slips through.
func (r *FeedbackRepo) Create(ctx context.Context, matchRequestID, reviewerID, revieweeID uint64, rating int, comment string) (model.Feedback, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Feedback{}, err
	}
	defer tx.Rollback()

	var m model.MatchRequest
	err = tx.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM match_requests WHERE id=? LIMIT 1 FOR UPDATE",
		matchRequestID).Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Feedback{}, ErrNotFound
	}
	if err != nil {
		return model.Feedback{}, err
	}
	if m.Status != model.StatusAccepted {
		return model.Feedback{}, ErrMatchNotAccepted
	}
	if reviewerID != m.MentorID && reviewerID != m.MenteeID {
		return model.Feedback{}, ErrNotAParticipant
	}
	if revieweeID != m.OtherParty(reviewerID) {
		return model.Feedback{}, ErrRevieweeMismatch
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM feedback WHERE match_request_id=? AND reviewer_id=?)",
		matchRequestID, reviewerID).Scan(&exists)
	if err != nil {
		return model.Feedback{}, err
	}
	if exists {
		return model.Feedback{}, ErrAlreadyReviewed
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO feedback (match_request_id, reviewer_id, reviewee_id, rating, comment) VALUES (?,?,?,?,?)",
		matchRequestID, reviewerID, revieweeID, rating, comment)
	if err != nil {
		if isDupKey(err) {
			return model.Feedback{}, ErrAlreadyReviewed
		}
		return model.Feedback{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Feedback{}, err
	}

	var fb model.Feedback
	err = tx.QueryRowContext(ctx,
		"SELECT id, match_request_id, reviewer_id, reviewee_id, rating, comment, created_at FROM feedback WHERE id=? LIMIT 1",
		id).Scan(&fb.ID, &fb.MatchRequestID, &fb.ReviewerID, &fb.RevieweeID, &fb.Rating, &fb.Comment, &fb.CreatedAt)
	if err != nil {
		return model.Feedback{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Feedback{}, err
	}
	return fb, nil
}

// ReceivedFeedback is a feedback row annotated with who wrote it, for
// display on the reviewee's side.
type ReceivedFeedback struct {
	model.Feedback
	ReviewerName string
	ReviewerRole string
}

// ListReceived returns all feedback written about a user, newest first.
func (r *FeedbackRepo) ListReceived(ctx context.Context, revieweeID uint64) ([]ReceivedFeedback, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT f.id, f.match_request_id, f.reviewer_id, f.reviewee_id, f.rating, f.comment, f.created_at,
		        u.name, u.role
		 FROM feedback f
		 JOIN users u ON u.id = f.reviewer_id
		 WHERE f.reviewee_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`,
		revieweeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReceivedFeedback, 0)
	for rows.Next() {
		var fb ReceivedFeedback
		if err := rows.Scan(&fb.ID, &fb.MatchRequestID, &fb.ReviewerID, &fb.RevieweeID,
			&fb.Rating, &fb.Comment, &fb.CreatedAt, &fb.ReviewerName, &fb.ReviewerRole); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
