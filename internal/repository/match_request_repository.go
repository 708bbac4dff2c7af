package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/syoh89/lipcoding-competition/internal/model"
)

// MatchRequestRepo provides data access to the match_requests table and
// enforces the request lifecycle: a single pending request per mentee,
// and one-shot transitions out of pending.
type MatchRequestRepo struct{ DB *sql.DB }

func NewMatchRequestRepo(db *sql.DB) *MatchRequestRepo { return &MatchRequestRepo{DB: db} }

const matchColumns = "id,mentor_id,mentee_id,message,status,created_at,updated_at"

// Create inserts a new pending request from mentee to mentor inside a
// transaction. The mentee's existing pending request (if any) is read
// FOR UPDATE so two concurrent creates serialize on it; the partial
// unique index on (pending) mentee_id is the backstop for the window
// where neither transaction sees the other's insert.
func (r *MatchRequestRepo) Create(ctx context.Context, mentorID, menteeID uint64, message string) (model.MatchRequest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.MatchRequest{}, err
	}
	defer tx.Rollback()

	var role string
	err = tx.QueryRowContext(ctx, "SELECT role FROM users WHERE id=? LIMIT 1", mentorID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && role != model.RoleMentor) {
		return model.MatchRequest{}, ErrMentorNotFound
	}
	if err != nil {
		return model.MatchRequest{}, err
	}

	var pendingMentor uint64
	err = tx.QueryRowContext(ctx,
		"SELECT mentor_id FROM match_requests WHERE mentee_id=? AND status='pending' LIMIT 1 FOR UPDATE",
		menteeID).Scan(&pendingMentor)
	switch {
	case err == nil:
		if pendingMentor == mentorID {
			return model.MatchRequest{}, ErrDuplicatePendingForPair
		}
		return model.MatchRequest{}, ErrDuplicatePendingForMentee
	case !errors.Is(err, sql.ErrNoRows):
		return model.MatchRequest{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO match_requests (mentor_id, mentee_id, message, status) VALUES (?,?,?,'pending')",
		mentorID, menteeID, message)
	if err != nil {
		if isDupKey(err) {
			// Lost the race against a concurrent create by the same mentee.
			return model.MatchRequest{}, ErrDuplicatePendingForMentee
		}
		return model.MatchRequest{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MatchRequest{}, err
	}

	m, err := scanMatch(tx.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM match_requests WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.MatchRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.MatchRequest{}, err
	}
	return m, nil
}

// Accept moves a pending request to accepted. Only the targeted mentor
// may accept.
func (r *MatchRequestRepo) Accept(ctx context.Context, id, mentorID uint64) (model.MatchRequest, error) {
	return r.transition(ctx, id, model.StatusAccepted, "mentor_id", mentorID)
}

// Reject moves a pending request to rejected. Only the targeted mentor
// may reject.
func (r *MatchRequestRepo) Reject(ctx context.Context, id, mentorID uint64) (model.MatchRequest, error) {
	return r.transition(ctx, id, model.StatusRejected, "mentor_id", mentorID)
}

// Cancel moves a pending request to cancelled. Only the owning mentee
// may cancel, and only while the request is still pending.
func (r *MatchRequestRepo) Cancel(ctx context.Context, id, menteeID uint64) (model.MatchRequest, error) {
	return r.transition(ctx, id, model.StatusCancelled, "mentee_id", menteeID)
}

// transition performs a compare-and-set against the pending status: the
// UPDATE only matches if the row still belongs to the caller and is
// pending, so of two racing transitions exactly one wins and the loser's
// statement affects zero rows. The loser then re-reads the row purely to
// pick the right error: a missing row or a wrong owner both report
// ErrNotFound so outsiders cannot probe which request IDs exist, while a
// terminal status reports ErrInvalidState.
func (r *MatchRequestRepo) transition(ctx context.Context, id uint64, to, ownerCol string, ownerID uint64) (model.MatchRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE match_requests SET status=?, updated_at=UTC_TIMESTAMP() WHERE id=? AND "+ownerCol+"=? AND status='pending'",
		to, id, ownerID)
	if err != nil {
		return model.MatchRequest{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.MatchRequest{}, err
	}
	if n == 0 {
		m, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return model.MatchRequest{}, ErrNotFound
		}
		if err != nil {
			return model.MatchRequest{}, err
		}
		owner := m.MentorID
		if ownerCol == "mentee_id" {
			owner = m.MenteeID
		}
		if owner != ownerID {
			return model.MatchRequest{}, ErrNotFound
		}
		return model.MatchRequest{}, ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single match request. ErrNotFound is returned when
// no such row exists.
func (r *MatchRequestRepo) GetByID(ctx context.Context, id uint64) (model.MatchRequest, error) {
	m, err := scanMatch(r.DB.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM match_requests WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.MatchRequest{}, ErrNotFound
	}
	return m, err
}

// RequestWithFeedback pairs a match request with whether the viewing
// participant has already left feedback on it.
type RequestWithFeedback struct {
	model.MatchRequest
	HasFeedback bool
}

// ListIncoming returns all requests targeting a mentor, newest first,
// flagged with whether the mentor has already reviewed each one.
func (r *MatchRequestRepo) ListIncoming(ctx context.Context, mentorID uint64) ([]RequestWithFeedback, error) {
	return r.list(ctx, "m.mentor_id", mentorID)
}

// ListOutgoing returns all requests sent by a mentee, newest first,
// flagged with whether the mentee has already reviewed each one.
func (r *MatchRequestRepo) ListOutgoing(ctx context.Context, menteeID uint64) ([]RequestWithFeedback, error) {
	return r.list(ctx, "m.mentee_id", menteeID)
}

// list drives both inbox views. The viewer is the owner named by
// ownerCol, and the hasFeedback join is keyed on the viewer as
// reviewer: each side of an accepted match sees its own flag.
func (r *MatchRequestRepo) list(ctx context.Context, ownerCol string, viewerID uint64) ([]RequestWithFeedback, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.mentor_id, m.mentee_id, m.message, m.status, m.created_at, m.updated_at,
		        f.id IS NOT NULL
		 FROM match_requests m
		 LEFT JOIN feedback f ON f.match_request_id = m.id AND f.reviewer_id = ?
		 WHERE `+ownerCol+` = ?
		 ORDER BY m.created_at DESC, m.id DESC`,
		viewerID, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RequestWithFeedback, 0)
	for rows.Next() {
		var rec RequestWithFeedback
		if err := rows.Scan(&rec.ID, &rec.MentorID, &rec.MenteeID, &rec.Message, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.HasFeedback); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// HistoryWithMentor returns the mentee's full request history with one
// specific mentor, newest first, annotating each request with whether
// the viewer has already reviewed it. The feedback join is keyed on the
// viewer as reviewer, so a mentee and mentor looking at the same history
// see their own flags.
func (r *MatchRequestRepo) HistoryWithMentor(ctx context.Context, menteeID, mentorID, viewerID uint64) ([]RequestWithFeedback, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.mentor_id, m.mentee_id, m.message, m.status, m.created_at, m.updated_at,
		        f.id IS NOT NULL
		 FROM match_requests m
		 LEFT JOIN feedback f ON f.match_request_id = m.id AND f.reviewer_id = ?
		 WHERE m.mentee_id = ? AND m.mentor_id = ?
		 ORDER BY m.created_at DESC, m.id DESC`,
		viewerID, menteeID, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RequestWithFeedback, 0)
	for rows.Next() {
		var rec RequestWithFeedback
		if err := rows.Scan(&rec.ID, &rec.MentorID, &rec.MenteeID, &rec.Message, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.HasFeedback); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanMatch(row *sql.Row) (model.MatchRequest, error) {
	var m model.MatchRequest
	err := row.Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.MatchRequest{}, err
	}
	return m, nil
}
