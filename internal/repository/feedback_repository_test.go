package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syoh89/lipcoding-competition/internal/model"
)

func expectMatchLock(mock sqlmock.Sqlmock, id uint64, rows *sqlmock.Rows) {
	mock.ExpectQuery(`FROM match_requests WHERE id=\? LIMIT 1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(rows)
}

func TestFeedbackSubmit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	now := time.Now().UTC()
	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusAccepted))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM feedback`).
		WithArgs(uint64(5), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(uint64(5), uint64(20), uint64(10), 5, "great mentor").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`FROM feedback WHERE id=\? LIMIT 1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_request_id", "reviewer_id", "reviewee_id", "rating", "comment", "created_at"}).
			AddRow(3, 5, 20, 10, 5, "great mentor", now))
	mock.ExpectCommit()

	fb, err := repo.Create(context.Background(), 5, 20, 10, 5, "great mentor")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), fb.ID)
	assert.Equal(t, 5, fb.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackSubmitMatchMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM match_requests WHERE id=\? LIMIT 1 FOR UPDATE`).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 404, 20, 10, 5, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedbackSubmitRequiresAcceptedMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusPending))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 5, 20, 10, 5, "")
	assert.ErrorIs(t, err, ErrMatchNotAccepted)
}

func TestFeedbackSubmitRejectsOutsider(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusAccepted))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 5, 99, 10, 5, "")
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestFeedbackSubmitRejectsWrongReviewee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	// Reviewer rating themselves instead of the other party.
	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusAccepted))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 5, 20, 20, 5, "")
	assert.ErrorIs(t, err, ErrRevieweeMismatch)
}

func TestFeedbackSubmitTwiceFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusAccepted))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM feedback`).
		WithArgs(uint64(5), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 5, 20, 10, 4, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestFeedbackSubmitUniqueIndexBackstop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	// The existence pre-check passes but a concurrent submit wins the
	// insert; the unique index converts the race into AlreadyReviewed.
	mock.ExpectBegin()
	expectMatchLock(mock, 5, matchRow(5, 10, 20, model.StatusAccepted))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM feedback`).
		WithArgs(uint64(5), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO feedback`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '5-20' for key 'uq_feedback_reviewer'"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 5, 20, 10, 4, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestFeedbackListReceived(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "match_request_id", "reviewer_id", "reviewee_id", "rating", "comment", "created_at", "name", "role"}).
		AddRow(4, 6, 21, 10, 3, "ok", now, "Bob", "mentee").
		AddRow(3, 5, 20, 10, 5, "great", now.Add(-time.Hour), "Alice", "mentee")

	mock.ExpectQuery(`JOIN users u ON u\.id = f\.reviewer_id`).
		WithArgs(uint64(10)).
		WillReturnRows(rows)

	out, err := repo.ListReceived(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Bob", out[0].ReviewerName)
	assert.Equal(t, "mentee", out[0].ReviewerRole)
	assert.Equal(t, 5, out[1].Rating)
}
