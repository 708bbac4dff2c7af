package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
)

func newFeedbackHandler(t *testing.T) (*FeedbackHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFeedbackHandler(repository.NewFeedbackRepo(db)), mock
}

func TestSubmitFeedbackRejectsRatingOutOfRange(t *testing.T) {
	h, _ := newFeedbackHandler(t)

	for _, rating := range []string{"0", "6", "-1"} {
		c, rec := authedContext(t, http.MethodPost, "/v1/feedback",
			`{"matchRequestId":5,"revieweeId":10,"rating":`+rating+`}`, 20, model.RoleMentee)
		require.NoError(t, h.Submit(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %s must be rejected", rating)
	}
}

func TestSubmitFeedbackRejectsOverlongComment(t *testing.T) {
	h, _ := newFeedbackHandler(t)

	comment := strings.Repeat("x", model.MaxCommentLength+1)
	c, rec := authedContext(t, http.MethodPost, "/v1/feedback",
		`{"matchRequestId":5,"revieweeId":10,"rating":4,"comment":"`+comment+`"}`, 20, model.RoleMentee)
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFeedbackOutsiderForbidden(t *testing.T) {
	h, mock := newFeedbackHandler(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM match_requests WHERE id=\? LIMIT 1 FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mentor_id", "mentee_id", "message", "status", "created_at", "updated_at"}).
			AddRow(5, 10, 20, "hi", model.StatusAccepted, now, now))
	mock.ExpectRollback()

	c, rec := authedContext(t, http.MethodPost, "/v1/feedback",
		`{"matchRequestId":5,"revieweeId":10,"rating":4}`, 99, model.RoleMentee)
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitFeedbackSecondSubmissionConflicts(t *testing.T) {
	h, mock := newFeedbackHandler(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM match_requests WHERE id=\? LIMIT 1 FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mentor_id", "mentee_id", "message", "status", "created_at", "updated_at"}).
			AddRow(5, 10, 20, "hi", model.StatusAccepted, now, now))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM feedback`).
		WithArgs(uint64(5), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	c, rec := authedContext(t, http.MethodPost, "/v1/feedback",
		`{"matchRequestId":5,"revieweeId":10,"rating":4}`, 20, model.RoleMentee)
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReceivedFeedbackIncludesReviewer(t *testing.T) {
	h, mock := newFeedbackHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.reviewer_id`).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_request_id", "reviewer_id", "reviewee_id", "rating", "comment", "created_at", "name", "role"}).
			AddRow(3, 5, 20, 10, 5, "great", now, "Alice", "mentee"))

	c, rec := authedContext(t, http.MethodGet, "/v1/feedback/received", "", 10, model.RoleMentor)
	require.NoError(t, h.Received(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []struct {
		Rating   int `json:"rating"`
		Reviewer struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"reviewer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].Rating)
	assert.Equal(t, "Alice", out[0].Reviewer.Name)
	assert.Equal(t, "mentee", out[0].Reviewer.Role)
}
