package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
)

func newMentorHandler(t *testing.T) (*MentorHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMentorHandler(repository.NewUserRepo(db)), mock
}

func TestMentorListRejectsUnknownOrderBy(t *testing.T) {
	h, _ := newMentorHandler(t)

	c, rec := authedContext(t, http.MethodGet, "/v1/mentors?order_by=rating", "", 20, model.RoleMentee)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMentorListDerivesImageURLs(t *testing.T) {
	h, mock := newMentorHandler(t)

	mock.ExpectQuery(`FROM users WHERE role=\?`).
		WithArgs("mentor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "skills", "has_image"}).
			AddRow(1, "Carol", "jvm", `["Java"]`, true).
			AddRow(2, "Dave", "web", `["React"]`, false))

	c, rec := authedContext(t, http.MethodGet, "/v1/mentors", "", 20, model.RoleMentee)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []mentorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "/v1/images/mentor/1", out[0].ImageURL)
	assert.Equal(t, "https://placehold.co/500x500.jpg?text=MENTOR", out[1].ImageURL)
}

func TestMentorListAppliesSkillFilter(t *testing.T) {
	h, mock := newMentorHandler(t)

	mock.ExpectQuery(`FROM users WHERE role=\?`).
		WithArgs("mentor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "skills", "has_image"}).
			AddRow(1, "Carol", "jvm", `["Java"]`, false).
			AddRow(2, "Dave", "web", `["JavaScript"]`, false))

	c, rec := authedContext(t, http.MethodGet, "/v1/mentors?skill=Java", "", 20, model.RoleMentee)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []mentorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Carol", out[0].Name)
}
