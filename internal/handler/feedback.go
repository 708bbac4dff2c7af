package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
)

// FeedbackHandler exposes the feedback ledger over HTTP.
type FeedbackHandler struct {
	Feedback *repository.FeedbackRepo
}

func NewFeedbackHandler(f *repository.FeedbackRepo) *FeedbackHandler {
	return &FeedbackHandler{Feedback: f}
}

type submitFeedbackReq struct {
	MatchRequestID uint64 `json:"matchRequestId"`
	RevieweeID     uint64 `json:"revieweeId"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

type feedbackResp struct {
	ID             uint64    `json:"id"`
	MatchRequestID uint64    `json:"matchRequestId"`
	ReviewerID     uint64    `json:"reviewerId"`
	RevieweeID     uint64    `json:"revieweeId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Submit records the caller's one-time rating of the other participant
// of an accepted match. Shape errors (rating range, comment length) are
// rejected here; eligibility is decided by the repository in a fixed
// order so a caller always learns the most specific failure.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	uid, _ := currentUser(c)

	var req submitFeedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MatchRequestID == 0 || req.RevieweeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "matchRequestId and revieweeId are required"})
	}
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be an integer between 1 and 5"})
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if len(req.Comment) > model.MaxCommentLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment exceeds 1000 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fb, err := h.Feedback.Create(ctx, req.MatchRequestID, uid, req.RevieweeID, req.Rating, req.Comment)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, feedbackResp{
			ID:             fb.ID,
			MatchRequestID: fb.MatchRequestID,
			ReviewerID:     fb.ReviewerID,
			RevieweeID:     fb.RevieweeID,
			Rating:         fb.Rating,
			Comment:        fb.Comment,
			CreatedAt:      fb.CreatedAt,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "match request not found"})
	case errors.Is(err, repository.ErrMatchNotAccepted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "match request is not accepted"})
	case errors.Is(err, repository.ErrNotAParticipant):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not a participant of this match"})
	case errors.Is(err, repository.ErrRevieweeMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reviewee must be the other participant"})
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "feedback already submitted"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
}

type receivedFeedbackResp struct {
	feedbackResp
	Reviewer struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"reviewer"`
}

// Received lists all feedback written about the caller, newest first,
// with the reviewer's name and role joined in.
func (h *FeedbackHandler) Received(c echo.Context) error {
	uid, _ := currentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	recs, err := h.Feedback.ListReceived(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]receivedFeedbackResp, 0, len(recs))
	for _, r := range recs {
		var item receivedFeedbackResp
		item.feedbackResp = feedbackResp{
			ID:             r.ID,
			MatchRequestID: r.MatchRequestID,
			ReviewerID:     r.ReviewerID,
			RevieweeID:     r.RevieweeID,
			Rating:         r.Rating,
			Comment:        r.Comment,
			CreatedAt:      r.CreatedAt,
		}
		item.Reviewer.Name = r.ReviewerName
		item.Reviewer.Role = r.ReviewerRole
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}
