package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
)

// MatchEventPublisher emits domain events after successful transitions.
// Publishing is best effort and must never fail the request.
type MatchEventPublisher interface {
	PublishMatchAccepted(m model.MatchRequest)
}

// MatchRequestHandler exposes the match-request lifecycle over HTTP.
type MatchRequestHandler struct {
	Matches   *repository.MatchRequestRepo
	Publisher MatchEventPublisher // may be nil when the broker is absent
}

func NewMatchRequestHandler(m *repository.MatchRequestRepo, p MatchEventPublisher) *MatchRequestHandler {
	return &MatchRequestHandler{Matches: m, Publisher: p}
}

type createMatchReq struct {
	MentorID uint64 `json:"mentorId"`
	Message  string `json:"message"`
}

type matchResp struct {
	ID          uint64    `json:"id"`
	MentorID    uint64    `json:"mentorId"`
	MenteeID    uint64    `json:"menteeId"`
	Message     string    `json:"message,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	HasFeedback *bool     `json:"hasFeedback,omitempty"`
}

func toMatchResp(m model.MatchRequest, withMessage bool) matchResp {
	resp := matchResp{
		ID:        m.ID,
		MentorID:  m.MentorID,
		MenteeID:  m.MenteeID,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if withMessage {
		resp.Message = m.Message
	}
	return resp
}

func toMatchRespList(recs []repository.RequestWithFeedback, withMessage bool) []matchResp {
	out := make([]matchResp, 0, len(recs))
	for _, r := range recs {
		resp := toMatchResp(r.MatchRequest, withMessage)
		has := r.HasFeedback
		resp.HasFeedback = &has
		out = append(out, resp)
	}
	return out
}

// Create opens a new pending request from the calling mentee to a
// mentor. The one-pending-per-mentee invariant is enforced in the
// repository transaction; this handler only maps the outcome.
func (h *MatchRequestHandler) Create(c echo.Context) error {
	uid, _ := currentUser(c)

	var req createMatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mentorId is required"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	if req.MentorID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot send a request to yourself"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Matches.Create(ctx, req.MentorID, uid, req.Message)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, toMatchResp(m, true))
	case errors.Is(err, repository.ErrMentorNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
	case errors.Is(err, repository.ErrDuplicatePendingForPair):
		return c.JSON(http.StatusConflict, echo.Map{"error": "a pending request to this mentor already exists"})
	case errors.Is(err, repository.ErrDuplicatePendingForMentee):
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a pending request"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
}

// Incoming lists requests addressed to the calling mentor, newest first.
func (h *MatchRequestHandler) Incoming(c echo.Context) error {
	uid, _ := currentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	recs, err := h.Matches.ListIncoming(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMatchRespList(recs, true))
}

// Outgoing lists requests sent by the calling mentee, newest first. The
// message body is omitted: the mentee wrote it and the mentor's inbox is
// where it is displayed.
func (h *MatchRequestHandler) Outgoing(c echo.Context) error {
	uid, _ := currentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	recs, err := h.Matches.ListOutgoing(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMatchRespList(recs, false))
}

// Accept transitions a pending request to accepted and publishes a
// match.accepted event for the audit trail.
func (h *MatchRequestHandler) Accept(c echo.Context) error {
	uid, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Matches.Accept(ctx, id, uid)
	if err != nil {
		return transitionError(c, err)
	}
	if h.Publisher != nil {
		h.Publisher.PublishMatchAccepted(m)
	}
	return c.JSON(http.StatusOK, toMatchResp(m, true))
}

// Reject transitions a pending request to rejected.
func (h *MatchRequestHandler) Reject(c echo.Context) error {
	uid, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Matches.Reject(ctx, id, uid)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(http.StatusOK, toMatchResp(m, true))
}

// Cancel transitions the calling mentee's own pending request to
// cancelled. Terminal requests cannot be cancelled.
func (h *MatchRequestHandler) Cancel(c echo.Context) error {
	uid, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Matches.Cancel(ctx, id, uid)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(http.StatusOK, toMatchResp(m, true))
}

// HistoryWithMentor lists the calling mentee's full request history with
// one mentor, any status, newest first.
func (h *MatchRequestHandler) HistoryWithMentor(c echo.Context) error {
	uid, _ := currentUser(c)
	mentorID, err := strconv.ParseUint(c.Param("mentorId"), 10, 64)
	if err != nil || mentorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	recs, err := h.Matches.HistoryWithMentor(ctx, uid, mentorID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMatchRespList(recs, true))
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// transitionError maps repository failures from accept/reject/cancel.
// A request owned by someone else reports not-found, same as a missing
// one, so request IDs cannot be probed by outsiders.
func transitionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	case errors.Is(err, repository.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "request is not in pending status"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
}
