package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
)

// MentorHandler serves the mentor directory.
type MentorHandler struct {
	Users *repository.UserRepo
}

func NewMentorHandler(u *repository.UserRepo) *MentorHandler {
	return &MentorHandler{Users: u}
}

type mentorResp struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
	ImageURL string   `json:"imageUrl"`
}

// List returns the mentor directory, optionally filtered by an exact
// skill and sorted by name or skill. An unrecognized order_by value is
// rejected rather than silently ignored.
func (h *MentorHandler) List(c echo.Context) error {
	skill := c.QueryParam("skill")
	orderBy := c.QueryParam("order_by")
	if !repository.ValidOrderBy(orderBy) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_by must be name or skill"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	mentors, err := h.Users.ListMentors(ctx, skill, orderBy)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]mentorResp, 0, len(mentors))
	for _, m := range mentors {
		out = append(out, mentorResp{
			ID:       m.ID,
			Name:     m.Name,
			Bio:      m.Bio,
			Skills:   m.Skills,
			ImageURL: imageURL(model.RoleMentor, m.ID, m.HasImage),
		})
	}
	return c.JSON(http.StatusOK, out)
}
