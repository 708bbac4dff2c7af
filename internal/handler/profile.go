package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/repository"
	"github.com/syoh89/lipcoding-competition/internal/utils"
)

// ProfileHandler serves the current-user profile, profile updates and
// avatar blobs.
type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(u *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Users: u}
}

type profileResp struct {
	ID       uint64    `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Bio      string    `json:"bio"`
	Skills   []string  `json:"skills,omitempty"`
	ImageURL string    `json:"imageUrl"`
	Created  time.Time `json:"createdAt"`
	Updated  time.Time `json:"updatedAt"`
}

func toProfileResp(u model.User) profileResp {
	skills, err := utils.DecodeSkills(u.Skills)
	if err != nil {
		skills = []string{}
	}
	resp := profileResp{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Bio:      u.Bio,
		ImageURL: imageURL(u.Role, u.ID, len(u.ImageData) > 0),
		Created:  u.CreatedAt,
		Updated:  u.UpdatedAt,
	}
	if u.Role == model.RoleMentor {
		resp.Skills = skills
	}
	return resp
}

// Me returns the authenticated user's own profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, _ := currentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

type updateProfileReq struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
	// Image is an optional base64 data URI ("data:image/png;base64,...").
	// Empty means keep the current avatar.
	Image string `json:"image"`
}

// Update rewrites the caller's own profile. Only name, bio, skills and
// the avatar can change; the role and email are immutable. Concurrent
// updates from the same user are last-writer-wins.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, role := currentUser(c)

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var (
		image     []byte
		imageType string
	)
	if req.Image != "" {
		var err error
		image, imageType, err = utils.DecodeAvatar(req.Image)
		if err != nil {
			return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": err.Error()})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.UpdateProfile(ctx, uid, role, req.Name, req.Bio, req.Skills, image, imageType); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

// Avatar serves the stored avatar blob with its recorded content type.
// The role segment keeps the URL shape stable for clients that build
// image paths from directory entries.
func (h *ProfileHandler) Avatar(c echo.Context) error {
	role := c.Param("role")
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	data, mime, err := h.Users.GetAvatar(ctx, id, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, mime, data)
}
