package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syoh89/lipcoding-competition/internal/middleware"
	"github.com/syoh89/lipcoding-competition/internal/model"
)

// dbTimeout bounds every store round trip made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUser reads the authenticated identity that JWTAuth stored in
// the context. A zero ID means the middleware did not run, which is a
// routing bug rather than a client error.
func currentUser(c echo.Context) (uint64, string) {
	id, _ := c.Get(middleware.CtxUserID).(uint64)
	role, _ := c.Get(middleware.CtxRole).(string)
	return id, role
}

// imageURL derives the avatar reference for a user: the blob-serving
// route when an avatar is stored, a role-specific placeholder otherwise.
func imageURL(role string, id uint64, hasImage bool) string {
	if hasImage {
		return fmt.Sprintf("/v1/images/%s/%d", role, id)
	}
	if role == model.RoleMentor {
		return "https://placehold.co/500x500.jpg?text=MENTOR"
	}
	return "https://placehold.co/500x500.jpg?text=MENTEE"
}
