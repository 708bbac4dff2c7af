// Package router wires HTTP routes to their handlers and access rules.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/syoh89/lipcoding-competition/internal/config"
	"github.com/syoh89/lipcoding-competition/internal/handler"
	"github.com/syoh89/lipcoding-competition/internal/middleware"
	"github.com/syoh89/lipcoding-competition/internal/model"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Mentors  *handler.MentorHandler
	Matches  *handler.MatchRequestHandler
	Feedback *handler.FeedbackHandler
}

// Register mounts every route of the service on e. Auth endpoints are
// open; everything else under /v1 requires a bearer token, with role
// gates per route: the directory and request creation belong to
// mentees, accept/reject to mentors, and the rest to any signed-in
// user.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleMentor, model.RoleMentee))

	v1.GET("/me", h.Profile.Me)
	v1.PUT("/profile", h.Profile.Update)
	v1.GET("/images/:role/:id", h.Profile.Avatar)

	// The directory response is identical for every mentee, so it is
	// served through the Redis response cache keyed by route+query.
	v1.GET("/mentors", h.Mentors.List,
		middleware.RequireRole(model.RoleMentee),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	menteeOnly := middleware.RequireRole(model.RoleMentee)
	mentorOnly := middleware.RequireRole(model.RoleMentor)

	v1.POST("/match-requests", h.Matches.Create, menteeOnly)
	v1.GET("/match-requests/incoming", h.Matches.Incoming, mentorOnly)
	v1.GET("/match-requests/outgoing", h.Matches.Outgoing, menteeOnly)
	v1.PUT("/match-requests/:id/accept", h.Matches.Accept, mentorOnly)
	v1.PUT("/match-requests/:id/reject", h.Matches.Reject, mentorOnly)
	v1.DELETE("/match-requests/:id", h.Matches.Cancel, menteeOnly)
	v1.GET("/match-requests/mentor/:mentorId", h.Matches.HistoryWithMentor, menteeOnly)

	v1.POST("/feedback", h.Feedback.Submit)
	v1.GET("/feedback/received", h.Feedback.Received)
}
