package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/syoh89/lipcoding-competition/internal/config"
	"github.com/syoh89/lipcoding-competition/internal/database"
	"github.com/syoh89/lipcoding-competition/internal/handler"
	"github.com/syoh89/lipcoding-competition/internal/middleware"
	"github.com/syoh89/lipcoding-competition/internal/queue"
	"github.com/syoh89/lipcoding-competition/internal/repository"
	"github.com/syoh89/lipcoding-competition/internal/router"
	"github.com/syoh89/lipcoding-competition/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and directory cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	matches := repository.NewMatchRequestRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Profile:  handler.NewProfileHandler(users),
		Mentors:  handler.NewMentorHandler(users),
		Matches:  handler.NewMatchRequestHandler(matches, service.NewEventPublisher()),
		Feedback: handler.NewFeedbackHandler(feedback),
	}

	e := echo.New()
	e.HideBanner = true
	// A panic in one handler must not take down in-flight requests.
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, h, cfg.JWTSecret, rdb)

	// Audit trail: drains match.accepted events into logs/match.log.
	go queue.StartMatchConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
