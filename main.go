// main.go
//
// GOLLMF server entrypoint.
// Startup order: .env → log level → config → courses → database + migrations →
// stores → HTTP server. SIGINT/SIGTERM trigger a graceful shutdown.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jarodreyes/gollmf/internal/auth"
	"github.com/jarodreyes/gollmf/internal/config"
	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/httpserver"
	"github.com/jarodreyes/gollmf/internal/leaderboard"
	"github.com/jarodreyes/gollmf/internal/metrics"
	"github.com/jarodreyes/gollmf/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	courses, err := course.NewLibrary(cfg.CoursesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load courses")
	}
	log.Info().Strs("courses", courses.Names()).Msg("courses loaded")

	db, err := leaderboard.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := leaderboard.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Games:   store.NewMemoryStore(),
		Courses: courses,
		Board:   leaderboard.NewStore(db),
		Auth:    auth.NewService(db, cfg.JWTSecret, cfg.JWTTTL),
		Metrics: metrics.New(),
	})

	log.Info().Str("port", cfg.Port).Int("trapPenalty", cfg.TrapPenalty).Msg("starting gollmf server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
