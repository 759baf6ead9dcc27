package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ryanhamamura/viatour/internal/app"
	"github.com/ryanhamamura/viatour/internal/config"
	"github.com/ryanhamamura/viatour/internal/demos"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/vianats"
)

const (
	visitStream  = "DEMOS"
	visitHistory = 10
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := newSessionManager(cfg.SessionDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up sessions")
	}
	defer closeSessions()

	opts := via.Options{
		DevMode:        cfg.Dev,
		ServerAddress:  cfg.Addr,
		DocumentTitle:  cfg.Title,
		Logger:         &logger,
		Plugins:        []via.Plugin{app.Bulma},
		SessionManager: sessions,
		ContextTTL:     cfg.ContextTTL,
		ActionRateLimit: via.RateLimitConfig{
			Rate:  cfg.ActionRate,
			Burst: cfg.ActionBurst,
		},
	}
	appOpts := app.Options{Demos: demos.Options{Latency: cfg.Latency}}

	if cfg.PubSub == config.PubSubNATS {
		ps, err := vianats.New(ctx, cfg.NATSDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to start embedded NATS")
		}
		err = vianats.EnsureStream(ps, vianats.StreamConfig{
			Name:     visitStream,
			Subjects: []string{"demos.>"},
			MaxMsgs:  1000,
			MaxAge:   24 * time.Hour,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to set up visit stream")
		}
		raw, err := vianats.Replay(ps, visitStream, app.VisitSubject, visitHistory)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to replay visits")
		}
		opts.PubSub = ps
		appOpts.Feed = true
		appOpts.History = app.DecodeVisits(raw)
	}

	v := via.New()
	v.Config(opts)
	if _, err := app.New(v, appOpts); err != nil {
		logger.Fatal().Err(err).Msg("failed to build app")
	}

	if err := v.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger().Level(cfg.LogLevel)
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(cfg.LogLevel)
}

// newSessionManager stores sessions in the SQLite database at path, or in
// memory when path is empty.
func newSessionManager(path string) (*scs.SessionManager, func(), error) {
	if path == "" {
		return scs.New(), func() {}, nil
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, nil, err
	}
	sm, err := via.NewSQLiteSessionManager(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return sm, func() { db.Close() }, nil
}
