package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/config"
	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/infra/file"
	"quiz-room-service/internal/infra/memory"
	pgloader "quiz-room-service/internal/infra/postgres"
	redisinfra "quiz-room-service/internal/infra/redis"
	"quiz-room-service/internal/logging"
	transport "quiz-room-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the room server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(flags.configPath)
			if err != nil {
				return err
			}
			if flags.port != "" {
				cfg.Server.Port = flags.port
			}
			log := logging.New(os.Stdout, flags.verbose)
			return runServer(cmd.Context(), cfg, log)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := quizLoader(ctx, cfg, pool, log)
	if err != nil {
		return err
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var (
		store      app.RoomRepository
		redisStore *redisinfra.RoomStore
		scoreboard *redisinfra.Scoreboard
	)
	if redisClient != nil {
		redisStore = redisinfra.NewRoomStore(redisClient, redisTTL)
		scoreboard = redisinfra.NewScoreboard(redisClient, redisTTL)
		store = redisStore
	} else {
		store = memory.NewRoomStore()
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithRevealDelay(config.Duration(cfg.Game.RevealDelay, app.DefaultRevealDelay)),
		app.WithDefaultTimer(config.Duration(cfg.Game.DefaultTimer, app.DefaultTimer)),
	}
	if scoreboard != nil {
		opts = append(opts, app.WithScoreboard(scoreboard))
	}
	service := app.NewRoomService(store, quizRepo, opts...)

	api := transport.NewServer(service, transport.Options{
		Version:     releaseVersion,
		PublicURL:   cfg.Server.PublicURL,
		Pprof:       cfg.Server.Pprof,
		AnswerRate:  rate.Limit(cfg.Game.AnswerRate),
		AnswerBurst: cfg.Game.AnswerBurst,
		Logger:      log,
	})

	sweepInterval := config.Duration(cfg.Game.SweepInterval, app.DefaultSweepInterval)
	reaper := app.NewReaper(store,
		config.Duration(cfg.Game.IdleTimeout, app.DefaultIdleTimeout),
		sweepInterval,
		app.WithReaperLogger(log),
		app.WithEvictHook(func(ctx context.Context, code string) {
			api.Limiter().Forget(code)
			if scoreboard != nil {
				if err := scoreboard.Clear(ctx, code); err != nil {
					log.Warn().Err(err).Str("room", code).Msg("clear scoreboard mirror")
				}
			}
		}),
	)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("version", releaseVersion).Msg("starting quiz room service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Run(gctx)
	})
	if redisStore != nil {
		g.Go(func() error {
			return refreshLiveness(gctx, redisStore, sweepInterval, log)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// quizLoader picks the quiz content source: Postgres, then the JSON file
// catalog, then the built-in sample quiz.
func quizLoader(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, log zerolog.Logger) (memory.QuizLoader, error) {
	var catalog *file.Catalog
	if cfg.Files.Dir != "" {
		var err error
		catalog, err = file.Load(cfg.Files.Dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Warn().Str("dir", cfg.Files.Dir).Msg("quiz catalog not found, using built-in sample quiz")
		case err != nil:
			return nil, err
		default:
			log.Info().Str("dir", cfg.Files.Dir).Int("quizzes", len(catalog.Quizzes())).Msg("quiz catalog loaded")
		}
	}

	if pool != nil {
		pg := pgloader.NewQuizLoader(pool)
		if cfg.Files.Seed && catalog != nil {
			for _, quiz := range catalog.Quizzes() {
				if err := pg.SaveQuiz(ctx, quiz); err != nil {
					return nil, err
				}
			}
			log.Info().Int("quizzes", len(catalog.Quizzes())).Msg("seeded postgres from quiz catalog")
		}
		return pg, nil
	}
	if catalog != nil {
		return catalog, nil
	}
	return memory.NewStaticQuizLoader(sampleQuizzes()), nil
}

func refreshLiveness(ctx context.Context, store *redisinfra.RoomStore, interval time.Duration, log zerolog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := store.Touch(ctx); err != nil {
				log.Warn().Err(err).Msg("refresh room liveness markers")
			}
		}
	}
}

// sampleQuizzes is served when neither Postgres nor a quiz catalog is configured.
func sampleQuizzes() map[string]domain.Quiz {
	everest := 8849.0
	return map[string]domain.Quiz{
		"sample": {
			ID:    "sample",
			Title: "Sample Quiz",
			Questions: []domain.Question{
				{
					ID:           "s1",
					Mechanic:     domain.MechanicMultipleChoice,
					Text:         domain.Text{DE: "Was ist 2 + 2?", EN: "What is 2 + 2?"},
					Options:      []domain.Text{{DE: "3"}, {DE: "4"}, {DE: "5"}},
					CorrectIndex: 1,
				},
				{
					ID:        "s2",
					Mechanic:  domain.MechanicEstimate,
					Text:      domain.Text{DE: "Wie hoch ist der Mount Everest?", EN: "How tall is Mount Everest?"},
					Target:    &everest,
					Unit:      "m",
					Points:    2,
					TimeLimit: 30,
				},
				{
					ID:       "s3",
					Mechanic: domain.MechanicTrueFalse,
					Text:     domain.Text{DE: "Die Erde ist rund.", EN: "The earth is round."},
					Correct:  true,
				},
			},
		},
	}
}
