package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/auth"
	"union-quiz-service/internal/config"
	"union-quiz-service/internal/infra/memory"
	infrapg "union-quiz-service/internal/infra/postgres"
	infraredis "union-quiz-service/internal/infra/redis"
	transport "union-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the union quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var quizStore app.QuizStore
	var userStore auth.UserStore
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bundb := bun.NewDB(sqldb, pgdialect.New())
		defer bundb.Close()
		quizStore = infrapg.NewQuizStore(bundb)

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		userStore = infrapg.NewUserStore(pool)
	} else {
		log.Printf("no postgres url configured, running in-memory")
		quizStore = memory.NewQuizStore()
		userStore = memory.NewUserStore()
	}

	liveTTL := config.TTLDuration(cfg.Quiz.LiveTTL, 30*time.Second)
	var live app.LiveProvider
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		live = infraredis.NewLiveCache(redisClient, quizStore, liveTTL)
	} else {
		live = memory.NewLiveCache(quizStore, liveTTL)
	}

	secret := cfg.Auth.Secret
	if env := os.Getenv("AUTH_SECRET"); env != "" {
		secret = env
	}
	if secret == "" {
		secret = "dev-secret-change-me"
		log.Printf("AUTH_SECRET not set, using the development secret")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)

	accounts := auth.NewService(userStore, secret, tokenTTL)
	quizzes := app.NewQuizService(quizStore, live)
	router := transport.NewRouter(quizzes, accounts)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting union quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
