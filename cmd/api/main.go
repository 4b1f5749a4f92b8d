// @title                       Todo API
// @version                     2.0.0
// @description                 Multi-user todo list with bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/api"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
	"github.com/evolution-of-todo/todo-system/internal/core/service"
	"github.com/evolution-of-todo/todo-system/internal/infrastructure/db/memory"
	mongodb "github.com/evolution-of-todo/todo-system/internal/infrastructure/db/mongo"
	redisdb "github.com/evolution-of-todo/todo-system/internal/infrastructure/db/redis"
	"github.com/evolution-of-todo/todo-system/internal/infrastructure/http/handlers"
	"github.com/evolution-of-todo/todo-system/internal/infrastructure/queue"
	"github.com/evolution-of-todo/todo-system/internal/pkg/config"
	"github.com/evolution-of-todo/todo-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type storage struct {
	users    ports.UserRepository
	todos    ports.TodoRepository
	activity ports.ActivityRepository
	pingers  map[string]handlers.Pinger
	close    func(ctx context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "todo-api",
	})

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("failed to open storage")
	}

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		idem = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		store.pingers["redis"] = redisdb.NewPinger(rdb)
	} else {
		log.Info().Msg("REDIS_ADDR not set, Idempotency-Key is ignored")
	}

	trail := queue.NewDispatcher(cfg.Activity.Workers, store.activity, logger.Component("activity"))
	trail.Start(context.Background())

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: []byte(cfg.Auth.Secret),
		TTL:    cfg.SessionTTL(),
	})
	authService, err := service.NewAuthService(store.users, service.NewPasswordHasher(cfg.Auth.BcryptCost), tokens, logger.Component("auth"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise auth service")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:           authService,
		Todos:          service.NewTodoService(store.todos, idem, trail, logger.Component("todos")),
		Identity:       service.NewIdentityResolver(tokens, store.users, logger.Component("identity")),
		Readiness:      store.pingers,
		AllowedOrigins: allowedOrigins(cfg.FrontendURL),
		Logger:         logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	trail.Close()
	store.close(shutdownCtx)
	log.Info().Msg("bye")
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		mem := memory.NewStore()
		return &storage{
			users:    mem.Users,
			todos:    mem.Todos,
			activity: mem.Activity,
			pingers:  map[string]handlers.Pinger{},
			close:    func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &storage{
		users:    mongodb.NewUserRepository(db),
		todos:    mongodb.NewTodoRepository(db),
		activity: mongodb.NewActivityRepository(db),
		pingers:  map[string]handlers.Pinger{"mongodb": mongodb.NewPinger(db)},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

// allowedOrigins always includes the local frontend dev server.
func allowedOrigins(frontendURL string) []string {
	const local = "http://localhost:3000"
	if frontendURL == "" || frontendURL == local {
		return []string{local}
	}
	return []string{frontendURL, local}
}
