// Package jobboard assembles the HTTP API: storage, cache, message broker,
// services and the router, plus the periodic expiry sweeper.
package jobboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/devhire/job-board/internal/cache"
	"github.com/devhire/job-board/internal/config"
	"github.com/devhire/job-board/internal/lib/jwt"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/migrations"
	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/rabbitmq"
	authservice "github.com/devhire/job-board/internal/services/auth"
	jobservice "github.com/devhire/job-board/internal/services/job"
	sweeperservice "github.com/devhire/job-board/internal/services/sweeper"
	userservice "github.com/devhire/job-board/internal/services/user"
	"github.com/devhire/job-board/internal/storage/memory"
	"github.com/devhire/job-board/internal/storage/repository"
)

// Store is the full persistence surface the services need. Implemented by
// the PostgreSQL repository and by the in-memory fallback store.
type Store interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error
	UpdateUserProfile(ctx context.Context, userUID, name string, profile models.Profile, company models.Company) error
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
	DeactivateUser(ctx context.Context, userUID string) error

	CreateJob(ctx context.Context, job models.Job) (string, error)
	GetJob(ctx context.Context, jobUID string) (*models.Job, error)
	UpdateJob(ctx context.Context, job models.Job) error
	DeactivateJob(ctx context.Context, jobUID string) error
	ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error)
	ListJobsByOwner(ctx context.Context, ownerUID string) ([]*models.Job, error)
	DeactivateExpiredJobs(ctx context.Context, now time.Time) ([]models.ExpiredJobInfo, error)
}

// App is the assembled HTTP API process.
type App struct {
	server        *http.Server
	logger        *slog.Logger
	db            *repository.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	sweeper       *sweeperservice.SweeperService
	sweepInterval time.Duration
}

// New wires the whole API together.
//
// Storage degrades gracefully: when PostgreSQL is unreachable or its schema
// probe fails, the app serves from a process-local in-memory store instead
// of refusing to start. Redis and RabbitMQ are optional the same way, but
// only when left unconfigured: a configured broker that cannot be reached
// is a startup error.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, db := openStore(cfg, logger)

	var jobCache jobservice.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		jobCache = redisCache
	} else {
		logger.Warn("redis address not configured, caching disabled")
	}

	var conn *amqp.Connection
	var ch *amqp.Channel
	if cfg.RabbitConnectionString != "" {
		var err error
		conn, err = rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetExpiryQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	} else {
		logger.Warn("rabbitmq not configured, expiry notifications disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authSvc := authservice.NewAuthService(store, jwtMaker, logger)
	userSvc := userservice.NewUserService(store, store)
	sweeperSvc := sweeperservice.NewSweeperService(store, ch, logger)
	jobSvc := jobservice.NewJobService(store, jobCache, sweeperSvc, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authSvc, userSvc, jobSvc, sweeperSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:        srv,
		logger:        logger,
		db:            db,
		conn:          conn,
		ch:            ch,
		sweeper:       sweeperSvc,
		sweepInterval: cfg.SweepInterval,
	}, nil
}

// openStore opens PostgreSQL and falls back to the in-memory store when the
// database cannot serve. The returned *repository.Storage is nil when the
// fallback is in use.
func openStore(cfg *config.Config, logger *slog.Logger) (Store, *repository.Storage) {
	if cfg.StorageConnectionString == "" {
		logger.Warn("storage connection string not configured, using in-memory store")
		return memory.New(), nil
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Warn("failed to connect to postgres, using in-memory store", sl.Err(err))
		return memory.New(), nil
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Warn("failed to run migrations, using in-memory store", sl.Err(err))
		_ = db.DB.Close()
		return memory.New(), nil
	}
	if err := repository.CheckDatabaseReady(db); err != nil {
		logger.Warn("database not ready, using in-memory store", sl.Err(err))
		_ = db.DB.Close()
		return memory.New(), nil
	}
	return db, db
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully. The periodic sweeper runs for the lifetime of the server.
func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Run(ctx, a.sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.DB.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}
