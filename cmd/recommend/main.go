// The recommend server ranks candidate profiles against job descriptions
// by embedding similarity.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/config"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/db/redis"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/logger"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/repository/embcache"
	mongorepo "github.com/Danish-Adnaan/candidate-recommendation/internal/repository/mongo"
	chitransport "github.com/Danish-Adnaan/candidate-recommendation/internal/transport/chi"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/transport/openai"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/embedding"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/search"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/version"
)

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting recommend server",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongorepo.Connect(ctx, cfg.Mongo.URI,
		time.Duration(cfg.Mongo.ServerSelectionTimeoutSec)*time.Second)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("Mongo disconnect failed", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	provider := openai.NewEmbedder(&openai.Config{
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		Azure:       cfg.Embedding.Azure,
		APIVersion:  cfg.Embedding.APIVersion,
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		MaxAttempts: cfg.Embedding.MaxAttempts,
		RetryDelay:  time.Duration(cfg.Embedding.RetryDelaySec) * time.Second,
		Logger:      log,
	})

	var embedder domain.Embedder = provider
	if cfg.Embedding.Cache.Enabled {
		store, err := redis.NewStore(redis.Config{
			Addrs:    cfg.Embedding.Cache.Addrs,
			Password: cfg.Embedding.Cache.Password,
		})
		if err != nil {
			return fmt.Errorf("embedding cache store: %w", err)
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
			return fmt.Errorf("embedding cache store: %w", err)
		}
		embedder = embcache.New(provider, store, cfg.Embedding.Model,
			time.Duration(cfg.Embedding.Cache.TTLHours)*time.Hour, log)
		log.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Embedding.Cache.Addrs))
	}

	jobs := mongorepo.NewJobRepository(db.Collection(cfg.Mongo.JobCollection), log)
	profiles := mongorepo.NewProfileRepository(db.Collection(cfg.Mongo.ProfileCollection), cfg.Mongo.VectorIndex, log)
	applications := mongorepo.NewApplicationRepository(db.Collection(cfg.Mongo.ApplicationCollection), log)

	jobGuard := embedding.NewGuard(jobs, embedder, cfg.Embedding.Model, cfg.Embedding.Dimensions, log)

	searcher := search.NewService(jobs, profiles, applications, jobGuard, search.Options{
		DefaultGlobalLimit: cfg.Search.DefaultGlobalLimit,
		MaxGlobalLimit:     cfg.Search.MaxGlobalLimit,
		DefaultPageSize:    cfg.Search.DefaultPageSize,
		MaxPageSize:        cfg.Search.MaxPageSize,
		AppliedStrategy:    cfg.Search.AppliedStrategy,
	}, log)

	server := chitransport.NewServer(searcher, mongoPinger{client: client}, provider, log)
	handler := server.Router(chitransport.RateLimit(cfg.RateLimit.RequestsPerMinute))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
