package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/config"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/logger"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
	mongorepo "github.com/Danish-Adnaan/candidate-recommendation/internal/repository/mongo"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/transport/openai"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/embedding"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/version"
)

var (
	flagLimit   int64
	flagWorkers int
	flagDryRun  bool
)

var rootCmd = &cobra.Command{
	Use:     "backfill",
	Short:   "Batch embedding maintenance for the candidate recommendation store",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagLimit, "limit", 0, "maximum entities to process (0 = all pending)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 4, "concurrent embedding workers")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "list pending entities without generating embeddings")

	rootCmd.AddCommand(jobsCmd, candidatesCmd, invalidateCmd, createIndexCmd)
}

// runtime bundles the shared dependencies of every subcommand.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	client   *mongo.Client
	jobs     *mongorepo.JobRepository
	profiles *mongorepo.ProfileRepository
	embedder domain.Embedder
}

func setup(ctx context.Context) (*runtime, error) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	metrics.Register()

	client, err := mongorepo.Connect(ctx, cfg.Mongo.URI,
		time.Duration(cfg.Mongo.ServerSelectionTimeoutSec)*time.Second)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		client:   client,
		jobs:     mongorepo.NewJobRepository(db.Collection(cfg.Mongo.JobCollection), log),
		profiles: mongorepo.NewProfileRepository(db.Collection(cfg.Mongo.ProfileCollection), cfg.Mongo.VectorIndex, log),
		embedder: openai.NewEmbedder(&openai.Config{
			APIKey:      cfg.Embedding.APIKey,
			BaseURL:     cfg.Embedding.BaseURL,
			Azure:       cfg.Embedding.Azure,
			APIVersion:  cfg.Embedding.APIVersion,
			Model:       cfg.Embedding.Model,
			Dimensions:  cfg.Embedding.Dimensions,
			MaxAttempts: cfg.Embedding.MaxAttempts,
			RetryDelay:  time.Duration(cfg.Embedding.RetryDelaySec) * time.Second,
			Logger:      log,
		}),
	}
	return rt, nil
}

func (rt *runtime) close() {
	if err := rt.client.Disconnect(context.Background()); err != nil {
		rt.log.Warn("Mongo disconnect failed", zap.Error(err))
	}
	_ = rt.log.Sync()
}

func (rt *runtime) jobGuard() *embedding.Guard {
	return embedding.NewGuard(rt.jobs, rt.embedder, rt.cfg.Embedding.Model, rt.cfg.Embedding.Dimensions, rt.log)
}

func (rt *runtime) profileGuard() *embedding.Guard {
	return embedding.NewGuard(rt.profiles, rt.embedder, rt.cfg.Embedding.Model, rt.cfg.Embedding.Dimensions, rt.log)
}
