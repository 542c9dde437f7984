package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/embedding"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Regenerate pending, stale or failed job embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		jobs, err := rt.jobs.ListPendingEmbeddings(ctx, flagLimit)
		if err != nil {
			return err
		}

		entities := make([]embedding.Entity, 0, len(jobs))
		for _, job := range jobs {
			entities = append(entities, embedding.JobEntity{Job: job})
		}
		return runBatch(ctx, rt, "jobs", entities, rt.jobGuard())
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Regenerate pending, stale or failed candidate profile embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		profiles, err := rt.profiles.ListPendingEmbeddings(ctx, flagLimit)
		if err != nil {
			return err
		}

		entities := make([]embedding.Entity, 0, len(profiles))
		for _, p := range profiles {
			entities = append(entities, embedding.ProfileEntity{Profile: p})
		}
		return runBatch(ctx, rt, "candidates", entities, rt.profileGuard())
	},
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate <profile-id>...",
	Short: "Mark candidate profile embeddings stale so they are regenerated",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		var failed int
		for _, id := range args {
			if flagDryRun {
				rt.log.Info("Would invalidate profile embedding", zap.String("profile_id", id))
				continue
			}
			if err := rt.profiles.MarkStale(ctx, id); err != nil {
				rt.log.Error("Failed to invalidate profile embedding",
					zap.String("profile_id", id), zap.Error(err))
				failed++
				continue
			}
			rt.log.Info("Invalidated profile embedding", zap.String("profile_id", id))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d invalidations failed", failed, len(args))
		}
		return nil
	},
}

var createIndexCmd = &cobra.Command{
	Use:   "create-index",
	Short: "Create the Atlas vector search index over profile embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		if flagDryRun {
			rt.log.Info("Would create vector search index",
				zap.String("index", rt.cfg.Mongo.VectorIndex),
				zap.Int("dimensions", rt.cfg.Embedding.Dimensions))
			return nil
		}
		if err := rt.profiles.EnsureVectorIndex(ctx, rt.cfg.Embedding.Dimensions); err != nil {
			return err
		}
		rt.log.Info("Vector search index creation requested; Atlas builds it asynchronously",
			zap.String("index", rt.cfg.Mongo.VectorIndex))
		return nil
	},
}

// runBatch drives the guard over a worker pool. Per-entity failures are
// logged and counted but never abort the batch.
func runBatch(ctx context.Context, rt *runtime, kind string, entities []embedding.Entity, guard *embedding.Guard) error {
	if len(entities) == 0 {
		rt.log.Info("Nothing to backfill", zap.String("kind", kind))
		return nil
	}
	rt.log.Info("Starting backfill",
		zap.String("kind", kind),
		zap.Int("pending", len(entities)),
		zap.Int("workers", flagWorkers),
		zap.Bool("dry_run", flagDryRun),
	)

	if flagDryRun {
		for _, e := range entities {
			rt.log.Info("Pending embedding", zap.String("kind", kind), zap.String("id", e.EntityID()))
		}
		return nil
	}

	pool, err := ants.NewPool(flagWorkers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
	)
	for _, entity := range entities {
		entity := entity
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, err := guard.Refresh(ctx, entity); err != nil {
				rt.log.Error("Backfill entity failed",
					zap.String("kind", kind),
					zap.String("id", entity.EntityID()),
					zap.Error(err))
				failed.Add(1)
				return
			}
			succeeded.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			rt.log.Error("Failed to submit backfill task", zap.Error(submitErr))
		}
	}
	wg.Wait()

	rt.log.Info("Backfill complete",
		zap.String("kind", kind),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if failed.Load() > 0 {
		return fmt.Errorf("%d of %d %s embeddings failed", failed.Load(), len(entities), kind)
	}
	return nil
}
