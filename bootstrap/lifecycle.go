package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-digest/orchestrator"
	"ai-digest/service"
	"ai-digest/utils/logger"
)

// Run is the main application entry point. It initializes all dependencies,
// starts the server and the scrape job, then waits for a shutdown signal.
func Run(ctx context.Context) error {
	log := logger.Init()

	log.Info("starting digest service")

	deps, cleanup, err := BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps)
	StartHTTPServer(httpServer, deps.Config.Server.Port, log)

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	jobs := orchestrator.NewJobGroup(jobCtx, log)
	jobs.Add(orchestrator.NewJobRunner(orchestrator.JobConfig{
		Name:           "scrape-pipeline",
		Interval:       deps.Config.Scrape.Interval,
		RunImmediately: deps.Config.Scrape.RunOnStartup,
	}, func(ctx context.Context) error {
		_, err := deps.Ingest.Run(ctx)
		if service.IsRunConflict(err) {
			// Another trigger (manual scrape or rescore) got there first.
			deps.Logger.InfoContext(ctx, "scheduled scrape skipped, run already active")
			return nil
		}
		return err
	}, log))

	log.Info("digest service started", "scrape_interval", deps.Config.Scrape.Interval)
	waitForShutdown(ctx, httpServer, deps, jobs)

	return nil
}

func waitForShutdown(ctx context.Context, httpServer interface{ Shutdown(context.Context) error }, deps *Dependencies, jobs *orchestrator.JobGroup) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case <-ctx.Done():
	}

	deps.Logger.Info("shutting down digest service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error("error shutting down HTTP server", "error", err)
	}

	jobs.StopAll()

	deps.Logger.Info("digest service stopped")
}
