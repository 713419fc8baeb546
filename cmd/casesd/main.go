package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/app"
	"github.com/joseph-ayodele/case-summarizer/internal/async"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/ingest"
	"github.com/joseph-ayodele/case-summarizer/internal/logging"
	"github.com/joseph-ayodele/case-summarizer/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, os.Getenv("LOG_FORMAT") == "json")
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("casesd stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *common.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	// cases left behind by a previous run
	resumeCtx, cancelResume := context.WithTimeout(ctx, 30*time.Second)
	requeuePending(resumeCtx, a, queue, logger)
	cancelResume()

	if cfg.Storage.InboxDir != "" {
		if err := watchInbox(ctx, cfg.Storage.InboxDir, a.Ingestor, queue, logger); err != nil {
			return fmt.Errorf("start inbox watcher: %w", err)
		}
	}

	// gRPC health
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, hs)
	go monitorDB(ctx, a, hs, logger)
	go func() {
		logger.Info("grpc health serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve error", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.New(a.ServerDeps(queue), logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	hs.Shutdown()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("http shutdown", "error", serr)
	}
	grpcServer.GracefulStop()
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
	return err
}

func requeuePending(ctx context.Context, a *app.App, q async.Queue, logger *slog.Logger) {
	cases, err := a.Cases.ListByStatus(ctx, constants.CaseStatusPending, constants.CaseStatusProcessing)
	if err != nil {
		logger.Error("failed to list unfinished cases", "error", err)
		return
	}
	for _, c := range cases {
		if err := q.Enqueue(ctx, async.Job{CaseID: c.ID}); err != nil {
			logger.Warn("failed to requeue case", "case_id", c.ID, "error", err)
			return
		}
	}
	if len(cases) > 0 {
		logger.Info("requeued unfinished cases", "count", len(cases))
	}
}

func watchInbox(ctx context.Context, dir string, ing ingest.Ingestor, q async.Queue, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    2 * time.Second,
		SkipHidden:  true,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("watching inbox", "dir", dir)
	go func() {
		for errs != nil {
			if _, ok := <-errs; !ok {
				errs = nil
			}
		}
	}()
	go func() {
		for path := range events {
			res, err := ing.IngestPath(ctx, path)
			if err != nil {
				logger.Warn("inbox ingest failed", "path", path, "error", err)
				continue
			}
			if res.Deduplicated {
				continue
			}
			if err := q.Enqueue(ctx, async.Job{CaseID: res.CaseID}); err != nil {
				logger.Warn("inbox enqueue failed", "case_id", res.CaseID, "error", err)
			}
		}
	}()
	return nil
}

// monitorDB keeps the gRPC health status in line with database reachability.
func monitorDB(ctx context.Context, a *app.App, hs *health.Server, logger *slog.Logger) {
	check := func() {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err := a.DB.HealthCheck(ctx, 2*time.Second); err != nil {
			logger.Warn("database health check failed", "error", err)
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(server.ServiceName, status)
	}
	check()
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			check()
		}
	}
}
