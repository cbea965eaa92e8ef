package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji3/namedeps-go/internal/api"
	"github.com/ukaji3/namedeps-go/internal/api/handler"
	"github.com/ukaji3/namedeps-go/internal/config"
	"github.com/ukaji3/namedeps-go/internal/graphdb"
	"github.com/ukaji3/namedeps-go/internal/llm"
	"github.com/ukaji3/namedeps-go/internal/store/minio"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve workbook analysis over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := handler.NewAnalyzeHandler(logger, analysisOptions(cfg, logger), cfg.Server.MaxUploadBytes)

	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return err
		}
		cache, closeCache := newPromptCache(ctx, cfg, client.Model(), logger)
		defer closeCache()
		h.NewTranslator = func() emit.Translator {
			return llm.NewExplainer(client, cache, logger)
		}
		logger.Info("formula explanations enabled", "model", client.Model())
	}

	if cfg.MinIO.Endpoint != "" {
		store, err := minio.NewClient(cfg.MinIO)
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
		h.Archive = store
		logger.Info("archiving uploads", "bucket", store.Bucket())
	}

	if cfg.Neo4j.URI != "" {
		graph, err := graphdb.NewClient(cfg.Neo4j)
		if err != nil {
			return err
		}
		defer graph.Close(context.Background())
		if err := graph.Verify(ctx); err != nil {
			return fmt.Errorf("connect neo4j: %w", err)
		}
		if err := graph.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure neo4j indexes: %w", err)
		}
		h.Sink = graph
		logger.Info("syncing graphs to neo4j")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(logger, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
