package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/persona-rag/go-persona/config"
	"github.com/persona-rag/go-persona/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP question-answering service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := buildServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		httpServer := &http.Server{
			Addr:    cfg.Addr,
			Handler: srv.Handler(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.String("addr", cfg.Addr), zap.Bool("mock", cfg.Mock))
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

func buildServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}
	generatorName := cfg.GeneratorModel
	if cfg.Mock {
		generatorName = "mock"
	}
	return server.New(ctx, server.Config{
		Provider:      provider,
		Generator:     generator,
		GeneratorName: generatorName,
		Weights:       cfg.CategoryWeights(),
		Thresholds:    cfg.Thresholds,
		MinScore:      cfg.MinScore,
		DefaultK:      cfg.DefaultK,
		MaxContextLen: cfg.MaxContextLen,
		KnowledgePath: cfg.KnowledgePath,
		SnapshotPath:  cfg.SnapshotPath,
		DatabaseDSN:   cfg.DatabaseDSN,
		Logger:        logger,
	})
}
