package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/parametrix/internal/core/api"
	"github.com/solatis/parametrix/internal/core/auth"
	"github.com/solatis/parametrix/internal/core/config"
	"github.com/solatis/parametrix/internal/core/db"
	"github.com/solatis/parametrix/internal/core/server"
	"github.com/solatis/parametrix/internal/parametric"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC engine service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root)
		},
	}

	d := config.Default()
	flags := cmd.Flags()
	flags.String("host", d.Server.Host, "gRPC server host")
	flags.Int("port", d.Server.Port, "gRPC server port")
	flags.Duration("request-timeout", d.Server.RequestTimeout, "per-request deadline")
	flags.Int("max-batch-size", d.Server.MaxBatchSize, "maximum items per batch request")
	flags.String("data-dir", d.Server.DataDir, "directory for the evaluation journal")
	flags.Bool("strict", d.Engine.StrictFormulas, "fail evaluations when any formula cannot be evaluated")
	flags.Int("max-parameters", d.Engine.MaxParameters, "maximum parameters per request (0 = unlimited)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions) error {
	logger := root.logger

	cfg, err := config.Load(root.configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := openDB(root)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RequireMigrated(database); err != nil {
		return err
	}

	store, err := db.NewStore(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set %s_HMAC_SECRET environment variable)", config.EnvPrefix)
	}

	authenticator := auth.NewAuthenticator(secrets, store.Queries(), logger)
	engine := parametric.NewEngine(logger, cfg.Engine.EngineOptions())

	service, err := api.NewService(engine, store, cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg.Server, service, authenticator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting parametrix engine service", "version", Version, "addr", cfg.Server.Addr())
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return grpcServer.Shutdown(shutdownCtx)
	}
}

// openDB opens the database named by --db-url.
func openDB(root *rootOptions) (*sqlx.DB, error) {
	if root.dbURL == "" {
		return nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(root.dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
