package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/readplan/internal/api"
	"github.com/hoanghai1803/readplan/internal/config"
	"github.com/hoanghai1803/readplan/internal/planner"
	"github.com/hoanghai1803/readplan/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	dataDir    string

	rootCmd = &cobra.Command{
		Use:           "readplan",
		Short:         "Reading plan service",
		Long:          "readplan tracks a reader's book collection and a time-boxed plan for reading it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  runMigrate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "directory relative database paths resolve against")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// resolveDBPath places a relative database path under dir.
func resolveDBPath(dir, path string) string {
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// openStore loads the config, opens the database and brings the schema up
// to date.
func openStore() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := storage.OpenDatabase(resolveDBPath(dataDir, cfg.Database.Path))
	if err != nil {
		return nil, nil, err
	}

	if err := storage.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return cfg, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database is up to date")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	clock, err := planner.NewZoneClock(cfg.Planner.Timezone)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := planner.NewService(storage.NewStore(db), clock, planner.NewMetrics(reg))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(svc, reg),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "timezone", cfg.Planner.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
