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

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/palemoky/forhonor-db/internal/api/rest"
	"github.com/palemoky/forhonor-db/internal/app"
	"github.com/palemoky/forhonor-db/internal/config"
	"github.com/palemoky/forhonor-db/internal/logger"
)

var (
	configPath string
	force      bool

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "forhonor",
		Short:             "For Honor roster database",
		Long:              "Interactive menu over a SQLite database of For Honor factions and characters. The database is created and seeded on first run.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runMenu,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (optional)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create and seed the database if it does not exist",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Remove an existing database and seed it again")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster queries over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(initCmd, serveCmd)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Init(cfg.Log.Debug)
	return nil
}

func newApp() (*app.App, error) {
	return app.New(cfg, logger.Default(), "")
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	return a.RunMenu(cmd.InOrStdin(), cmd.OutOrStdout())
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithOutput(cmd.ErrOrStderr()),
	)
	seeded, err := a.Init(force, progress)
	progress.Wait()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if seeded {
		fmt.Fprintf(cmd.OutOrStdout(), "Database created at %s\n", a.DatabasePath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Database already exists at %s (use --force to rebuild)\n", a.DatabasePath())
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	conn := a.Open()
	defer a.Close(conn)

	log := logger.Default()
	router := rest.SetupRouter(cfg, log, a.Gateway(), conn, a.Repository())

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("database", a.DatabasePath()),
			zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
