package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cendra-go/internal/app"
	"cendra-go/pkg/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	log         = logger.NewFromEnv()
	migrateFlag bool
)

func init() {
	serveCmd.Flags().BoolVar(&migrateFlag, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

var rootCmd = &cobra.Command{
	Use:           "cendra",
	Short:         "Association membership backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Migrate(cmd.Context(), log)
	},
}

func serve(ctx context.Context) error {
	log.Info("app: starting")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, log, app.Options{Migrate: migrateFlag})
	if err != nil {
		return err
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info("app: stopped")
	}
	return runErr
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Critical("app: exited with error", "err", err)
		os.Exit(1)
	}
}
