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

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/untoldecay/Catnip/internal/api"
	"github.com/untoldecay/Catnip/internal/config"
	"github.com/untoldecay/Catnip/internal/logging"
	"github.com/untoldecay/Catnip/internal/rpc"
	"github.com/untoldecay/Catnip/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion RPC server and the read HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(config.GetString("log-level"), config.GetString("log-file"))
	dbPath := config.GetString("db")

	// Single-instance guard: two servers reconciling into the same
	// database would fight over the write lock.
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire serve lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another catnip instance is already serving %s", dbPath)
	}
	defer func() { _ = lock.Unlock() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	log.Info("database ready", "path", store.Path())

	network, addr := clientEndpoint()
	server := rpc.NewServer(rpc.Config{
		Network:        network,
		Addr:           addr,
		MaxConns:       config.GetInt("max-conns"),
		RequestTimeout: config.GetDuration("request-timeout"),
		StreamPace:     config.GetDuration("stream-pace"),
	}, store, log.With("component", "ingest"))

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("ingest server failed to start: %w", err)
	case <-server.WaitReady():
		log.Info("ingest server ready")
	case <-time.After(5 * time.Second):
		log.Warn("ingest server didn't signal ready after 5 seconds (may still be starting)")
	}

	apiServer := api.NewServer(store, log.With("component", "api"),
		config.GetString("api-major-version"), config.GetString("api-minor-version"))
	httpServer := &http.Server{
		Addr:    config.GetString("http-addr"),
		Handler: apiServer.Router(),
	}
	httpErrChan := make(chan error, 1)
	go func() {
		log.Info("http api listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("received signal, shutting down gracefully")
	case err := <-serverErrChan:
		log.Error("ingest server error", "error", err)
	case err := <-httpErrChan:
		log.Error("http api error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("stopping http api", "error", err)
	}
	if err := server.Stop(); err != nil {
		log.Error("stopping ingest server", "error", err)
	}
	return nil
}
