// chessd serves two-player chess games over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/server"
	"github.com/lgbarn/chess-engine-go/internal/session"
	"github.com/lgbarn/chess-engine-go/internal/store"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chessd version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := buildConfig()
	closeLog := setupLogFile(cfg)
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(cfg.LogFile, "chessd ", log.LstdFlags)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	manager := session.NewManager(st, logger, cfg.Verbosity)
	srv := server.New(cfg, manager, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore picks SQLite when a database path is configured.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Persistent() {
		return store.NewSQLiteStore(ctx, cfg.Store.DSN)
	}
	return store.NewMemoryStore(), nil
}

// setupLogFile points cfg.LogFile at the -l file and returns its closer.
func setupLogFile(cfg *config.Config) func() {
	if *logFile == "" {
		return func() {}
	}
	file, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", *logFile, err)
		os.Exit(1)
	}
	cfg.LogFile = file
	return func() { file.Close() }
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chessd [options]\n\n")
	fmt.Fprintf(os.Stderr, "Serves two-player chess games over HTTP and websockets.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  CHESSD_ADDR, CHESSD_ORIGINS, CHESSD_DB, CHESSD_LOG,\n")
	fmt.Fprintf(os.Stderr, "  CHESSD_VERBOSITY, CHESSD_READ_BUFFER, CHESSD_WRITE_BUFFER\n")
}
