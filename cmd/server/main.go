// Package main runs the AgriNathi API server, which answers farmers'
// spoken and typed questions in isiZulu and English, diagnoses plant photos
// and serves weather and admin endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/platform/postgres"
)

// options are the command line flags.
type options struct {
	migrate string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("agrinathi: %v", err)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("agrinathi-api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a database migration command (up, down, status, reset) and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.migrate {
	case "", postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateReset:
	default:
		err := fmt.Errorf("invalid -migrate value %q", opts.migrate)
		fmt.Fprintln(output, err)
		return options{}, err
	}
	return opts, nil
}

// run loads configuration and either migrates the database or serves the API.
func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if opts.migrate != "" {
		defer closeDB(db.Close, l)
		return postgres.Migrate(ctx, db, opts.migrate, l)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		closeDB(db.Close, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func closeDB(closeFn func() error, l *slog.Logger) {
	if err := closeFn(); err != nil {
		l.Error("Error closing database connection", "error", err)
	}
}
