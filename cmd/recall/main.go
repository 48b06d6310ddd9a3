package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/recall/internal/config"
	"github.com/conorfennell/recall/internal/srs"
	"github.com/conorfennell/recall/internal/storage"
	"github.com/conorfennell/recall/internal/sync"
	"github.com/conorfennell/recall/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("recall failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("recall", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	addSource := flags.String("add-source", "", "Add a deck source: a local directory or a git URL")
	doSync := flags.Bool("sync", false, "Sync all deck sources and schedule new content")
	report := flags.Bool("report", false, "Print a performance report as JSON")
	serve := flags.Bool("serve", false, "Serve the JSON API")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// 2. Open the database
	db, err := storage.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Debug("Database opened", "path", cfg.DB.Path)

	engineOpts := []srs.Option{srs.WithLogger(slog.Default())}
	if cfg.Engine.Seed != 0 {
		engineOpts = append(engineOpts, srs.WithSeed(cfg.Engine.Seed))
	}
	engine := srs.New(engineOpts...)
	syncOpts := sync.Options{ReposDir: cfg.Repos.Dir, AgeGroup: cfg.AgeGroup()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Run the requested actions in order
	if *addSource != "" {
		if _, err := sync.AddSource(db, *addSource); err != nil {
			return err
		}
	}
	if *doSync {
		summary, err := sync.RunSync(ctx, db, engine, syncOpts)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d sources: %d cards scheduled, %d removed, %d errors.\n",
			summary.Sources, summary.Scheduled, summary.Orphaned, summary.Errors)
	}
	if *report {
		if err := printReport(db); err != nil {
			return err
		}
	}
	if *serve {
		return serveHTTP(ctx, cfg.HTTP.Addr, web.NewServer(db, engine, web.Options{
			AgeGroup:       cfg.AgeGroup(),
			SessionMinutes: cfg.Session.Minutes,
			Sync:           syncOpts,
		}))
	}
	if *addSource == "" && !*doSync && !*report {
		flags.Usage()
	}
	return nil
}

func printReport(db *storage.DB) error {
	cards, err := db.ListCards()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(srs.AnalyzePerformance(cards))
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
