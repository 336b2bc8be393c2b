// scenario replays scripted games against the effect engine.
//
// Usage:
//
//	go run ./cmd/scenario internal/scenario/testdata
//	go run ./cmd/scenario -list-effects
//	L5R_CONFIG=config/scenario.yaml go run ./cmd/scenario a.yaml b.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/l5rgo/internal/config"
	"github.com/udisondev/l5rgo/internal/data"
	"github.com/udisondev/l5rgo/internal/db"
	"github.com/udisondev/l5rgo/internal/logger"
	"github.com/udisondev/l5rgo/internal/scenario"
)

const ConfigPath = "config/scenario.yaml"

var errScenariosFailed = errors.New("scenarios failed")

func main() {
	listEffects := flag.Bool("list-effects", false, "print the effects a scenario may activate and exit")
	flag.Parse()

	if *listEffects {
		for _, name := range scenario.EffectNames() {
			fmt.Println(name)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, flag.Args()); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfgPath := ConfigPath
	if p := os.Getenv("L5R_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closer := logger.Setup(cfg)
	defer closer.Close()
	slog.Info("scenario runner starting", "log_level", cfg.LogLevel, "parallelism", cfg.Parallelism)

	catalog, err := data.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading card catalog: %w", err)
	}
	slog.Info("card catalog loaded", "cards", catalog.Len())

	paths, err := scenarioPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no scenarios given")
	}

	var journals *db.JournalRepository
	if cfg.SaveJournals {
		dsn := cfg.Database.DSN()
		version, err := db.RunMigrations(ctx, dsn)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied", "version", version)

		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		journals = database.Journals()
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for _, path := range paths {
		g.Go(func() error {
			res, err := runOne(gctx, cfg, catalog, path)
			if err != nil {
				// Провал сценария не останавливает остальные
				if errors.Is(err, context.Canceled) {
					return err
				}
				failed.Add(1)
				slog.Error("scenario failed", "path", path, "err", err)
				return nil
			}
			slog.Info("scenario passed",
				"name", res.Name,
				"steps", res.Steps,
				"journal", res.Journal.Len(),
				"digest", res.Journal.Digest())

			if journals == nil {
				return nil
			}
			id, err := journals.Save(gctx, res.Journal)
			if err != nil {
				return fmt.Errorf("saving journal of %q: %w", res.Name, err)
			}
			slog.Debug("journal stored", "name", res.Name, "id", id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d: %w", n, len(paths), errScenariosFailed)
	}
	slog.Info("all scenarios passed", "count", len(paths))
	return nil
}

func runOne(ctx context.Context, cfg config.Config, catalog *data.Catalog, path string) (*scenario.Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return scenario.Run(ctx, catalog, sc)
}

// scenarioPaths expands directories to the scenario files inside them.
func scenarioPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("scenario path: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := scenario.Glob(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
