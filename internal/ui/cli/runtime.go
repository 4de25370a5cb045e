package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "readsanalyzer/internal/core/app"
	"readsanalyzer/internal/core/config"
	"readsanalyzer/internal/core/ports"
	"readsanalyzer/internal/data/history"
	"readsanalyzer/internal/shared/observability"
	"readsanalyzer/internal/shared/util"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("readsanalyzer v%s\n", versionString)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	historyStore, err := openHistoryStoreIfEnabled(cfg.DB.Enabled || opts.history, cfg)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return 1
	}
	if historyStore != nil {
		defer historyStore.Close()
	}

	if opts.history {
		if err := runHistoryMode(ctx, opts, cfg, historyStore); err != nil {
			slog.Error("history mode failed", "error", err)
			return 1
		}
		return 0
	}

	deps := coreapp.Dependencies{}
	if historyStore != nil && cfg.DB.Enabled {
		deps.History = historyStore
	}
	app, err := coreapp.NewWithDependencies(cfg, deps)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		srv := NewObservabilityServer(addr, func() HealthStatus {
			return HealthStatus{
				Status:        "up",
				Reads:         app.Graph.Ingested(),
				DistinctReads: app.Graph.Len(),
				Edges:         app.Graph.EdgeCount(),
			}
		})
		if err := srv.Start(); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	var ingest ports.IngestResult
	if len(cfg.Inputs.Paths) > 0 {
		ingest, err = app.IngestPaths(ctx, ports.IngestRequest{})
		if err != nil {
			slog.Error("ingestion failed", "error", err)
			return 1
		}
	}

	result, err := app.Assemble(ctx)
	if err != nil {
		slog.Error("assembly failed", "error", err)
		return 1
	}

	if !opts.ui {
		fmt.Print(renderSummary(ingest, result, cfg.Output.Assembly))
	}

	if cfg.Watch.Enabled {
		if err := app.StartWatcher(); err != nil {
			slog.Error("failed to start watcher", "error", err)
			return 1
		}
		slog.Info("watching for new reads", "paths", cfg.Inputs.Paths)
	}

	if opts.ui {
		if err := runUI(ctx, app, result, historyStore, cfg.DB.Project); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	if cfg.Watch.Enabled {
		<-ctx.Done()
		slog.Info("shutting down")
	}
	return 0
}

// loadConfig reads path. The default path is optional: when it does not exist
// the built-in defaults (plus environment overrides) are used.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path != defaultConfigPath || !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	slog.Debug("no config file found, using defaults", "path", path)
	cfg = config.DefaultConfig()
	config.ApplyEnvOverrides(cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// applyModeOptions folds command-line overrides into cfg and re-validates it.
func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.history && (opts.ui || opts.watch) {
		return fmt.Errorf("--history cannot be combined with --ui or --watch")
	}
	if opts.historyJSON != "" && !opts.history {
		return fmt.Errorf("--history-json requires --history")
	}
	if opts.historyLimit < 0 {
		return fmt.Errorf("--history-limit must not be negative")
	}

	if opts.kmerSize != 0 {
		cfg.Kmers.Size = opts.kmerSize
	}
	if opts.minOverlap != 0 {
		cfg.Overlap.MinOverlap = opts.minOverlap
	}
	if opts.noKmers {
		disabled := false
		cfg.Kmers.Enabled = &disabled
	}
	if strings.TrimSpace(opts.output) != "" {
		cfg.Output.Assembly = strings.TrimSpace(opts.output)
	}
	if strings.TrimSpace(opts.format) != "" {
		cfg.Inputs.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if opts.watch {
		cfg.Watch.Enabled = true
	}
	if opts.db {
		cfg.DB.Enabled = true
	}
	if len(opts.args) > 0 {
		cfg.Inputs.Paths = append([]string(nil), opts.args...)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.Join(errs...)
	}

	if !opts.history && len(cfg.Inputs.Paths) == 0 && !cfg.Watch.Enabled {
		return fmt.Errorf("no input paths: pass read files or directories, or set inputs.paths")
	}
	if cfg.Watch.Enabled && len(cfg.Inputs.Paths) == 0 {
		return fmt.Errorf("--watch requires at least one input directory")
	}
	return nil
}

func openHistoryStoreIfEnabled(enabled bool, cfg *config.Config) (*history.Store, error) {
	if !enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.DB.Path, cfg.DB.BusyTimeout)
	if err != nil {
		if history.IsCorruptError(err) {
			return nil, fmt.Errorf("history database %q is corrupt; move it aside to start fresh: %w", cfg.DB.Path, err)
		}
		return nil, err
	}
	return store, nil
}

func runHistoryMode(ctx context.Context, opts cliOptions, cfg *config.Config, store ports.HistoryStore) error {
	if store == nil {
		return fmt.Errorf("history store unavailable")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runs, err := store.LoadRuns(cfg.DB.Project, time.Time{}, opts.historyLimit)
	if err != nil {
		return err
	}
	fmt.Print(renderHistory(cfg.DB.Project, runs))

	if opts.historyJSON != "" {
		raw, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("render history JSON: %w", err)
		}
		if err := util.WriteOutput(opts.historyJSON, string(raw)+"\n"); err != nil {
			return fmt.Errorf("write history JSON %q: %w", opts.historyJSON, err)
		}
	}
	return nil
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "readsanalyzer", "readsanalyzer.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "readsanalyzer", "readsanalyzer.log")
	}

	return "readsanalyzer.log"
}
