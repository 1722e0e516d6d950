// Package app implements the application layer for catalyst.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.trai.ch/catalyst/internal/adapters/detector"
	"go.trai.ch/catalyst/internal/adapters/httpapi"
	"go.trai.ch/catalyst/internal/adapters/sessions"
	"go.trai.ch/catalyst/internal/adapters/upstream"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
	"go.trai.ch/catalyst/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	runner       ports.TaskRunner
	unpacker     ports.Unpacker
	tracer       ports.Tracer

	configPath string
	httpClient *http.Client
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	runner ports.TaskRunner,
	unpacker ports.Unpacker,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		runner:       runner,
		unpacker:     unpacker,
		tracer:       tracer,
	}
}

// WithHTTPClient sets the client used to reach the generation service.
// This is primarily used for testing.
func (a *App) WithHTTPClient(c *http.Client) *App {
	a.httpClient = c
	return a
}

// GlobalOptions holds settings shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogFormat  string
}

// Configure applies the global options. The log format is resolved against
// the detected environment.
func (a *App) Configure(opts GlobalOptions) error {
	a.configPath = opts.ConfigPath

	format, err := detector.ResolveFormat(detector.DetectEnvironment(), opts.LogFormat)
	if err != nil {
		return err
	}
	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(format == detector.FormatJSON)
	}
	return nil
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	// Listen overrides the configured address when set.
	Listen string
}

// Serve runs the HTTP API and the session janitor until ctx ends. Workers
// still running at shutdown are waited for before Serve returns.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	store, err := sessions.NewStore(cfg.Storage.Path)
	if err != nil {
		return err
	}

	orch := orchestrator.NewOrchestrator(cfg, a.runner, a.newGenerator(cfg), a.unpackerFor(cfg), store, a.logger, a.tracer)
	defer orch.Close()

	server := httpapi.NewServer(cfg.Server, orch, a.logger)
	janitor := sessions.NewJanitor(store, a.logger, cfg.Storage.TTL, cfg.Storage.SweepInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return janitor.Run(ctx)
	})
	return g.Wait()
}

// RunOptions holds the request data for a one-shot job run.
type RunOptions struct {
	Resume         string
	JobDescription string
	Directory      string
}

// RunJob runs a single job and writes its output to out.
func (a *App) RunJob(ctx context.Context, name string, opts RunOptions, out io.Writer) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Jobs[name]; !ok {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownJob, "run job"), "job", name),
			"available", domain.JobNames(cfg.Jobs))
	}

	orch := orchestrator.NewOrchestrator(cfg, a.runner, nil, a.unpackerFor(cfg), nil, a.logger, a.tracer)
	defer orch.Close()

	outcome := orch.RunJob(ctx, name, domain.JobInput{
		Resume:         opts.Resume,
		JobDescription: opts.JobDescription,
		Directory:      opts.Directory,
	})
	if !outcome.OK() {
		return zerr.With(zerr.Wrap(domain.ErrJobFailed, outcome.Failure.Message), "reason", string(outcome.Failure.Reason))
	}

	if _, err := fmt.Fprintln(out, outcome.Value); err != nil {
		return zerr.Wrap(err, "failed to write job output")
	}
	return nil
}

// ListSessions returns the stored sessions, oldest first.
func (a *App) ListSessions(_ context.Context) ([]domain.Session, error) {
	store, _, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return store.List()
}

// DeleteSession removes a session and its files.
func (a *App) DeleteSession(_ context.Context, id string) error {
	store, _, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Delete(id); err != nil {
		return err
	}
	a.logger.Info("removed session " + id)
	return nil
}

// PruneSessions removes sessions older than olderThan. Zero uses the configured TTL.
func (a *App) PruneSessions(_ context.Context, olderThan time.Duration) ([]string, error) {
	store, cfg, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if olderThan == 0 {
		olderThan = cfg.Storage.TTL
	}
	if olderThan <= 0 {
		a.logger.Warn("session expiry is disabled; pass --older-than to prune")
		return nil, nil
	}

	ids, err := store.Prune(olderThan)
	if err != nil {
		return ids, err
	}
	a.logger.Info(fmt.Sprintf("pruned %d session(s) older than %s", len(ids), olderThan))
	return ids, nil
}

func (a *App) openStore() (*sessions.Store, *domain.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := sessions.NewStore(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func (a *App) loadConfig() (*domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get current working directory")
	}

	cfg, err := a.configLoader.Load(cwd, a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// sizeLimiter is implemented by unpackers that bound decompressed sizes.
type sizeLimiter interface {
	WithLimits(maxEntry, maxTotal int64) ports.Unpacker
}

// unpackerFor applies the configured extraction limits when the unpacker supports them.
func (a *App) unpackerFor(cfg *domain.Config) ports.Unpacker {
	if l, ok := a.unpacker.(sizeLimiter); ok {
		return l.WithLimits(cfg.Upstream.MaxEntryBytes, cfg.Upstream.MaxExtractedBytes)
	}
	return a.unpacker
}

func (a *App) newGenerator(cfg *domain.Config) *upstream.Client {
	var opts []upstream.Option
	if a.httpClient != nil {
		opts = append(opts, upstream.WithHTTPClient(a.httpClient))
	}
	return upstream.NewClient(cfg.Upstream, opts...)
}
