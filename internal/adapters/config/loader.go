// Package config provides the configuration loader for catalyst.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvListen      = "CATALYST_LISTEN"
	EnvStoragePath = "CATALYST_STORAGE_PATH"
	EnvUpstreamURL = "CATALYST_UPSTREAM_URL"
	EnvScriptsDir  = "CATALYST_SCRIPTS_DIR"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load resolves the configuration. An explicit path must exist; otherwise
// catalyst.yaml is searched for from cwd upward and defaults apply when none
// is found. Relative paths in the file are resolved against its directory.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	base := cwd

	configPath := path
	if configPath != "" && !filepath.IsAbs(configPath) {
		configPath = filepath.Join(cwd, configPath)
	}
	if configPath == "" {
		configPath = findConfiguration(cwd)
	}

	if configPath != "" {
		var file File
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, zerr.With(err, "file", configPath)
		}
		if err := apply(&cfg, &file); err != nil {
			return nil, zerr.With(err, "file", configPath)
		}
		base = filepath.Dir(configPath)
	} else if l.Logger != nil {
		l.Logger.Info(fmt.Sprintf("no %s found, using defaults", domain.ConfigFileName))
	}

	cfg.Storage.Path = resolvePath(base, cfg.Storage.Path)
	cfg.Runner.ScriptsDir = resolvePath(base, cfg.Runner.ScriptsDir)

	l.applyEnv(&cfg, cwd)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file strictly: unknown keys are errors.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the operator
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "read config"), "reason", err.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "parse config"), "reason", err.Error())
	}
	return nil
}

func apply(cfg *domain.Config, file *File) error {
	if err := applyServer(&cfg.Server, file.Server); err != nil {
		return err
	}
	if err := applyStorage(&cfg.Storage, file.Storage); err != nil {
		return err
	}
	if err := applyUpstream(&cfg.Upstream, file.Upstream); err != nil {
		return err
	}
	if err := applyRunner(&cfg.Runner, file.Runner); err != nil {
		return err
	}
	return applyJobs(cfg.Jobs, file.Jobs)
}

func applyServer(s *domain.ServerConfig, dto ServerDTO) error {
	setString(&s.Listen, dto.Listen)
	if dto.AllowedOrigins != nil {
		s.AllowedOrigins = dto.AllowedOrigins
	}
	if dto.MaxBodyBytes != nil {
		s.MaxBodyBytes = *dto.MaxBodyBytes
	}
	return setDuration(&s.ShutdownTimeout, dto.ShutdownTimeout, "server.shutdownTimeout")
}

func applyStorage(s *domain.StorageConfig, dto StorageDTO) error {
	setString(&s.Path, dto.Path)
	if err := setDuration(&s.TTL, dto.TTL, "storage.ttl"); err != nil {
		return err
	}
	return setDuration(&s.SweepInterval, dto.SweepInterval, "storage.sweepInterval")
}

func applyUpstream(u *domain.UpstreamConfig, dto UpstreamDTO) error {
	setString(&u.URL, dto.URL)
	if dto.RateLimit != nil {
		u.RateLimit = *dto.RateLimit
	}
	if dto.Burst != nil {
		u.Burst = *dto.Burst
	}
	if dto.MaxResponseBytes != nil {
		u.MaxResponseBytes = *dto.MaxResponseBytes
	}
	if dto.MaxEntryBytes != nil {
		u.MaxEntryBytes = *dto.MaxEntryBytes
	}
	if dto.MaxExtractedBytes != nil {
		u.MaxExtractedBytes = *dto.MaxExtractedBytes
	}
	return setDuration(&u.Timeout, dto.Timeout, "upstream.timeout")
}

func applyRunner(r *domain.RunnerConfig, dto RunnerDTO) error {
	setString(&r.Program, dto.Program)
	setString(&r.ScriptsDir, dto.ScriptsDir)
	if dto.MaxConcurrent != nil {
		r.MaxConcurrent = *dto.MaxConcurrent
	}
	for k, v := range dto.Env {
		if r.Env == nil {
			r.Env = make(map[string]string, len(dto.Env))
		}
		r.Env[k] = os.ExpandEnv(v)
	}
	if err := setDuration(&r.InteractiveTimeout, dto.InteractiveTimeout, "runner.interactiveTimeout"); err != nil {
		return err
	}
	return setDuration(&r.BatchTimeout, dto.BatchTimeout, "runner.batchTimeout")
}

// applyJobs overlays file job definitions on the built-in table.
func applyJobs(jobs map[string]domain.Job, dtos map[string]JobDTO) error {
	for name, dto := range dtos {
		job, ok := jobs[name]
		if !ok {
			job = domain.Job{Name: name, Input: domain.InputCombined, Class: domain.ClassInteractive}
		}
		setString(&job.Script, dto.Script)
		if dto.Input != "" {
			job.Input = domain.InputMode(dto.Input)
		}
		if dto.Class != "" {
			job.Class = domain.TimeoutClass(dto.Class)
		}
		if err := setDuration(&job.Timeout, dto.Timeout, "jobs."+name+".timeout"); err != nil {
			return err
		}
		jobs[name] = job
	}
	return nil
}

func (l *Loader) applyEnv(cfg *domain.Config, cwd string) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	setString(&cfg.Server.Listen, getenv(EnvListen))
	setString(&cfg.Upstream.URL, getenv(EnvUpstreamURL))
	if v := getenv(EnvStoragePath); v != "" {
		cfg.Storage.Path = resolvePath(cwd, v)
	}
	if v := getenv(EnvScriptsDir); v != "" {
		cfg.Runner.ScriptsDir = resolvePath(cwd, v)
	}
}

func validate(cfg *domain.Config) error {
	durations := map[string]time.Duration{
		"server.shutdownTimeout":    cfg.Server.ShutdownTimeout,
		"storage.ttl":               cfg.Storage.TTL,
		"storage.sweepInterval":     cfg.Storage.SweepInterval,
		"upstream.timeout":          cfg.Upstream.Timeout,
		"runner.interactiveTimeout": cfg.Runner.InteractiveTimeout,
		"runner.batchTimeout":       cfg.Runner.BatchTimeout,
	}
	for name, job := range cfg.Jobs {
		durations["jobs."+name+".timeout"] = job.Timeout
	}
	for _, field := range slices.Sorted(maps.Keys(durations)) {
		if durations[field] < 0 {
			return invalid(field, "must not be negative")
		}
	}

	switch {
	case cfg.Server.Listen == "":
		return invalid("server.listen", "must not be empty")
	case cfg.Server.MaxBodyBytes <= 0:
		return invalid("server.maxBodyBytes", "must be positive")
	case cfg.Upstream.URL == "":
		return invalid("upstream.url", "must not be empty")
	case cfg.Upstream.RateLimit < 0:
		return invalid("upstream.rateLimit", "must not be negative")
	case cfg.Upstream.MaxResponseBytes <= 0:
		return invalid("upstream.maxResponseBytes", "must be positive")
	case cfg.Upstream.MaxEntryBytes <= 0:
		return invalid("upstream.maxEntryBytes", "must be positive")
	case cfg.Upstream.MaxExtractedBytes <= 0:
		return invalid("upstream.maxExtractedBytes", "must be positive")
	case cfg.Runner.Program == "":
		return invalid("runner.program", "must not be empty")
	case cfg.Runner.MaxConcurrent < 1:
		return invalid("runner.maxConcurrent", "must be at least 1")
	}

	for _, name := range domain.JobNames(cfg.Jobs) {
		job := cfg.Jobs[name]
		switch {
		case job.Script == "":
			return invalid("jobs."+name+".script", "must not be empty")
		case !job.Input.Valid():
			return zerr.With(invalid("jobs."+name+".input", "unknown input mode"), "value", string(job.Input))
		case job.Class != domain.ClassInteractive && job.Class != domain.ClassBatch:
			return zerr.With(invalid("jobs."+name+".class", "unknown timeout class"), "value", string(job.Class))
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, reason), "field", field)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return zerr.With(invalid(field, "not a duration"), "value", v)
	}
	*dst = d
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
