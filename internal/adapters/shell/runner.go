// Package shell runs worker programs as child processes.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
)

const (
	// DefaultTimeout bounds a task that does not carry its own timeout.
	DefaultTimeout = 2 * time.Minute
	// DefaultMaxOutputBytes caps how much of each stream is kept in memory.
	DefaultMaxOutputBytes int64 = 16 << 20
	// DefaultWaitDelay bounds the wait for pipes held open by orphaned descendants.
	DefaultWaitDelay = 2 * time.Second
)

// Runner implements ports.TaskRunner using os/exec.
type Runner struct {
	logger         ports.Logger
	tracer         ports.Tracer
	defaultTimeout time.Duration
	maxOutputBytes int64
	waitDelay      time.Duration
	environ        func() []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDefaultTimeout sets the timeout applied to tasks without one.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.defaultTimeout = d
		}
	}
}

// WithMaxOutputBytes sets the per-stream capture limit.
func WithMaxOutputBytes(n int64) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxOutputBytes = n
		}
	}
}

// WithWaitDelay sets how long Wait keeps draining pipes after the process exits.
func WithWaitDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.waitDelay = d
		}
	}
}

// WithEnviron replaces the source of the ambient environment.
func WithEnviron(fn func() []string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.environ = fn
		}
	}
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger, tracer ports.Tracer, opts ...Option) *Runner {
	r := &Runner{
		logger:         logger,
		tracer:         tracer,
		defaultTimeout: DefaultTimeout,
		maxOutputBytes: DefaultMaxOutputBytes,
		waitDelay:      DefaultWaitDelay,
		environ:        os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the task and classifies its exit.
func (r *Runner) Run(ctx context.Context, task domain.Task) domain.TaskResult {
	ctx, span := r.tracer.Start(ctx, spanName(task))
	defer span.End()

	span.SetAttribute("task.program", task.Program)

	res := r.run(ctx, task, span)
	if f := res.Failure(); f != nil {
		span.SetAttribute("task.exit_code", f.ExitCode)
		span.SetAttribute("task.failure", f.Kind.String())
		span.RecordError(f)
	} else {
		span.SetAttribute("task.exit_code", 0)
	}
	return res
}

func (r *Runner) run(ctx context.Context, task domain.Task, span ports.Span) domain.TaskResult {
	if task.Program == "" {
		return domain.Failed(domain.KindLaunchError, "no program given", -1)
	}

	timeout := task.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := resolveEnvironment(r.environ(), task.Env)

	executable := task.Program
	if !strings.ContainsRune(executable, filepath.Separator) && !strings.ContainsRune(executable, '/') {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(runCtx, executable, task.Args...) //nolint:gosec // program comes from configuration
	cmd.Args[0] = task.Program
	cmd.Dir = task.WorkingDir
	cmd.Env = env
	cmd.WaitDelay = r.waitDelay
	configureProcessGroup(cmd)

	if task.Input != nil {
		cmd.Stdin = strings.NewReader(*task.Input)
	}

	stdout := newCappedBuffer(r.maxOutputBytes)
	stderr := newCappedBuffer(r.maxOutputBytes)
	stderrLog := &logWriter{logger: r.logger, prefix: "[" + task.Name + "] "}
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, stderrLog, span)

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return domain.Failed(domain.KindCanceled, ctx.Err().Error(), -1)
		}
		return domain.Failed(domain.KindLaunchError, err.Error(), -1)
	}

	waitErr := cmd.Wait()
	reapGroup(cmd)
	_ = stderrLog.Close()

	if stdout.Truncated() || stderr.Truncated() {
		r.warn(fmt.Sprintf("%soutput exceeded %d bytes and was truncated", stderrLog.prefix, r.maxOutputBytes))
	}

	return r.classify(ctx, runCtx, timeout, waitErr, stdout, stderr)
}

func (r *Runner) classify(
	ctx, runCtx context.Context,
	timeout time.Duration,
	err error,
	stdout, stderr *cappedBuffer,
) domain.TaskResult {
	if err == nil {
		return domain.Succeeded(trimTrailingNewline(stdout.String()))
	}

	if ctx.Err() != nil {
		return domain.Failed(domain.KindCanceled, ctx.Err().Error(), -1)
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return domain.Failed(domain.KindTimeout, "process timed out after "+timeout.String(), -1)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.Failed(domain.KindNonZeroExit, strings.TrimSpace(stderr.String()), exitErr.ExitCode())
	}

	if errors.Is(err, exec.ErrWaitDelay) {
		r.warn("worker exited but a descendant kept its output open: " + err.Error())
		return domain.Succeeded(trimTrailingNewline(stdout.String()))
	}

	return domain.Failed(domain.KindNonZeroExit, err.Error(), -1)
}

func (r *Runner) warn(msg string) {
	if r.logger != nil {
		r.logger.Warn(msg)
	}
}

func spanName(task domain.Task) string {
	if task.Name != "" {
		return task.Name
	}
	return filepath.Base(task.Program)
}

func trimTrailingNewline(s string) string {
	if rest, ok := strings.CutSuffix(s, "\n"); ok {
		return strings.TrimSuffix(rest, "\r")
	}
	return s
}

// resolveEnvironment merges the ambient environment with task overrides.
// Overrides win; the result is sorted for deterministic spawning.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the PATH of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
