// Package orchestrator composes the task runner, the generation client, the
// unpacker, and the session store into caller-facing operations.
package orchestrator

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Orchestrator turns requests into worker runs and generation sessions.
// Every operation returns a domain.Outcome; errors and panics never escape.
type Orchestrator struct {
	runner    ports.TaskRunner
	generator ports.Generator
	unpacker  ports.Unpacker
	store     ports.SessionStore
	logger    ports.Logger
	tracer    ports.Tracer

	runnerCfg domain.RunnerConfig
	jobs      map[string]domain.Job

	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewOrchestrator creates an Orchestrator for the given configuration.
func NewOrchestrator(
	cfg *domain.Config,
	runner ports.TaskRunner,
	generator ports.Generator,
	unpacker ports.Unpacker,
	store ports.SessionStore,
	logger ports.Logger,
	tracer ports.Tracer,
) *Orchestrator {
	limit := int64(max(cfg.Runner.MaxConcurrent, 1))
	return &Orchestrator{
		runner:    runner,
		generator: generator,
		unpacker:  unpacker,
		store:     store,
		logger:    logger,
		tracer:    tracer,
		runnerCfg: cfg.Runner,
		jobs:      cfg.Jobs,
		sem:       semaphore.NewWeighted(limit),
	}
}

// Jobs returns the names of the configured jobs.
func (o *Orchestrator) Jobs() []string {
	return domain.JobNames(o.jobs)
}

// Tailor rewrites a resume for a job description.
func (o *Orchestrator) Tailor(ctx context.Context, resume, jobDescription string) domain.Outcome[string] {
	return o.RunJob(ctx, domain.JobTailor, domain.JobInput{Resume: resume, JobDescription: jobDescription})
}

// Evaluate scores a resume against a job description.
func (o *Orchestrator) Evaluate(ctx context.Context, resume, jobDescription string) domain.Outcome[string] {
	return o.RunJob(ctx, domain.JobEvaluate, domain.JobInput{Resume: resume, JobDescription: jobDescription})
}

// CoverLetter writes a cover letter for a resume and job description.
func (o *Orchestrator) CoverLetter(ctx context.Context, resume, jobDescription string) domain.Outcome[string] {
	return o.RunJob(ctx, domain.JobCoverLetter, domain.JobInput{Resume: resume, JobDescription: jobDescription})
}

// Interview produces interview questions for a job description.
func (o *Orchestrator) Interview(ctx context.Context, jobDescription string) domain.Outcome[string] {
	return o.RunJob(ctx, domain.JobInterview, domain.JobInput{JobDescription: jobDescription})
}

// BulkScore ranks every resume in dir against a job description.
func (o *Orchestrator) BulkScore(ctx context.Context, dir, jobDescription string) domain.Outcome[string] {
	return o.RunJob(ctx, domain.JobBulkScore, domain.JobInput{Directory: dir, JobDescription: jobDescription})
}

// RunJob runs the named job's worker and returns its stdout.
func (o *Orchestrator) RunJob(ctx context.Context, name string, in domain.JobInput) (out domain.Outcome[string]) {
	defer zerr.Defer(recoverInto(o.logger, &out))

	job, ok := o.jobs[name]
	if !ok {
		return domain.FailWith[string](zerr.With(zerr.Wrap(domain.ErrUnknownJob, "lookup job"), "job", name))
	}

	res, err := o.dispatch(ctx, o.taskFor(job, in))
	if err != nil {
		o.logger.Error(zerr.With(err, "job", name))
		return domain.Fail[string](domain.ReasonInternal, err.Error())
	}
	if !res.OK() {
		o.logger.Error(zerr.With(zerr.Wrap(res.Err(), "job failed"), "job", name))
		return domain.FailWith[string](res.Err())
	}
	return domain.Ok(res.Stdout())
}

func (o *Orchestrator) taskFor(job domain.Job, in domain.JobInput) domain.Task {
	input, extra := job.Payload(in)
	args := append([]string{job.ScriptPath(o.runnerCfg.ScriptsDir)}, extra...)

	opts := []domain.TaskOption{
		domain.WithArgs(args...),
		domain.WithEnv(o.runnerCfg.Env),
		domain.WithWorkingDir(o.runnerCfg.ScriptsDir),
		domain.WithTimeout(o.runnerCfg.TimeoutFor(job)),
	}
	if input != nil {
		opts = append(opts, domain.WithInput(*input))
	}
	return domain.NewTask(job.Name, o.runnerCfg.Program, opts...)
}

type result struct {
	task domain.TaskResult
	err  error
}

// dispatch runs the task on its own goroutine. The worker is bounded only by
// its timeout; a caller that leaves early gets a canceled result while the
// worker finishes in the background.
func (o *Orchestrator) dispatch(ctx context.Context, task domain.Task) (domain.TaskResult, error) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return domain.Failed(domain.KindCanceled, "request ended before a worker slot was free", -1), nil
	}

	done := make(chan result, 1)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.sem.Release(1)
		defer zerr.Defer(func(err error) {
			done <- result{err: err}
		})

		done <- result{task: o.runner.Run(context.WithoutCancel(ctx), task)}
	}()

	select {
	case r := <-done:
		return r.task, r.err
	case <-ctx.Done():
		return domain.Failed(domain.KindCanceled, "request ended before the worker finished", -1), nil
	}
}

// Generate asks the generation service for a resume and stores the returned
// archive in a fresh session.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerateRequest) (out domain.Outcome[domain.ArtifactSet]) {
	defer zerr.Defer(recoverInto(o.logger, &out))

	ctx, span := o.tracer.Start(ctx, "generate")
	defer span.End()
	span.SetAttribute("template", req.TemplateName)

	payload, err := o.generator.Generate(ctx, req)
	if err != nil {
		return failure[domain.ArtifactSet](o.logger, span, err)
	}

	session, err := o.store.Create()
	if err != nil {
		return failure[domain.ArtifactSet](o.logger, span, err)
	}
	span.SetAttribute("session.id", session.ID)

	set, err := o.persist(session, payload)
	if err != nil {
		o.discard(session.ID)
		return failure[domain.ArtifactSet](o.logger, span, zerr.With(err, "session_id", session.ID))
	}
	return domain.Ok(set)
}

func (o *Orchestrator) persist(session domain.Session, payload []byte) (domain.ArtifactSet, error) {
	names, err := o.unpacker.UnpackAll(payload, session.Root)
	if err != nil {
		return domain.ArtifactSet{}, zerr.Wrap(err, "unpack failed")
	}
	for _, required := range domain.RequiredArtifacts() {
		if !slices.Contains(names, required) {
			return domain.ArtifactSet{}, zerr.With(zerr.Wrap(domain.ErrMissingArtifact, "unpack failed"), "file", required)
		}
	}
	if _, err := o.store.Commit(session, names); err != nil {
		return domain.ArtifactSet{}, err
	}
	return domain.NewArtifactSet(session.ID), nil
}

func (o *Orchestrator) discard(id string) {
	if err := o.store.Delete(id); err != nil {
		o.logger.Error(zerr.With(err, "session_id", id))
	}
}

// Preview asks the generation service for a resume and returns only its PDF.
func (o *Orchestrator) Preview(ctx context.Context, req domain.GenerateRequest) (out domain.Outcome[[]byte]) {
	defer zerr.Defer(recoverInto(o.logger, &out))

	ctx, span := o.tracer.Start(ctx, "preview")
	defer span.End()
	span.SetAttribute("template", req.TemplateName)

	payload, err := o.generator.Generate(ctx, req)
	if err != nil {
		return failure[[]byte](o.logger, span, err)
	}

	pdf, err := o.unpacker.ExtractOne(payload, domain.ResumePDF)
	if err != nil {
		return failure[[]byte](o.logger, span, err)
	}
	return domain.Ok(pdf)
}

// Download resolves a file inside a session.
func (o *Orchestrator) Download(_ context.Context, sessionID, name string) (out domain.Outcome[domain.FileHandle]) {
	defer zerr.Defer(recoverInto(o.logger, &out))

	handle, err := o.store.Resolve(sessionID, name)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			o.logger.Error(err)
		}
		return domain.FailWith[domain.FileHandle](err)
	}
	return domain.Ok(handle)
}

// Close waits for dispatched workers to finish.
func (o *Orchestrator) Close() {
	o.wg.Wait()
}

func failure[T any](logger ports.Logger, span ports.Span, err error) domain.Outcome[T] {
	span.RecordError(err)
	logger.Error(err)
	return domain.FailWith[T](err)
}

func recoverInto[T any](logger ports.Logger, out *domain.Outcome[T]) func(error) {
	return func(err error) {
		logger.Error(err)
		*out = domain.Fail[T](domain.ReasonInternal, err.Error())
	}
}
