package domain

import (
	"maps"
	"slices"
	"time"
)

// Task describes one worker process invocation.
// A Task is built with NewTask and treated as immutable afterwards.
type Task struct {
	Name       string
	Program    string
	Args       []string
	Input      *string
	Env        map[string]string
	WorkingDir string
	Timeout    time.Duration
}

// TaskOption configures a Task under construction.
type TaskOption func(*Task)

// NewTask builds a Task for the given program.
func NewTask(name, program string, opts ...TaskOption) Task {
	t := Task{Name: name, Program: program}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithArgs sets the invocation arguments.
func WithArgs(args ...string) TaskOption {
	return func(t *Task) {
		t.Args = slices.Clone(args)
	}
}

// WithInput sets the text written to the worker's standard input.
func WithInput(input string) TaskOption {
	return func(t *Task) {
		t.Input = &input
	}
}

// WithEnv merges environment overrides into the task.
func WithEnv(env map[string]string) TaskOption {
	return func(t *Task) {
		if len(env) == 0 {
			return
		}
		if t.Env == nil {
			t.Env = make(map[string]string, len(env))
		}
		maps.Copy(t.Env, env)
	}
}

// WithWorkingDir sets the directory the worker starts in.
func WithWorkingDir(dir string) TaskOption {
	return func(t *Task) {
		t.WorkingDir = dir
	}
}

// WithTimeout sets the upper bound on the worker's run time.
func WithTimeout(d time.Duration) TaskOption {
	return func(t *Task) {
		t.Timeout = d
	}
}
