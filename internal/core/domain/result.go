package domain

// FailureKind classifies why a task did not succeed.
type FailureKind int

const (
	// KindLaunchError means the worker could not be started.
	KindLaunchError FailureKind = iota + 1
	// KindTimeout means the worker exceeded its time bound and was killed.
	KindTimeout
	// KindNonZeroExit means the worker ran and exited with a non-zero status.
	KindNonZeroExit
	// KindCanceled means the caller's context ended before the worker did.
	KindCanceled
)

// String returns the short name of the kind.
func (k FailureKind) String() string {
	switch k {
	case KindLaunchError:
		return "launch"
	case KindTimeout:
		return "timeout"
	case KindNonZeroExit:
		return "exit"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case KindLaunchError:
		return ErrLaunchFailed
	case KindTimeout:
		return ErrTaskTimeout
	case KindNonZeroExit:
		return ErrNonZeroExit
	case KindCanceled:
		return ErrTaskCanceled
	default:
		return nil
	}
}

// TaskFailure carries the details of a failed task.
type TaskFailure struct {
	Kind       FailureKind
	Diagnostic string
	// ExitCode is the worker's exit status, or -1 when it never exited on its own.
	ExitCode int
}

// Error implements the error interface.
func (f *TaskFailure) Error() string {
	msg := "task failed"
	if s := f.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if f.Diagnostic == "" {
		return msg
	}
	return msg + ": " + f.Diagnostic
}

// Unwrap exposes the sentinel for the failure kind so errors.Is works.
func (f *TaskFailure) Unwrap() error {
	return f.Kind.sentinel()
}

// TaskResult is the outcome of a single task: either stdout text or a failure, never both.
type TaskResult struct {
	stdout  string
	failure *TaskFailure
}

// Succeeded returns a successful result carrying the worker's stdout.
func Succeeded(stdout string) TaskResult {
	return TaskResult{stdout: stdout}
}

// Failed returns a failed result.
func Failed(kind FailureKind, diagnostic string, exitCode int) TaskResult {
	return TaskResult{failure: &TaskFailure{Kind: kind, Diagnostic: diagnostic, ExitCode: exitCode}}
}

// OK reports whether the task succeeded.
func (r TaskResult) OK() bool {
	return r.failure == nil
}

// Stdout returns the captured standard output of a successful task.
func (r TaskResult) Stdout() string {
	return r.stdout
}

// Failure returns the failure details, or nil on success.
func (r TaskResult) Failure() *TaskFailure {
	return r.failure
}

// Err returns the failure as an error, or nil on success.
func (r TaskResult) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
