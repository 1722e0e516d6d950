package domain

import "errors"

// Reason is the caller-facing classification of a failed operation.
type Reason string

// Failure reasons.
const (
	ReasonLaunch   Reason = "launch"
	ReasonTimeout  Reason = "timeout"
	ReasonExit     Reason = "exit"
	ReasonArchive  Reason = "archive"
	ReasonUpstream Reason = "upstream"
	ReasonNotFound Reason = "not_found"
	ReasonCanceled Reason = "canceled"
	ReasonInvalid  Reason = "invalid"
	ReasonInternal Reason = "internal"
)

// Failure is a failed outcome with a short diagnostic for presentation.
type Failure struct {
	Reason  Reason
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Outcome is either a value or a failure, handed from the orchestrator to the boundary layer.
type Outcome[T any] struct {
	Value   T
	Failure *Failure
}

// Ok returns a successful outcome.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fail returns a failed outcome.
func Fail[T any](reason Reason, message string) Outcome[T] {
	return Outcome[T]{Failure: &Failure{Reason: reason, Message: message}}
}

// FailWith returns a failed outcome classified from err.
func FailWith[T any](err error) Outcome[T] {
	return Fail[T](ReasonFor(err), Diagnostic(err))
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool {
	return o.Failure == nil
}

// ReasonFor maps an internal error onto the caller-facing reason.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLaunchFailed):
		return ReasonLaunch
	case errors.Is(err, ErrTaskTimeout):
		return ReasonTimeout
	case errors.Is(err, ErrNonZeroExit):
		return ReasonExit
	case errors.Is(err, ErrTaskCanceled):
		return ReasonCanceled
	case errors.Is(err, ErrInvalidEntryPath),
		errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrDuplicateEntry),
		errors.Is(err, ErrArchiveCorrupt),
		errors.Is(err, ErrArchiveTooLarge),
		errors.Is(err, ErrMissingArtifact):
		return ReasonArchive
	case errors.Is(err, ErrUpstreamFailed), errors.Is(err, ErrUpstreamEmpty):
		return ReasonUpstream
	case errors.Is(err, ErrSessionNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnknownJob):
		return ReasonInvalid
	default:
		return ReasonInternal
	}
}

// Diagnostic returns the short message shown to callers for err.
// Worker failures surface their captured diagnostic text verbatim.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var tf *TaskFailure
	if errors.As(err, &tf) && tf.Kind == KindNonZeroExit && tf.Diagnostic != "" {
		return tf.Diagnostic
	}
	return err.Error()
}
