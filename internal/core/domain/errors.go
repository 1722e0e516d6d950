package domain

import "go.trai.ch/zerr"

var (
	// ErrLaunchFailed is returned when a worker process could not be started.
	ErrLaunchFailed = zerr.New("failed to launch worker")

	// ErrTaskTimeout is returned when a worker process exceeded its time bound.
	ErrTaskTimeout = zerr.New("worker timed out")

	// ErrNonZeroExit is returned when a worker process ran but exited with a non-zero status.
	ErrNonZeroExit = zerr.New("worker exited with non-zero status")

	// ErrTaskCanceled is returned when the caller abandoned a task before it completed.
	ErrTaskCanceled = zerr.New("task canceled")

	// ErrUnknownJob is returned when a job name has no definition.
	ErrUnknownJob = zerr.New("unknown job")

	// ErrInvalidEntryPath is returned when an archive entry would be written outside its destination.
	ErrInvalidEntryPath = zerr.New("archive entry path escapes destination")

	// ErrEntryNotFound is returned when a named entry is absent from an archive.
	ErrEntryNotFound = zerr.New("file not found in zip archive")

	// ErrDuplicateEntry is returned when an archive contains the same entry name twice.
	ErrDuplicateEntry = zerr.New("duplicate archive entry")

	// ErrArchiveCorrupt is returned when the payload cannot be read as a zip archive.
	ErrArchiveCorrupt = zerr.New("invalid zip archive")

	// ErrArchiveTooLarge is returned when decompressed archive content exceeds its size limit.
	ErrArchiveTooLarge = zerr.New("archive content exceeds size limit")

	// ErrMissingArtifact is returned when a generated archive lacks one of the required files.
	ErrMissingArtifact = zerr.New("generated archive is missing an artifact")

	// ErrSessionNotFound is returned when a session or a file inside it cannot be resolved.
	ErrSessionNotFound = zerr.New("session file not found")

	// ErrUpstreamFailed is returned when the remote generation service is unreachable or answers with an error.
	ErrUpstreamFailed = zerr.New("generation service request failed")

	// ErrUpstreamEmpty is returned when the remote generation service answers with an empty body.
	ErrUpstreamEmpty = zerr.New("generation service returned an empty payload")

	// ErrStoreCreateFailed is returned when a session directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create session directory")

	// ErrStoreWriteFailed is returned when session data cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write session data")

	// ErrStoreReadFailed is returned when a session manifest cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read session manifest")

	// ErrStoreDeleteFailed is returned when a session directory cannot be removed.
	ErrStoreDeleteFailed = zerr.New("failed to delete session")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file parses but holds unusable values.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrUnknownLogFormat is returned when --log-format names no known format.
	ErrUnknownLogFormat = zerr.New("unknown log format")

	// ErrServeFailed is returned when the HTTP server stops with an error.
	ErrServeFailed = zerr.New("http server failed")

	// ErrJobFailed is returned by one-shot job runs that end in a failure outcome.
	ErrJobFailed = zerr.New("job failed")
)
