package domain

import (
	"path/filepath"
	"slices"
	"time"
)

// InputMode selects how a job's request reaches the worker.
type InputMode string

const (
	// InputCombined writes the resume and job description to stdin, split by InputDelimiter.
	InputCombined InputMode = "combined"
	// InputJobDescription writes only the job description to stdin.
	InputJobDescription InputMode = "jd"
	// InputArgs passes the directory and job description as arguments and sends no stdin.
	InputArgs InputMode = "args"
)

// InputDelimiter separates the resume from the job description on a worker's stdin.
const InputDelimiter = "\n---DELIMITER---\n"

// Valid reports whether m is a known input mode.
func (m InputMode) Valid() bool {
	switch m {
	case InputCombined, InputJobDescription, InputArgs:
		return true
	default:
		return false
	}
}

// TimeoutClass groups jobs that share a default time bound.
type TimeoutClass string

const (
	// ClassInteractive is for jobs a user waits on.
	ClassInteractive TimeoutClass = "interactive"
	// ClassBatch is for bulk jobs over many files.
	ClassBatch TimeoutClass = "batch"
)

// Built-in job names.
const (
	JobTailor      = "tailor"
	JobEvaluate    = "evaluate"
	JobCoverLetter = "cover-letter"
	JobInterview   = "interview"
	JobBulkScore   = "bulk-score"
)

// Job is a named worker recipe.
type Job struct {
	Name   string
	Script string
	Input  InputMode
	Class  TimeoutClass
	// Timeout overrides the class default when non-zero.
	Timeout time.Duration
}

// JobInput is the request data a job feeds to its worker.
type JobInput struct {
	Resume         string
	JobDescription string
	Directory      string
}

// Payload returns the stdin text and extra arguments for the job.
// A nil input means the worker receives no stdin.
func (j Job) Payload(in JobInput) (*string, []string) {
	switch j.Input {
	case InputJobDescription:
		s := in.JobDescription
		return &s, nil
	case InputArgs:
		return nil, []string{in.Directory, in.JobDescription}
	default:
		s := in.Resume + InputDelimiter + in.JobDescription
		return &s, nil
	}
}

// ScriptPath resolves the job's script against dir unless it is already absolute.
func (j Job) ScriptPath(dir string) string {
	if filepath.IsAbs(j.Script) || dir == "" {
		return j.Script
	}
	return filepath.Join(dir, j.Script)
}

// DefaultJobs returns the built-in job table.
func DefaultJobs() map[string]Job {
	return map[string]Job{
		JobTailor:      {Name: JobTailor, Script: "scripts/tailor.py", Input: InputCombined, Class: ClassInteractive},
		JobEvaluate:    {Name: JobEvaluate, Script: "scripts1/evaluate.py", Input: InputCombined, Class: ClassInteractive},
		JobCoverLetter: {Name: JobCoverLetter, Script: "scripts2/coverletter.py", Input: InputCombined, Class: ClassInteractive},
		JobInterview:   {Name: JobInterview, Script: "scripts3/interview_generator.py", Input: InputJobDescription, Class: ClassInteractive},
		JobBulkScore:   {Name: JobBulkScore, Script: "scripts/bulk_score.py", Input: InputArgs, Class: ClassBatch},
	}
}

// JobNames returns the sorted names in a job table.
func JobNames(jobs map[string]Job) []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
