// Package judge defines the submission model shared by every judge backend.
package judge

import (
	"context"
	"strings"

	appErr "ojide/pkg/errors"
)

// Request is one run of source code against stdin. It is not modified after
// it has been sent.
type Request struct {
	SourceCode           string `json:"source_code"`
	LanguageID           string `json:"language_id"`
	Stdin                string `json:"stdin"`
	CompilerOptions      string `json:"compiler_options,omitempty"`
	CommandLineArguments string `json:"command_line_arguments,omitempty"`
}

// Validate rejects requests the judge would refuse anyway.
func (r Request) Validate() error {
	if strings.TrimSpace(r.SourceCode) == "" {
		return appErr.New(appErr.SourceCodeEmpty)
	}
	if strings.TrimSpace(r.LanguageID) == "" {
		return appErr.New(appErr.LanguageNotSupported).WithMessage("language is required")
	}
	return nil
}

// Handle identifies a pending submission on the judge.
type Handle string

// Submission is what a backend returns for a create call: either a finished
// Result (synchronous mode) or a Handle to poll (asynchronous mode).
type Submission struct {
	Handle Handle
	Result *Result
}

// Pending reports whether the caller has to poll for the result.
func (s Submission) Pending() bool {
	return s.Result == nil
}

// Status is the raw status reported by the judge.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Kind classifies a status independently of the backend numbering.
type Kind string

const (
	KindPending        Kind = "pending"
	KindAccepted       Kind = "accepted"
	KindWrongAnswer    Kind = "wrong_answer"
	KindCompileError   Kind = "compile_error"
	KindRuntimeFailure Kind = "runtime_failure"
	KindSystemError    Kind = "system_error"
)

// Units selects the granularity used when showing time and memory.
type Units int

const (
	// UnitsSecondsKB prints fractional seconds and kilobytes.
	UnitsSecondsKB Units = iota
	// UnitsMillisMB prints whole milliseconds and whole megabytes.
	UnitsMillisMB
)

// Result is the judge's report for one submission. Time is in seconds and
// Memory in kilobytes regardless of how the backend reports them. TimeText
// keeps the backend's own rendering of Time when it sent one.
type Result struct {
	Status        Status
	Kind          Kind
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
	Time          *float64
	TimeText      string
	Memory        *int64
	ExitCode      *int
	Signal        *int
	Units         Units
}

// Terminal reports whether the judge has finished with the submission.
func (r *Result) Terminal() bool {
	return r != nil && r.Kind != KindPending
}

// Backend is a judge service reachable over HTTP.
type Backend interface {
	Name() string
	Submit(ctx context.Context, req Request) (Submission, error)
	Fetch(ctx context.Context, handle Handle) (*Result, error)
}
