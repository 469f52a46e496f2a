package bankerr

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeFileNotFound       = "FILE_NOT_FOUND"
	CodeFileReadError      = "FILE_READ_ERROR"
	CodeMalformedRecord    = "MALFORMED_RECORD"
	CodeEmptyInput         = "EMPTY_INPUT"
	CodeInconsistentTally  = "INCONSISTENT_TALLY"
	CodeUnknownGroupFilter = "UNKNOWN_GROUP_FILTER"
	CodeInvalidOptions     = "INVALID_OPTIONS"
	CodeFetchFailed        = "FETCH_FAILED"
	CodeRenderFailed       = "RENDER_FAILED"
	CodePublishFailed      = "PUBLISH_FAILED"
	CodeNotReady           = "NOT_READY"
)

var (
	// ErrFileNotFound is returned when a summary source does not exist.
	ErrFileNotFound = New(CodeFileNotFound, "assembly summary source not found")

	// ErrFileReadError is returned when a summary source exists but cannot be read.
	ErrFileReadError = New(CodeFileReadError, "failed to read assembly summary source")

	// ErrMalformedRecord is returned when a data line has a submission date that is not
	// a `YYYY/...` date, or has too few columns to carry one.
	ErrMalformedRecord = New(CodeMalformedRecord, "malformed assembly summary record")

	// ErrEmptyInput is returned when no data line across all sources carried a usable year.
	ErrEmptyInput = New(CodeEmptyInput, "no assembly with a submission year found in the given sources")

	// ErrInconsistentTally is returned when a ranked group claims more assemblies in a year
	// than the year's total.
	ErrInconsistentTally = New(CodeInconsistentTally, "group counts exceed the yearly total")

	ErrUnknownGroupFilter = New(CodeUnknownGroupFilter, "unknown taxonomic group")
	ErrInvalidOptions     = New(CodeInvalidOptions, "invalid options: some or all options are invalid")
	ErrFetchFailed        = New(CodeFetchFailed, "failed to fetch assembly summary")
	ErrRenderFailed       = New(CodeRenderFailed, "failed to render chart")
	ErrPublishFailed      = New(CodePublishFailed, "failed to publish chart")
	ErrNotReady           = New(CodeNotReady, "the assembly summaries are still being loaded")
)

type Extras map[string]interface{}

type BankError struct {
	ErrorCode string
	Message   string
	Extras    *Extras
}

func New(errorCode string, message string) *BankError {
	return &BankError{
		ErrorCode: errorCode,
		Message:   message,
	}
}

func (e BankError) Msg(format string, parts ...interface{}) *BankError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e BankError) WithExtras(extras Extras) *BankError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *BankError {
	// copy ErrInvalidOptions as e
	e := *ErrInvalidOptions
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *BankError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is reports whether target is a *BankError of the same kind, so that errors derived
// with Msg or WithExtras still match their sentinel under errors.Is.
func (e *BankError) Is(target error) bool {
	t, ok := target.(*BankError)
	if !ok {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

// Code returns the error code carried by err, or an empty string when err does not
// wrap a *BankError.
func Code(err error) string {
	var e *BankError
	if errors.As(err, &e) {
		return e.ErrorCode
	}
	return ""
}
