package engine

import (
	"errors"
	"fmt"
)

// RuntimeError reports a record the engine could not process.
//
// Runtime errors include:
//   - Record failed: the program returned an error for the record
//   - Invalid record: the input line is not a JSON object, or a timestamp
//     field does not hold an RFC 3339 string
//   - Quota exceeded: more records were dropped than allowed
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RecordID identifies the affected record, when one was assigned.
	RecordID string

	// Line is the 1-based input line, when the record came from Run.
	Line int

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeRecordFailed indicates the program failed for a record.
	ErrCodeRecordFailed RuntimeErrorCode = "RECORD_FAILED"

	// ErrCodeInvalidRecord indicates an input line could not be decoded.
	ErrCodeInvalidRecord RuntimeErrorCode = "INVALID_RECORD"

	// ErrCodeQuotaExceeded indicates the dropped-record budget ran out.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.Line > 0 && e.RecordID != "":
		return fmt.Sprintf("%s: %s (line=%d, record=%s)", e.Code, e.Message, e.Line, e.RecordID)
	case e.Line > 0:
		return fmt.Sprintf("%s: %s (line=%d)", e.Code, e.Message, e.Line)
	case e.RecordID != "":
		return fmt.Sprintf("%s: %s (record=%s)", e.Code, e.Message, e.RecordID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsRecordError returns true if err is a record failure.
// Uses errors.As to handle wrapped errors.
func IsRecordError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeRecordFailed
	}
	return false
}

// IsInvalidRecordError returns true if err reports undecodable input.
func IsInvalidRecordError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidRecord
	}
	return false
}

// IsQuotaError returns true if err reports an exhausted drop budget.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

func newRecordError(id string, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeRecordFailed,
		Message:  err.Error(),
		RecordID: id,
		Err:      err,
	}
}

func newInvalidRecordError(line int, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidRecord,
		Message: err.Error(),
		Line:    line,
		Err:     err,
	}
}
