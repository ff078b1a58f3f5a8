// Package apperrors provides severity-aware error types for the analytics
// engine. Channel failures are recoverable and surfaced as data in the
// dispatch report; contract violations (missing benchmark tables, unknown
// channels) are fatal and fail loudly.
package apperrors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a structured error with channel context.
type Error struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Channel     string   `json:"channel,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *Error) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("[%s] %s: %s (channel: %s)", e.Severity, e.Code, e.Message, e.Channel)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodePipelineFailure  = "CHANNEL_PIPELINE_FAILURE"
	ErrCodeUnknownChannel   = "UNKNOWN_CHANNEL"
	ErrCodeBenchmarkMissing = "BENCHMARK_MISSING"
	ErrCodeQueryFailed      = "QUERY_FAILED"
	ErrCodeTranslateFailed  = "TRANSLATE_FAILED"
)

// NewPipelineFailure records a failure inside one channel's pipeline. It is
// recoverable: sibling channels keep running.
func NewPipelineFailure(channel, message string) *Error {
	return &Error{
		Code:        ErrCodePipelineFailure,
		Message:     message,
		Severity:    SeverityError,
		Channel:     channel,
		Recoverable: true,
	}
}

// NewQueryFailure records a record-source failure for one channel.
func NewQueryFailure(channel string, err error) *Error {
	return &Error{
		Code:        ErrCodeQueryFailed,
		Message:     err.Error(),
		Severity:    SeverityError,
		Channel:     channel,
		Recoverable: true,
	}
}

// NewBenchmarkMissing signals an absent benchmark/weight table for a
// registered channel. This is a programming-contract violation and must abort
// startup rather than silently score with a wrong table.
func NewBenchmarkMissing(channel string) *Error {
	return &Error{
		Code:        ErrCodeBenchmarkMissing,
		Message:     fmt.Sprintf("no benchmark table configured for channel %q", channel),
		Severity:    SeverityFatal,
		Channel:     channel,
		Recoverable: false,
	}
}

// NewUnknownChannel signals a request for a channel that was never registered.
func NewUnknownChannel(channel string) *Error {
	return &Error{
		Code:        ErrCodeUnknownChannel,
		Message:     fmt.Sprintf("channel %q is not registered", channel),
		Severity:    SeverityError,
		Channel:     channel,
		Recoverable: false,
	}
}
