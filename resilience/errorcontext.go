package resilience

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// ErrorContext is a structured record of a single source failure, built for
// logging and diagnostics. It has no control-flow effect.
type ErrorContext struct {
	// ID correlates log lines and diagnostics for one failure.
	ID string

	// Kind is the normalized classification.
	Kind ErrorKind

	// Source is the failing loader's name.
	Source string

	// Op is the operation that failed.
	Op string

	// Message is the formatted human-readable description.
	Message string

	// Timestamp records when the failure was captured.
	Timestamp time.Time

	// Retryable mirrors the kind's transience.
	Retryable bool

	// Stack is the capturing goroutine's stack trace.
	Stack string
}

// NewErrorContext captures diagnostic context for a source failure.
func NewErrorContext(err error, source, op string) *ErrorContext {
	kind := KindOf(err)
	return &ErrorContext{
		ID:        uuid.New().String(),
		Kind:      kind,
		Source:    source,
		Op:        op,
		Message:   FormatErrorMessage(err, source, op),
		Timestamp: time.Now().UTC(),
		Retryable: kind.Retryable(),
		Stack:     string(debug.Stack()),
	}
}

// FormatErrorMessage renders a failure as "[source] op: message". A nil error
// or one with an empty message substitutes "Unknown error".
func FormatErrorMessage(err error, source, op string) string {
	message := "Unknown error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}

	switch {
	case source == "":
		return message
	case op == "":
		return fmt.Sprintf("[%s] %s", source, message)
	default:
		return fmt.Sprintf("[%s] %s: %s", source, op, message)
	}
}
