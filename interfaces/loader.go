package interfaces

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when a remote configuration source is
	// not accessible. This could be due to network issues, authentication
	// failures, or service outages.
	ErrSourceUnavailable = errors.New("configuration source unavailable")

	// ErrNoSources is returned when an operation that needs configured
	// sources runs without any, such as namespace resolution in a mode that
	// selects no remote loader.
	ErrNoSources = errors.New("no configuration sources")

	// ErrInvalidPrecedence is returned when a precedence rule string is not
	// one of aws-first, local-first, merge.
	ErrInvalidPrecedence = errors.New("invalid precedence rule")
)

// Canonical error codes for sources whose native failure signal is an HTTP
// status rather than a service error code. AWS loaders pass the SDK's own
// codes through unchanged; the Vault loader maps response statuses onto these.
const (
	CodeServiceUnavailable = "ServiceUnavailable"
	CodeTimeout            = "RequestTimeout"
	CodeThrottling         = "Throttling"
	CodeCredentials        = "InvalidCredentials"
	CodeAccessDenied       = "AccessDenied"
	CodeResourceNotFound   = "ResourceNotFound"
)

// LocalLoader reads configuration from an origin that is always reachable
// (process environment, files on disk). By contract it cannot fail: a missing
// or unreadable origin contributes an empty map.
type LocalLoader interface {
	// Name returns identifier for logging and merge layers.
	Name() string

	// Load returns the source's key-value bundle. Never fails.
	Load() ConfigMap
}

// RemoteLoader reads configuration from a network service. Loads may fail and
// do so with a *SourceError carrying the service's native error code.
//
// The split between LocalLoader and RemoteLoader is deliberate: the two have
// categorically different failure modes, and the return contract encodes that
// difference instead of hiding it behind a shared signature.
type RemoteLoader interface {
	// Name returns identifier for logging and merge layers.
	Name() string

	// Load fetches the source's key-value bundle.
	Load(ctx context.Context) (ConfigMap, error)

	// Scoped returns a loader over the namespaced variant of this source's
	// identifier (<identifier>/<namespace>).
	Scoped(namespace string) RemoteLoader
}

// SourceError wraps a remote source failure with enough structure for
// classification: which source failed, during which operation, and the
// service's own error code (AWS SDK error code, or a canonical code mapped
// from a Vault HTTP status).
type SourceError struct {
	// Source is the failing loader's name.
	Source string

	// Op is the operation that failed (e.g. "GetSecretValue").
	Op string

	// Code is the service's native error identifier, empty when the failure
	// happened below the service layer (transport, context).
	Code string

	// Err is the underlying error.
	Err error
}

// Error returns a human-readable description of the failure.
func (e *SourceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s failed with %s: %v", e.Source, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Source, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with source metadata. A nil err returns nil so
// call sites can wrap unconditionally.
func NewSourceError(source, op, code string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Source: source, Op: op, Code: code, Err: err}
}
