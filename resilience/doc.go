// Package resilience provides error classification, retry logic, and fallback
// decisions for remote configuration sources.
//
// This package implements the following patterns:
//
// # Error Classification
//
// Every remote failure is classified into a closed set of kinds
// (service-unavailable, timeout, throttling, credentials, access-denied,
// resource-not-found, unknown) by a single lookup over the service's native
// error code plus transport-level inspection. Unrecognized signatures land in
// exactly one fallback arm, never in scattered string matching:
//
//	kind := resilience.KindOf(err)
//	if resilience.IsRetryable(err) {
//	    // transient failure
//	}
//
// # Retry with Exponential Backoff
//
// The policy retries transient failures with exponential backoff and
// multiplicative jitter so concurrent processes do not retry in lockstep.
// Delays are capped at 30 seconds regardless of attempt count:
//
//	policy := resilience.NewPolicy(opts, logger)
//	values, err := policy.Execute(ctx, "secrets-manager", "GetSecretValue",
//	    func(ctx context.Context) (interfaces.ConfigMap, error) {
//	        return loader.Load(ctx)
//	    })
//
// # Graceful Degradation
//
// Every classified kind decides in favor of fallback: a remote source that
// stays broken after its retries degrades to an empty contribution instead of
// aborting resolution. The single exception is the caller opting into
// fail-fast via Options.FailOnAWSError, which the policy exposes as
// FailFast(err). Error severity never overrides that gate.
//
// # Diagnostics
//
// NewErrorContext and FormatErrorMessage build structured and human-readable
// failure records for logging. They are purely presentational and carry no
// control-flow weight.
package resilience
