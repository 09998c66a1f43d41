package resilience

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/confsource/confsource/interfaces"
)

const (
	// DefaultMaxRetries bounds the retry loop per failing source.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the backoff unit for the first retry.
	DefaultBaseDelay = time.Second

	// maxRetryDelay caps the backoff regardless of attempt count.
	maxRetryDelay = 30 * time.Second

	// throttlingPenalty is added on top of the backoff for throttled calls so
	// even the first retry waits longer than a second.
	throttlingPenalty = time.Second
)

// RetryDecision is the classifier's verdict for a single failure. Decisions
// are computed fresh per error and never persisted.
type RetryDecision struct {
	ShouldRetry     bool
	FallbackToLocal bool
	Kind            ErrorKind
	RetryDelay      time.Duration
}

// RecoveryType names the overall handling approach for a failure.
type RecoveryType string

const (
	// RecoveryRetryWithBackoff retries with exponential backoff before falling back.
	RecoveryRetryWithBackoff RecoveryType = "retry-with-backoff"
	// RecoveryFallbackOnly skips retries and falls back immediately.
	RecoveryFallbackOnly RecoveryType = "fallback-only"
)

// RecoveryStrategy is the higher-level policy derived from classification,
// describing how a failure is handled overall rather than one decision.
type RecoveryStrategy struct {
	Type            RecoveryType
	MaxRetries      int
	FallbackEnabled bool
}

// Policy turns error classifications into retry and fallback behavior. A
// policy is constructed once with the process's integration options and is
// safe for concurrent use.
type Policy struct {
	opts       *interfaces.Options
	maxRetries int
	baseDelay  time.Duration
	log        *slog.Logger

	// Injectable for tests.
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPolicy creates a retry policy with the default retry budget.
func NewPolicy(opts *interfaces.Options, log *slog.Logger) *Policy {
	if opts == nil {
		opts = interfaces.NewOptions()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Policy{
		opts:       opts,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		log:        log,
		jitter:     func() float64 { return 0.5 + rand.Float64()/2 },
		sleep:      sleepContext,
	}
}

// WithRetries overrides the retry budget and backoff unit.
func (p *Policy) WithRetries(maxRetries int, baseDelay time.Duration) *Policy {
	p.maxRetries = maxRetries
	p.baseDelay = baseDelay
	return p
}

// MaxRetries returns the per-source retry budget.
func (p *Policy) MaxRetries() int {
	return p.maxRetries
}

// RetryDelay computes the backoff before retry number attempt:
// min(base * 2^(attempt-1), 30s), scaled by a random jitter factor in
// [0.5, 1.0) so concurrent processes do not retry in lockstep.
func (p *Policy) RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := maxRetryDelay
	if shift := uint(attempt - 1); shift < 30 {
		if d := p.baseDelay << shift; d < maxRetryDelay {
			delay = d
		}
	}

	return time.Duration(float64(delay) * p.jitter())
}

// Decide classifies a failure and produces the retry decision for the given
// attempt. FallbackToLocal is true for every kind: availability wins over
// strict correctness, and only FailFast can override that.
func (p *Policy) Decide(err error, attempt int) RetryDecision {
	kind := KindOf(err)

	decision := RetryDecision{
		Kind:            kind,
		FallbackToLocal: true,
		ShouldRetry:     kind.Retryable(),
	}

	if decision.ShouldRetry {
		decision.RetryDelay = p.RetryDelay(attempt)
		if kind == KindThrottling {
			decision.RetryDelay += throttlingPenalty
		}
	}

	return decision
}

// RecoveryFor derives the overall handling strategy for a failure.
func (p *Policy) RecoveryFor(err error) RecoveryStrategy {
	if IsRetryable(err) {
		return RecoveryStrategy{
			Type:            RecoveryRetryWithBackoff,
			MaxRetries:      p.maxRetries,
			FallbackEnabled: true,
		}
	}
	return RecoveryStrategy{
		Type:            RecoveryFallbackOnly,
		MaxRetries:      0,
		FallbackEnabled: true,
	}
}

// FailFast reports whether a terminal failure should abort resolution instead
// of degrading. FailOnAWSError is the sole gate; the error itself, however
// severe, never overrides a fallback-enabled configuration.
func (p *Policy) FailFast(err error) bool {
	return p.opts.FailOnAWSError
}

// Execute runs fn under the bounded retry loop: call, classify, decide. The
// loop stops on success, on a non-retryable failure, when the retry budget is
// exhausted, or when the context is cancelled. Sleeps between attempts honor
// context cancellation.
func (p *Policy) Execute(ctx context.Context, source, op string, fn func(ctx context.Context) (interfaces.ConfigMap, error)) (interfaces.ConfigMap, error) {
	for attempt := 1; ; attempt++ {
		values, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				p.log.Info("Source recovered after retry",
					slog.String("source", source),
					slog.Int("attempt", attempt))
			}
			return values, nil
		}

		decision := p.Decide(err, attempt)

		if !decision.ShouldRetry {
			p.log.Warn("Source failed with non-retryable error",
				slog.String("source", source),
				slog.String("op", op),
				slog.String("kind", decision.Kind.String()),
				"err", err)
			return nil, err
		}

		if attempt > p.maxRetries {
			p.log.Warn("Source failed after retries exhausted",
				slog.String("source", source),
				slog.String("op", op),
				slog.String("kind", decision.Kind.String()),
				slog.Int("attempts", attempt),
				"err", err)
			return nil, err
		}

		p.log.Debug("Retrying source",
			slog.String("source", source),
			slog.String("op", op),
			slog.String("kind", decision.Kind.String()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", decision.RetryDelay))

		if serr := p.sleep(ctx, decision.RetryDelay); serr != nil {
			return nil, serr
		}
	}
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
