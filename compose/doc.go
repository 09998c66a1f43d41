// Package compose turns loaders into deferred, composable configuration
// factory functions with graceful degradation.
//
// The package wraps the resolution pipeline (loader selection, resilient
// remote fetching, precedence merging) into FactoryFunc values a caller can
// hold, pass around, and invoke when configuration is actually needed.
//
// # Factory Composition
//
// Compose combines any number of sources into one factory. Local sources
// resolve synchronously in declared order; remote sources resolve
// concurrently and are awaited jointly, with each one guarded by the retry
// policy. A remote source that stays broken after its retries contributes an
// empty map and the composition proceeds, unless Options.FailOnAWSError is
// set, in which case the original error propagates to the factory's caller:
//
//	factory := composer.Compose(
//	    compose.LocalSource(envLoader),
//	    compose.RemoteSource(secretsLoader),
//	)
//	values, err := factory(ctx)
//
// # Variants
//
// ComposeNamespaces resolves per-namespace source groups in isolation; a
// broken or empty namespace yields an empty map for that namespace only.
// WithDependencies produces a factory whose invocation accepts
// externally-established values and returns the richer ModuleOptions bundle.
// MergeWithExisting overlays remote values onto an already-established
// factory under the precedence rule, degrading to exactly the existing map
// when remote resolution fails entirely. Lazy returns a memoizing factory
// that hands out one stable map reference and never recomputes it.
//
// # Diagnostics
//
// CheckAvailability resolves every source once and summarizes which of them
// produced output. It never fails; wholesale breakage is reported in the
// summary instead of propagating.
//
// # Resolver
//
// Resolver glues the pieces together end to end: it selects loaders for the
// deployment mode, composes them, and exposes Resolve, Factory,
// ResolveNamespaces, and CheckAvailability.
package compose
