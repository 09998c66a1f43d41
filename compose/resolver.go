package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confsource/confsource/common"
	"github.com/confsource/confsource/interfaces"
	"github.com/confsource/confsource/resilience"
	"github.com/confsource/confsource/sources"
)

// Resolver wires the full pipeline end to end: mode-aware loader selection,
// resilient loading, precedence merge.
type Resolver struct {
	mode     interfaces.Mode
	opts     *interfaces.Options
	remote   *interfaces.RemoteOptions
	factory  *sources.Factory
	composer *Composer
	log      *slog.Logger
}

// NewResolver creates a resolver for the given deployment mode.
func NewResolver(mode interfaces.Mode, opts *interfaces.Options, remote *interfaces.RemoteOptions, log *slog.Logger) *Resolver {
	if opts == nil {
		opts = interfaces.NewOptions()
	}
	log = common.EngineLogger(opts.EnableLogging, log)
	policy := resilience.NewPolicy(opts, log)

	return &Resolver{
		mode:     mode,
		opts:     opts,
		remote:   remote,
		factory:  sources.NewFactory(log),
		composer: NewComposer(opts, policy, log),
		log:      log,
	}
}

// Composer exposes the underlying composer for callers that build their own
// source sets.
func (r *Resolver) Composer() *Composer {
	return r.composer
}

// Factory returns the deferred form of Resolve.
func (r *Resolver) Factory() FactoryFunc {
	set := r.factory.LoadersFor(r.mode, r.remote)
	return r.composer.Compose(sourcesFromSet(set)...)
}

// Resolve selects the loaders for the mode and produces the merged map.
func (r *Resolver) Resolve(ctx context.Context) (interfaces.ConfigMap, error) {
	return r.Factory()(ctx)
}

// ResolveNamespaces resolves every configured namespace in isolation. Remote
// loaders are scoped per namespace; local origins carry no namespace
// structure and contribute nothing here, so asking for namespaces in a mode
// that selects no remote loader is a configuration error.
func (r *Resolver) ResolveNamespaces(ctx context.Context) (map[string]interfaces.ConfigMap, error) {
	set := r.factory.LoadersFor(r.mode, r.remote)
	if len(r.opts.Namespaces) > 0 && len(set.Remote) == 0 {
		return nil, fmt.Errorf("%w: namespace resolution needs a remote source", interfaces.ErrNoSources)
	}

	namespaces := make(map[string][]Source, len(r.opts.Namespaces))
	for _, ns := range r.opts.Namespaces {
		scoped := make([]Source, 0, len(set.Remote))
		for _, loader := range set.Remote {
			scoped = append(scoped, RemoteSource(loader.Scoped(ns)))
		}
		namespaces[ns] = scoped
	}

	return r.composer.ComposeNamespaces(namespaces)(ctx)
}

// CheckAvailability probes every selected source and reports the summary.
func (r *Resolver) CheckAvailability(ctx context.Context) *Availability {
	set := r.factory.LoadersFor(r.mode, r.remote)
	return r.composer.CheckAvailability(ctx, sourcesFromSet(set)...)
}

// sourcesFromSet adapts a loader set into composition sources, locals first,
// preserving the factory's selection order.
func sourcesFromSet(set *sources.LoaderSet) []Source {
	out := make([]Source, 0, len(set.Local)+len(set.Remote))
	for _, loader := range set.Local {
		out = append(out, LocalSource(loader))
	}
	for _, loader := range set.Remote {
		out = append(out, RemoteSource(loader))
	}
	return out
}
