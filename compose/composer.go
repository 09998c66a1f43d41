package compose

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dario.cat/mergo"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/confsource/confsource/common"
	"github.com/confsource/confsource/interfaces"
	"github.com/confsource/confsource/merge"
	"github.com/confsource/confsource/resilience"
)

// Composer builds configuration factories over sets of sources, applying the
// retry policy to remote loads and the precedence rule to merging. A composer
// is constructed once and is safe for concurrent use.
type Composer struct {
	opts   *interfaces.Options
	policy *resilience.Policy
	log    *slog.Logger
}

// NewComposer creates a composer. A nil policy gets a default one built from
// the same options.
func NewComposer(opts *interfaces.Options, policy *resilience.Policy, log *slog.Logger) *Composer {
	if opts == nil {
		opts = interfaces.NewOptions()
	}
	log = common.EngineLogger(opts.EnableLogging, log)
	if policy == nil {
		policy = resilience.NewPolicy(opts, log)
	}
	return &Composer{
		opts:   opts,
		policy: policy,
		log:    log,
	}
}

// Compose combines the sources into one factory producing the merged map.
// Local sources resolve synchronously in declared order; remote sources
// resolve concurrently, slotted back into declared order before merging. A
// remote source that stays broken after its retries contributes an empty map
// unless fail-fast is configured, in which case its error cancels the
// remaining loads and propagates. Zero sources compose into an empty map.
func (c *Composer) Compose(srcs ...Source) FactoryFunc {
	return func(ctx context.Context) (interfaces.ConfigMap, error) {
		layers := make([]merge.Layer, len(srcs))

		for i, src := range srcs {
			if src.Remote {
				continue
			}
			values, err := src.Load(ctx)
			if err != nil {
				if c.policy.FailFast(err) {
					return nil, err
				}
				c.log.Warn("Local source degraded to empty contribution",
					slog.String("source", src.Name),
					"err", err)
				values = interfaces.ConfigMap{}
			}
			layers[i] = merge.Layer{Name: src.Name, Values: values}
		}

		g, gctx := errgroup.WithContext(ctx)
		for i, src := range srcs {
			if !src.Remote {
				continue
			}
			i, src := i, src
			g.Go(func() error {
				values, err := c.policy.Execute(gctx, src.Name, "Load", src.Load)
				if err != nil {
					if c.policy.FailFast(err) {
						return err
					}
					ectx := resilience.NewErrorContext(err, src.Name, "Load")
					c.log.Warn("Remote source degraded to empty contribution",
						slog.String("source", src.Name),
						slog.String("kind", ectx.Kind.String()),
						slog.String("error_id", ectx.ID),
						"err", err)
					values = interfaces.ConfigMap{}
				}
				layers[i] = merge.Layer{Name: src.Name, Remote: true, Values: values}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return merge.Merge(layers, c.opts.Precedence), nil
	}
}

// ComposeNamespaces builds a factory resolving each namespace's sources in
// isolation: one namespace's failure or emptiness never bleeds into another,
// and a namespace with no data resolves to an empty map. Only a configured
// fail-fast aborts the whole resolution.
func (c *Composer) ComposeNamespaces(namespaces map[string][]Source) NamespacedFactoryFunc {
	factories := make(map[string]FactoryFunc, len(namespaces))
	for ns, srcs := range namespaces {
		factories[ns] = c.Compose(srcs...)
	}

	return func(ctx context.Context) (map[string]interfaces.ConfigMap, error) {
		out := make(map[string]interfaces.ConfigMap, len(factories))
		for ns, factory := range factories {
			values, err := factory(ctx)
			if err != nil {
				return nil, fmt.Errorf("namespace %s: %w", ns, err)
			}
			out[ns] = values
		}
		return out, nil
	}
}

// ModuleOptions is the richer bundle produced by the dependency-carrying
// factory: the resolved values with dependency-established ones layered in,
// the dependencies themselves, and the pass-through base flags.
type ModuleOptions struct {
	Values          interfaces.ConfigMap
	Deps            map[string]any
	IsGlobal        bool
	Cache           bool
	ExpandVariables bool
}

// DepsFactory produces ModuleOptions given externally supplied values, such
// as configuration established by already-constructed collaborators.
type DepsFactory func(ctx context.Context, deps map[string]any) (*ModuleOptions, error)

// WithDependencies builds the dependency-carrying variant of Compose.
// Dependency-supplied values win over freshly resolved ones; fallback
// behavior is identical to Compose.
func (c *Composer) WithDependencies(srcs ...Source) DepsFactory {
	factory := c.Compose(srcs...)

	return func(ctx context.Context, deps map[string]any) (*ModuleOptions, error) {
		values, err := factory(ctx)
		if err != nil {
			return nil, err
		}

		merged := values.Clone()
		if len(deps) > 0 {
			if err := mergo.Merge(&merged, interfaces.ConfigMap(deps), mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("failed to merge dependency values: %w", err)
			}
		}

		return &ModuleOptions{
			Values:          merged,
			Deps:            deps,
			IsGlobal:        c.opts.Base.IsGlobal,
			Cache:           c.opts.Base.Cache,
			ExpandVariables: c.opts.Base.ExpandVariables,
		}, nil
	}
}

// MergeWithExisting overlays remote contributions onto an already-established
// factory under the precedence rule. When every source fails, the result is
// exactly the existing factory's map rather than an empty-augmented copy.
func (c *Composer) MergeWithExisting(existing FactoryFunc, srcs ...Source) FactoryFunc {
	return func(ctx context.Context) (interfaces.ConfigMap, error) {
		current, err := existing(ctx)
		if err != nil {
			return nil, err
		}
		if len(srcs) == 0 {
			return current, nil
		}

		produced := 0
		incoming := interfaces.ConfigMap{}
		for _, src := range srcs {
			values, err := c.policy.Execute(ctx, src.Name, "Load", src.Load)
			if err != nil {
				if c.policy.FailFast(err) {
					return nil, err
				}
				c.log.Warn("Source skipped in merge",
					slog.String("source", src.Name),
					"err", err)
				continue
			}
			produced++
			for key, value := range values {
				incoming[key] = value
			}
		}

		if produced == 0 {
			return current, nil
		}
		return merge.Apply(current, incoming, c.opts.Precedence), nil
	}
}

// Lazy returns a memoizing factory: the first invocation allocates the empty
// map, and every subsequent one returns the identical reference. The value is
// never recomputed here; a higher layer may populate it once known.
func (c *Composer) Lazy() FactoryFunc {
	var once sync.Once
	var cached interfaces.ConfigMap

	return func(ctx context.Context) (interfaces.ConfigMap, error) {
		once.Do(func() {
			cached = interfaces.ConfigMap{}
		})
		return cached, nil
	}
}

// Availability summarizes a diagnostic resolution pass over all sources.
type Availability struct {
	// IsAvailable is true iff at least one source produced output.
	IsAvailable bool

	// FactoriesCount is the number of sources that produced output.
	FactoriesCount int

	// Errors carries the formatted message of every failure encountered.
	Errors []string
}

// CheckAvailability resolves every source once, concurrently, and reports the
// outcome. Sources carrying a health probe are probed before the load, the
// way a backend is skipped when its health endpoint says so. It never fails:
// wholesale breakage yields IsAvailable=false with the captured messages
// instead of an error.
func (c *Composer) CheckAvailability(ctx context.Context, srcs ...Source) *Availability {
	successes := atomic.NewInt32(0)

	var mu sync.Mutex
	var errs []string

	var wg sync.WaitGroup
	for _, src := range srcs {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			if src.Probe != nil && !src.Probe(ctx) {
				mu.Lock()
				errs = append(errs, resilience.FormatErrorMessage(interfaces.ErrSourceUnavailable, src.Name, "Available"))
				mu.Unlock()
				return
			}
			if _, err := src.Load(ctx); err != nil {
				mu.Lock()
				errs = append(errs, resilience.FormatErrorMessage(err, src.Name, "Load"))
				mu.Unlock()
				return
			}
			successes.Inc()
		}(src)
	}
	wg.Wait()

	count := int(successes.Load())
	return &Availability{
		IsAvailable:    count > 0,
		FactoriesCount: count,
		Errors:         errs,
	}
}
