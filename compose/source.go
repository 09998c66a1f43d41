package compose

import (
	"context"

	"github.com/confsource/confsource/interfaces"
)

// FactoryFunc produces a configuration map on demand. Factories are the unit
// of composition: everything in this package consumes or returns them.
type FactoryFunc func(ctx context.Context) (interfaces.ConfigMap, error)

// NamespacedFactoryFunc produces one configuration map per namespace.
type NamespacedFactoryFunc func(ctx context.Context) (map[string]interfaces.ConfigMap, error)

// Source pairs a configuration-producing function with its identity for
// merging and diagnostics.
type Source struct {
	Name   string
	Remote bool
	Load   FactoryFunc

	// Probe is an optional availability check cheaper than a full load,
	// consulted by diagnostics only. Nil means no such check exists.
	Probe func(ctx context.Context) bool
}

// healthProber is the optional probe a remote loader may carry.
type healthProber interface {
	Available(ctx context.Context) bool
}

// LocalSource adapts a LocalLoader into a source. The loader cannot fail by
// contract, so the adapter never returns an error.
func LocalSource(loader interfaces.LocalLoader) Source {
	return Source{
		Name: loader.Name(),
		Load: func(ctx context.Context) (interfaces.ConfigMap, error) {
			return loader.Load(), nil
		},
	}
}

// RemoteSource adapts a RemoteLoader into a source, picking up the loader's
// health probe when it has one.
func RemoteSource(loader interfaces.RemoteLoader) Source {
	src := Source{
		Name:   loader.Name(),
		Remote: true,
		Load:   loader.Load,
	}
	if prober, ok := loader.(healthProber); ok {
		src.Probe = prober.Available
	}
	return src
}
