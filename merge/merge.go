package merge

import (
	"github.com/confsource/confsource/interfaces"
)

// Layer is one loader's contribution to a resolution, tagged with the
// loader's name and origin.
type Layer struct {
	Name   string
	Remote bool
	Values interfaces.ConfigMap
}

// Merge combines the ordered layers into one map under the precedence rule.
// The input layers are never mutated; the result is freshly allocated.
func Merge(layers []Layer, rule interfaces.Precedence) interfaces.ConfigMap {
	if rule != interfaces.PrecedenceLocalFirst {
		return overlay(layers)
	}

	// Invert origin priority: remote layers first, then local layers on top,
	// each group keeping its relative order.
	ordered := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		if layer.Remote {
			ordered = append(ordered, layer)
		}
	}
	for _, layer := range layers {
		if !layer.Remote {
			ordered = append(ordered, layer)
		}
	}
	return overlay(ordered)
}

// Apply is the binary form used when combining an already-established map
// with newly fetched remote values.
func Apply(existing, incoming interfaces.ConfigMap, rule interfaces.Precedence) interfaces.ConfigMap {
	if rule == interfaces.PrecedenceLocalFirst {
		out := incoming.Clone()
		for key, value := range existing {
			out[key] = value
		}
		return out
	}

	out := existing.Clone()
	for key, value := range incoming {
		out[key] = value
	}
	return out
}

// overlay applies the layers left to right, later layers winning per
// top-level key.
func overlay(layers []Layer) interfaces.ConfigMap {
	out := interfaces.ConfigMap{}
	for _, layer := range layers {
		for key, value := range layer.Values {
			out[key] = value
		}
	}
	return out
}
