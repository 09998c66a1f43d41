package interfaces

import (
	"fmt"
	"os"
	"strings"
)

// ConfigMap is a flat mapping from configuration key to scalar or structured
// value. Keys are unique; a merged map never carries one key's value from more
// than one source.
type ConfigMap map[string]any

// Clone returns a shallow copy of the map. Clone of a nil map is an empty,
// non-nil map so callers can overlay onto the result safely.
func (m ConfigMap) Clone() ConfigMap {
	out := make(ConfigMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the map's keys in unspecified order.
func (m ConfigMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Mode identifies the deployment environment the process runs in. It is
// determined once at startup and treated as immutable afterwards.
type Mode string

const (
	// ModeDevelopment enables dotenv layering and keeps remote sources off
	// unless explicitly forced.
	ModeDevelopment Mode = "development"
	// ModeProduction consults remote sources whenever remote options are present.
	ModeProduction Mode = "production"
	// ModeTest restricts resolution to the process environment only.
	ModeTest Mode = "test"
	// ModeLocal is used one layer above this engine; the loader factory treats
	// it exactly like ModeDevelopment.
	ModeLocal Mode = "local"
)

// ModeEnvVar is the environment variable carrying the deployment mode signal.
const ModeEnvVar = "APP_ENV"

// ParseMode normalizes a mode string. Unknown or empty values map to
// ModeDevelopment so that bare local runs behave like development.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeProduction:
		return ModeProduction
	case ModeTest:
		return ModeTest
	case ModeLocal:
		return ModeLocal
	case ModeDevelopment:
		return ModeDevelopment
	default:
		return ModeDevelopment
	}
}

// DetectMode reads the deployment mode from the process environment.
func DetectMode() Mode {
	return ParseMode(os.Getenv(ModeEnvVar))
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Precedence selects which source's value wins when the same key appears in
// multiple configuration maps.
type Precedence string

const (
	// PrecedenceAWSFirst lets remote values override local ones.
	PrecedenceAWSFirst Precedence = "aws-first"
	// PrecedenceLocalFirst lets local or pre-existing values override remote
	// ones while remote-only keys still contribute.
	PrecedenceLocalFirst Precedence = "local-first"
	// PrecedenceMerge is positional last-wins across the supplied source order
	// with no source privileged by origin.
	PrecedenceMerge Precedence = "merge"
)

// ParsePrecedence validates a precedence string.
func ParsePrecedence(s string) (Precedence, error) {
	switch Precedence(strings.ToLower(strings.TrimSpace(s))) {
	case PrecedenceAWSFirst:
		return PrecedenceAWSFirst, nil
	case PrecedenceLocalFirst:
		return PrecedenceLocalFirst, nil
	case PrecedenceMerge, "":
		return PrecedenceMerge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPrecedence, s)
	}
}

// String returns the precedence rule name.
func (p Precedence) String() string {
	return string(p)
}
