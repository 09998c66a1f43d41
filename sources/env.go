package sources

import (
	"log/slog"
	"os"
	"strings"

	"github.com/confsource/confsource/interfaces"
)

// EnvLoader reads the full process environment. It participates in every
// deployment mode and never fails.
type EnvLoader struct {
	log *slog.Logger
}

// NewEnvLoader creates an environment variable loader.
func NewEnvLoader(log *slog.Logger) *EnvLoader {
	if log == nil {
		log = slog.Default()
	}
	return &EnvLoader{log: log}
}

// Name returns a unique identifier for this loader.
func (l *EnvLoader) Name() string {
	return "env"
}

// Load snapshots the process environment into a configuration map.
func (l *EnvLoader) Load() interfaces.ConfigMap {
	environ := os.Environ()
	out := make(interfaces.ConfigMap, len(environ))

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}

	l.log.Debug("Loaded process environment", slog.Int("keys", len(out)))
	return out
}
