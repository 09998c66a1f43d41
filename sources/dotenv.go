package sources

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/confsource/confsource/interfaces"
)

// DotenvLoader reads an ordered list of dotenv files and layers them into a
// single map. Files later in the list override earlier ones on conflicting
// keys. Missing or unreadable files are skipped, never an error.
type DotenvLoader struct {
	paths []string
	log   *slog.Logger
}

// NewDotenvLoader creates a dotenv loader over the given candidate paths.
func NewDotenvLoader(paths []string, log *slog.Logger) *DotenvLoader {
	if log == nil {
		log = slog.Default()
	}
	return &DotenvLoader{paths: paths, log: log}
}

// Name returns a unique identifier for this loader.
func (l *DotenvLoader) Name() string {
	return "dotenv"
}

// Load reads every existing candidate file and returns the layered union.
func (l *DotenvLoader) Load() interfaces.ConfigMap {
	out := interfaces.ConfigMap{}

	for _, path := range l.paths {
		values, err := godotenv.Read(path)
		if err != nil {
			l.log.Debug("Skipping dotenv file",
				slog.String("path", path),
				"err", err)
			continue
		}

		for key, value := range values {
			out[key] = value
		}

		l.log.Debug("Loaded dotenv file",
			slog.String("path", path),
			slog.Int("keys", len(values)))
	}

	return out
}
