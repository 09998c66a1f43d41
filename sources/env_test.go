package sources

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvLoaderLoad(t *testing.T) {
	t.Setenv("CONFSOURCE_TEST_KEY", "from-env")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewEnvLoader(logger)

	values := loader.Load()

	assert.Equal(t, "env", loader.Name())
	assert.Equal(t, "from-env", values["CONFSOURCE_TEST_KEY"])
	assert.NotEmpty(t, values)
}

func TestEnvLoaderSnapshotIsolation(t *testing.T) {
	t.Setenv("CONFSOURCE_SNAPSHOT_KEY", "first")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewEnvLoader(logger)

	first := loader.Load()
	t.Setenv("CONFSOURCE_SNAPSHOT_KEY", "second")

	// The earlier snapshot does not observe later environment changes.
	assert.Equal(t, "first", first["CONFSOURCE_SNAPSHOT_KEY"])
	assert.Equal(t, "second", loader.Load()["CONFSOURCE_SNAPSHOT_KEY"])
}
