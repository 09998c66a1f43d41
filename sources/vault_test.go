package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsource/confsource/interfaces"
)

func testVaultClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := api.DefaultConfig()
	config.Address = server.URL
	config.MaxRetries = 0

	client, err := api.NewClient(config)
	require.NoError(t, err)
	client.SetToken("unit-test-token")
	return client
}

func TestVaultLoaderLoad(t *testing.T) {
	var gotPath string
	client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": {"data": {"DB_HOST": "db.internal", "TLS": true}, "metadata": {"version": "3"}}}`)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "", "myapp/config", logger)

	values, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "vault", loader.Name())
	assert.Equal(t, interfaces.ConfigMap{"DB_HOST": "db.internal", "TLS": true}, values)
	// The empty mount defaults to the standard KV v2 mount.
	assert.Equal(t, "/v1/secret/data/myapp/config", gotPath)
}

func TestVaultLoaderCustomMount(t *testing.T) {
	var gotPath string
	client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data": {"data": {"KEY": "value"}}}`)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "/kv/", "myapp/config", logger)

	_, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/v1/kv/data/myapp/config", gotPath)
}

func TestVaultLoaderStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, expected: interfaces.CodeCredentials},
		{name: "forbidden", status: http.StatusForbidden, expected: interfaces.CodeAccessDenied},
		{name: "rate limited", status: http.StatusTooManyRequests, expected: interfaces.CodeThrottling},
		{name: "internal error", status: http.StatusInternalServerError, expected: interfaces.CodeServiceUnavailable},
		{name: "sealed or standby", status: http.StatusServiceUnavailable, expected: interfaces.CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"errors": ["request rejected"]}`)
			})

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

			values, err := loader.Load(context.Background())

			require.Error(t, err)
			assert.Nil(t, values)

			var srcErr *interfaces.SourceError
			require.ErrorAs(t, err, &srcErr)
			assert.Equal(t, "vault", srcErr.Source)
			assert.Equal(t, "Read", srcErr.Op)
			assert.Equal(t, tt.expected, srcErr.Code)
		})
	}
}

func TestVaultLoaderMissingSecret(t *testing.T) {
	client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors": []}`)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "secret", "myapp/missing", logger)

	values, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, values)

	var srcErr *interfaces.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, interfaces.CodeResourceNotFound, srcErr.Code)
}

func TestVaultLoaderInvalidPayload(t *testing.T) {
	client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
		// KV v1 shape: the payload lacks the nested data field.
		fmt.Fprint(w, `{"data": {"KEY": "value"}}`)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

	values, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, values)
	assert.Contains(t, err.Error(), "invalid data format")
}

func TestVaultLoaderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	config := api.DefaultConfig()
	config.Address = address
	config.MaxRetries = 0
	client, err := api.NewClient(config)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

	values, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, values)
	assert.ErrorIs(t, err, interfaces.ErrSourceUnavailable)

	// Transport failures carry no service code; classification falls back
	// to the wrapped network error.
	var srcErr *interfaces.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Empty(t, srcErr.Code)
}

func TestVaultLoaderScoped(t *testing.T) {
	var gotPath string
	client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data": {"data": {"KEY": "value"}}}`)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

	scoped := loader.Scoped("payments")
	_, err := scoped.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/v1/secret/data/myapp/config/payments", gotPath)

	// The parent loader's path is untouched.
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/v1/secret/data/myapp/config", gotPath)
}

func TestVaultLoaderAvailable(t *testing.T) {
	tests := []struct {
		name     string
		health   string
		expected bool
	}{
		{
			name:     "initialized and unsealed",
			health:   `{"initialized": true, "sealed": false}`,
			expected: true,
		},
		{
			name:     "sealed",
			health:   `{"initialized": true, "sealed": true}`,
			expected: false,
		},
		{
			name:     "uninitialized",
			health:   `{"initialized": false, "sealed": false}`,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testVaultClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.health)
			})

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

			assert.Equal(t, tt.expected, loader.Available(context.Background()))
		})
	}
}

func TestVaultLoaderAvailableServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	config := api.DefaultConfig()
	config.Address = address
	config.MaxRetries = 0
	client, err := api.NewClient(config)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewVaultLoaderWithClient(client, "secret", "myapp/config", logger)

	assert.False(t, loader.Available(context.Background()))
}
