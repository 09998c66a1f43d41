package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/confsource/confsource/interfaces"
)

// VaultLoader reads a single HashiCorp Vault KV v2 secret. The secret's inner
// data map is the configuration bundle.
type VaultLoader struct {
	client     *api.Client
	mountPath  string
	secretPath string
	log        *slog.Logger
}

// NewVaultLoader creates a loader for the addressed secret. Empty Address and
// Token fall back to the client's environment defaults (VAULT_ADDR,
// VAULT_TOKEN); an empty MountPath defaults to "secret".
func NewVaultLoader(opts *interfaces.VaultOptions, log *slog.Logger) (*VaultLoader, error) {
	config := api.DefaultConfig()
	if opts.Address != "" {
		config.Address = opts.Address
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if opts.Token != "" {
		client.SetToken(opts.Token)
	}

	return NewVaultLoaderWithClient(client, opts.MountPath, opts.SecretPath, log), nil
}

// NewVaultLoaderWithClient creates a loader over an existing client.
func NewVaultLoaderWithClient(client *api.Client, mountPath, secretPath string, log *slog.Logger) *VaultLoader {
	if log == nil {
		log = slog.Default()
	}
	if mountPath == "" {
		mountPath = "secret"
	}
	return &VaultLoader{
		client:     client,
		mountPath:  strings.Trim(mountPath, "/"),
		secretPath: strings.Trim(secretPath, "/"),
		log:        log,
	}
}

// Name returns a unique identifier for this loader.
func (l *VaultLoader) Name() string {
	return "vault"
}

// Load reads the secret using the KV v2 API path structure.
func (l *VaultLoader) Load(ctx context.Context) (interfaces.ConfigMap, error) {
	start := time.Now()
	readPath := fmt.Sprintf("%s/data/%s", l.mountPath, l.secretPath)

	secret, err := l.client.Logical().ReadWithContext(ctx, readPath)
	if err != nil {
		l.log.Error("Failed to read from Vault",
			slog.String("path", readPath),
			"err", err)
		code := vaultErrorCode(err)
		if code == "" {
			// The server never answered; mark the source itself unreachable
			// while keeping the transport error visible for classification.
			err = fmt.Errorf("%w: %w", interfaces.ErrSourceUnavailable, err)
		}
		return nil, interfaces.NewSourceError(l.Name(), "Read", code, err)
	}

	if secret == nil || secret.Data == nil {
		l.log.Debug("Secret not found in Vault", slog.String("path", readPath))
		err := fmt.Errorf("no secret at %s", readPath)
		return nil, interfaces.NewSourceError(l.Name(), "Read", interfaces.CodeResourceNotFound, err)
	}

	// KV v2 wraps the payload in a "data" field.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		err := fmt.Errorf("invalid data format in Vault response at %s", readPath)
		return nil, interfaces.NewSourceError(l.Name(), "Read", "", err)
	}

	out := make(interfaces.ConfigMap, len(data))
	for key, value := range data {
		out[key] = value
	}

	l.log.Debug("Fetched secret from Vault",
		slog.String("path", readPath),
		slog.Int("keys", len(out)),
		slog.Duration("duration", time.Since(start)))

	return out, nil
}

// Scoped returns a loader over the namespaced variant of the secret path.
func (l *VaultLoader) Scoped(namespace string) interfaces.RemoteLoader {
	return &VaultLoader{
		client:     l.client,
		mountPath:  l.mountPath,
		secretPath: path.Join(l.secretPath, namespace),
		log:        l.log,
	}
}

// Available checks whether the Vault server is initialized and unsealed.
func (l *VaultLoader) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := l.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		l.log.Debug("Vault health check failed", "err", err)
		return false
	}

	if !health.Initialized || health.Sealed {
		l.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}

	return true
}

// vaultErrorCode maps a Vault response status onto a canonical code.
func vaultErrorCode(err error) string {
	var respErr *api.ResponseError
	if !errors.As(err, &respErr) {
		return ""
	}

	switch {
	case respErr.StatusCode == http.StatusUnauthorized:
		return interfaces.CodeCredentials
	case respErr.StatusCode == http.StatusForbidden:
		return interfaces.CodeAccessDenied
	case respErr.StatusCode == http.StatusNotFound:
		return interfaces.CodeResourceNotFound
	case respErr.StatusCode == http.StatusTooManyRequests:
		return interfaces.CodeThrottling
	case respErr.StatusCode == http.StatusRequestTimeout:
		return interfaces.CodeTimeout
	case respErr.StatusCode >= http.StatusInternalServerError:
		return interfaces.CodeServiceUnavailable
	default:
		return ""
	}
}
