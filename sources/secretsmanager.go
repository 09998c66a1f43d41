package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"

	"github.com/confsource/confsource/interfaces"
)

// SecretsManagerLoader reads a single AWS Secrets Manager secret. A secret
// holding a JSON object contributes one configuration key per object member;
// any other payload contributes a single key named after the secret's last
// path segment.
type SecretsManagerLoader struct {
	client     secretsmanageriface.SecretsManagerAPI
	secretName string
	log        *slog.Logger
}

// NewSecretsManagerLoader creates a loader for the named secret. An empty
// region defers to the SDK's default region resolution.
func NewSecretsManagerLoader(secretName, region string, log *slog.Logger) (*SecretsManagerLoader, error) {
	cfg := aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewSecretsManagerLoaderWithClient(secretsmanager.New(sess), secretName, log), nil
}

// NewSecretsManagerLoaderWithClient creates a loader over an existing client.
func NewSecretsManagerLoaderWithClient(client secretsmanageriface.SecretsManagerAPI, secretName string, log *slog.Logger) *SecretsManagerLoader {
	if log == nil {
		log = slog.Default()
	}
	return &SecretsManagerLoader{
		client:     client,
		secretName: secretName,
		log:        log,
	}
}

// Name returns a unique identifier for this loader.
func (l *SecretsManagerLoader) Name() string {
	return "secrets-manager"
}

// Load fetches and decodes the secret value.
func (l *SecretsManagerLoader) Load(ctx context.Context) (interfaces.ConfigMap, error) {
	start := time.Now()

	result, err := l.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(l.secretName),
	})
	if err != nil {
		l.log.Error("Failed to get secret value",
			slog.String("secret", l.secretName),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, interfaces.NewSourceError(l.Name(), "GetSecretValue", awsErrorCode(err), err)
	}

	var payload []byte
	switch {
	case result.SecretString != nil:
		payload = []byte(*result.SecretString)
	case result.SecretBinary != nil:
		payload = result.SecretBinary
	}

	out := l.decode(payload)

	l.log.Debug("Fetched secret",
		slog.String("secret", l.secretName),
		slog.Int("keys", len(out)),
		slog.Duration("duration", time.Since(start)))

	return out, nil
}

// Scoped returns a loader over the namespaced variant of the secret.
func (l *SecretsManagerLoader) Scoped(namespace string) interfaces.RemoteLoader {
	return &SecretsManagerLoader{
		client:     l.client,
		secretName: path.Join(l.secretName, namespace),
		log:        l.log,
	}
}

// decode interprets the secret payload. JSON objects become flat maps; every
// other payload is exposed under the secret name's base segment.
func (l *SecretsManagerLoader) decode(payload []byte) interfaces.ConfigMap {
	if len(payload) == 0 {
		return interfaces.ConfigMap{}
	}

	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err == nil {
		out := make(interfaces.ConfigMap, len(parsed))
		for key, value := range parsed {
			out[key] = value
		}
		return out
	}

	return interfaces.ConfigMap{path.Base(l.secretName): string(payload)}
}

// awsErrorCode extracts the SDK's error code, empty for non-AWS failures.
func awsErrorCode(err error) string {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code()
	}
	return ""
}
