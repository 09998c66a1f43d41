package sources

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"

	"github.com/confsource/confsource/interfaces"
)

// ParameterStoreLoader reads an AWS SSM Parameter Store subtree. Every
// parameter under the prefix contributes one configuration key, named by the
// parameter path with the prefix stripped.
type ParameterStoreLoader struct {
	client  ssmiface.SSMAPI
	prefix  string
	decrypt bool
	log     *slog.Logger
}

// NewParameterStoreLoader creates a loader over the given path prefix. An
// empty region defers to the SDK's default region resolution. When decrypt is
// set, SecureString parameters are returned decrypted.
func NewParameterStoreLoader(prefix, region string, decrypt bool, log *slog.Logger) (*ParameterStoreLoader, error) {
	cfg := aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewParameterStoreLoaderWithClient(ssm.New(sess), prefix, decrypt, log), nil
}

// NewParameterStoreLoaderWithClient creates a loader over an existing client.
func NewParameterStoreLoaderWithClient(client ssmiface.SSMAPI, prefix string, decrypt bool, log *slog.Logger) *ParameterStoreLoader {
	if log == nil {
		log = slog.Default()
	}
	return &ParameterStoreLoader{
		client:  client,
		prefix:  strings.TrimSuffix(prefix, "/"),
		decrypt: decrypt,
		log:     log,
	}
}

// Name returns a unique identifier for this loader.
func (l *ParameterStoreLoader) Name() string {
	return "parameter-store"
}

// Load walks the parameter subtree recursively, following pagination.
func (l *ParameterStoreLoader) Load(ctx context.Context) (interfaces.ConfigMap, error) {
	start := time.Now()
	out := interfaces.ConfigMap{}

	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(l.prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(l.decrypt),
	}

	err := l.client.GetParametersByPathPagesWithContext(ctx, input,
		func(page *ssm.GetParametersByPathOutput, lastPage bool) bool {
			for _, param := range page.Parameters {
				if param.Name == nil || param.Value == nil {
					continue
				}
				out[l.keyFor(*param.Name)] = *param.Value
			}
			return true
		})
	if err != nil {
		l.log.Error("Failed to get parameters by path",
			slog.String("prefix", l.prefix),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, interfaces.NewSourceError(l.Name(), "GetParametersByPath", awsErrorCode(err), err)
	}

	l.log.Debug("Fetched parameters",
		slog.String("prefix", l.prefix),
		slog.Int("keys", len(out)),
		slog.Duration("duration", time.Since(start)))

	return out, nil
}

// Scoped returns a loader over the namespaced variant of the prefix.
func (l *ParameterStoreLoader) Scoped(namespace string) interfaces.RemoteLoader {
	return &ParameterStoreLoader{
		client:  l.client,
		prefix:  path.Join(l.prefix, namespace),
		decrypt: l.decrypt,
		log:     l.log,
	}
}

// keyFor strips the prefix and any leading separator from a parameter name.
func (l *ParameterStoreLoader) keyFor(name string) string {
	key := strings.TrimPrefix(name, l.prefix)
	return strings.TrimPrefix(key, "/")
}
