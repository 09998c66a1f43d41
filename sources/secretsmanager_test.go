package sources

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsource/confsource/interfaces"
)

type fakeSecretsManagerClient struct {
	secretsmanageriface.SecretsManagerAPI
	output      *secretsmanager.GetSecretValueOutput
	err         error
	gotSecretID string
}

func (f *fakeSecretsManagerClient) GetSecretValueWithContext(ctx aws.Context, input *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	f.gotSecretID = aws.StringValue(input.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestSecretsManagerLoaderLoad(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		payload  string
		expected interfaces.ConfigMap
	}{
		{
			name:    "json object becomes flat map",
			secret:  "myapp/production",
			payload: `{"DB_HOST": "db.internal", "DB_PORT": 5432, "FEATURES": {"beta": true}}`,
			expected: interfaces.ConfigMap{
				"DB_HOST":  "db.internal",
				"DB_PORT":  float64(5432),
				"FEATURES": map[string]any{"beta": true},
			},
		},
		{
			name:     "plain payload keyed by base segment",
			secret:   "myapp/database-url",
			payload:  "postgres://db.internal:5432/app",
			expected: interfaces.ConfigMap{"database-url": "postgres://db.internal:5432/app"},
		},
		{
			name:     "json array is not an object",
			secret:   "myapp/hosts",
			payload:  `["a", "b"]`,
			expected: interfaces.ConfigMap{"hosts": `["a", "b"]`},
		},
		{
			name:     "empty payload yields empty map",
			secret:   "myapp/empty",
			payload:  "",
			expected: interfaces.ConfigMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSecretsManagerClient{
				output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(tt.payload)},
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			loader := NewSecretsManagerLoaderWithClient(client, tt.secret, logger)

			values, err := loader.Load(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
			assert.Equal(t, tt.secret, client.gotSecretID)
		})
	}
}

func TestSecretsManagerLoaderError(t *testing.T) {
	client := &fakeSecretsManagerClient{
		err: awserr.New("AccessDeniedException", "not authorized", nil),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewSecretsManagerLoaderWithClient(client, "myapp/production", logger)

	values, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, values)

	var srcErr *interfaces.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "secrets-manager", srcErr.Source)
	assert.Equal(t, "GetSecretValue", srcErr.Op)
	assert.Equal(t, "AccessDeniedException", srcErr.Code)
}

func TestSecretsManagerLoaderScoped(t *testing.T) {
	client := &fakeSecretsManagerClient{
		output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"KEY": "value"}`)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewSecretsManagerLoaderWithClient(client, "myapp/production", logger)

	scoped := loader.Scoped("payments")
	_, err := scoped.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "myapp/production/payments", client.gotSecretID)

	// The parent loader's identifier is untouched.
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "myapp/production", client.gotSecretID)
}
