package sources

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsource/confsource/interfaces"
)

type fakeSSMClient struct {
	ssmiface.SSMAPI
	pages    [][]*ssm.Parameter
	err      error
	gotInput *ssm.GetParametersByPathInput
}

func (f *fakeSSMClient) GetParametersByPathPagesWithContext(ctx aws.Context, input *ssm.GetParametersByPathInput, fn func(*ssm.GetParametersByPathOutput, bool) bool, opts ...request.Option) error {
	f.gotInput = input
	if f.err != nil {
		return f.err
	}
	for i, page := range f.pages {
		if !fn(&ssm.GetParametersByPathOutput{Parameters: page}, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func TestParameterStoreLoaderLoad(t *testing.T) {
	client := &fakeSSMClient{
		pages: [][]*ssm.Parameter{
			{
				{Name: aws.String("/myapp/production/DB_HOST"), Value: aws.String("db.internal")},
				{Name: aws.String("/myapp/production/DB_PORT"), Value: aws.String("5432")},
			},
			{
				{Name: aws.String("/myapp/production/nested/API_KEY"), Value: aws.String("secret")},
			},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewParameterStoreLoaderWithClient(client, "/myapp/production/", true, logger)

	values, err := loader.Load(context.Background())

	require.NoError(t, err)
	// Keys span both pages, prefix stripped.
	assert.Equal(t, interfaces.ConfigMap{
		"DB_HOST":        "db.internal",
		"DB_PORT":        "5432",
		"nested/API_KEY": "secret",
	}, values)

	// The subtree walk is recursive and the decryption flag is forwarded.
	assert.Equal(t, "/myapp/production", aws.StringValue(client.gotInput.Path))
	assert.True(t, aws.BoolValue(client.gotInput.Recursive))
	assert.True(t, aws.BoolValue(client.gotInput.WithDecryption))
}

func TestParameterStoreLoaderNoDecryption(t *testing.T) {
	client := &fakeSSMClient{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewParameterStoreLoaderWithClient(client, "/myapp/production", false, logger)

	values, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, values)
	assert.False(t, aws.BoolValue(client.gotInput.WithDecryption))
}

func TestParameterStoreLoaderError(t *testing.T) {
	client := &fakeSSMClient{
		err: awserr.New("ThrottlingException", "rate exceeded", nil),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewParameterStoreLoaderWithClient(client, "/myapp/production", true, logger)

	values, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, values)

	var srcErr *interfaces.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "parameter-store", srcErr.Source)
	assert.Equal(t, "GetParametersByPath", srcErr.Op)
	assert.Equal(t, "ThrottlingException", srcErr.Code)
}

func TestParameterStoreLoaderScoped(t *testing.T) {
	client := &fakeSSMClient{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewParameterStoreLoaderWithClient(client, "/myapp/production", true, logger)

	scoped := loader.Scoped("payments")
	_, err := scoped.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/myapp/production/payments", aws.StringValue(client.gotInput.Path))
}
