package aws_test

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/isometry/zoom-webhook-app/internal/controllers/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	values map[string]string
	input  *ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.input = params
	v, ok := f.values[awssdk.ToString(params.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: awssdk.String("not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: awssdk.String(v)}}, nil
}

func TestController_GetSecret(t *testing.T) {
	client := &fakeSSM{values: map[string]string{"/zoom/webhook-secret": "topsecret"}}
	ctl, err := aws.NewController(aws.WithSSMClient(client))
	require.NoError(t, err)

	secret, err := ctl.GetSecret("/zoom/webhook-secret", true)
	require.NoError(t, err)
	assert.Equal(t, "topsecret", *secret)
	assert.True(t, awssdk.ToBool(client.input.WithDecryption))

	_, err = ctl.GetSecret("/zoom/absent", true)
	var notFound *types.ParameterNotFound
	assert.True(t, errors.As(err, &notFound))
}
