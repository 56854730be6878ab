package ssm

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParameterAPI struct {
	value string
	err   error
}

func (s *stubParameterAPI) GetParameter(_ context.Context, _ *awsssm.GetParameterInput, _ ...func(*awsssm.Options)) (*awsssm.GetParameterOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &awsssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String(s.value)},
	}, nil
}

func TestLoadParameters_DecodesJSONDictionary(t *testing.T) {
	api := &stubParameterAPI{value: `{"organisation":"Meadow","table":"newsletter","barn":"meadow-barn"}`}
	params, err := LoadParameters(context.Background(), api, "MeadowDictionary")
	require.NoError(t, err)
	assert.Equal(t, "Meadow", params["organisation"])
	assert.Equal(t, "newsletter", params["table"])
	assert.Equal(t, "meadow-barn", params["barn"])
}

func TestLoadParameters_PropagatesFetchError(t *testing.T) {
	api := &stubParameterAPI{err: errors.New("parameter not found")}
	_, err := LoadParameters(context.Background(), api, "MeadowDictionary")
	require.Error(t, err)
	assert.ErrorContains(t, err, "MeadowDictionary")
}

func TestLoadParameters_RejectsNonJSONValue(t *testing.T) {
	api := &stubParameterAPI{value: "not-json"}
	_, err := LoadParameters(context.Background(), api, "MeadowDictionary")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode parameter")
}
