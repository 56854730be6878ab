// Package ssm loads the deployment parameter dictionary. Production
// deployments keep the table name, domains and honeypot secret in a single
// JSON SSM parameter instead of per-host env files.
package ssm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/meadow/newsletter-api/internal/config"
)

// GetParameterAPI is the slice of the SSM client used here.
type GetParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewClient creates an SSM client for the configured region.
func NewClient(cfg *config.Config) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SSM: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// LoadParameters fetches the named parameter and decodes its JSON value
// into a flat string dictionary.
func LoadParameters(ctx context.Context, client GetParameterAPI, name string) (map[string]string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s has no value", name)
	}
	var params map[string]string
	if err := json.Unmarshal([]byte(*out.Parameter.Value), &params); err != nil {
		return nil, fmt.Errorf("decode parameter %s: %w", name, err)
	}
	return params, nil
}
