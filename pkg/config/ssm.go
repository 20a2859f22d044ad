package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmPrefix marks a value that lives in SSM Parameter Store, e.g.
// APIKEY=ssm:/stock-alerts/supabase-key
const ssmPrefix = "ssm:"

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterGetter creates an SSM client from the default AWS config chain.
func NewParameterGetter(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// HasSecretRefs reports whether any secret field points at SSM.
func (c *Config) HasSecretRefs() bool {
	for _, field := range c.secretFields() {
		if strings.HasPrefix(*field, ssmPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets replaces every "ssm:" secret value with the decrypted
// parameter it names.
func (c *Config) ResolveSecrets(ctx context.Context, getter ParameterGetter) error {
	for _, field := range c.secretFields() {
		if !strings.HasPrefix(*field, ssmPrefix) {
			continue
		}
		name := strings.TrimPrefix(*field, ssmPrefix)
		out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("get parameter %s: %w", name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return fmt.Errorf("parameter %s has no value", name)
		}
		*field = *out.Parameter.Value
	}
	return nil
}

func (c *Config) secretFields() []*string {
	return []*string{
		&c.Store.APIKey,
		&c.Store.Postgres.DSN,
		&c.Notify.APIKey,
		&c.Market.Alpaca.APIKey,
		&c.Market.Alpaca.APISecret,
	}
}
