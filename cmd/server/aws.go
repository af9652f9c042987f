package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/yachaflex/yachaflex-api/internal/platform/paramstore"
)

// awsClients loads the shared AWS configuration on first use. Deployments
// that configure neither a key parameter nor the DynamoDB registry never
// resolve AWS credentials.
type awsClients struct {
	ctx  context.Context
	load func(ctx context.Context) (aws.Config, error)

	once sync.Once
	cfg  aws.Config
	err  error
}

func newAWSClients(ctx context.Context) *awsClients {
	return &awsClients{
		ctx: ctx,
		load: func(ctx context.Context) (aws.Config, error) {
			return awsconfig.LoadDefaultConfig(ctx)
		},
	}
}

func (a *awsClients) config() (aws.Config, error) {
	a.once.Do(func() {
		a.cfg, a.err = a.load(a.ctx)
		if a.err != nil {
			a.err = fmt.Errorf("failed to load AWS config: %w", a.err)
		}
	})
	return a.cfg, a.err
}

// parameterStore returns an SSM-backed parameter getter.
func (a *awsClients) parameterStore() (paramstore.Getter, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	client, err := paramstore.New(ssm.NewFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create SSM client: %w", err)
	}
	return client, nil
}

func (a *awsClients) dynamoDB() (*dynamodb.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}
