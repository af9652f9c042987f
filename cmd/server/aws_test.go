package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/platform/dynamo"
)

func TestAWSClients_LoadsConfigOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	clients := &awsClients{
		ctx: context.Background(),
		load: func(context.Context) (aws.Config, error) {
			calls++
			return aws.Config{Region: "eu-west-1"}, nil
		},
	}

	getter, err := clients.parameterStore()
	require.NoError(t, err)
	assert.NotNil(t, getter)

	db, err := clients.dynamoDB()
	require.NoError(t, err)
	assert.NotNil(t, db)

	assert.Equal(t, 1, calls)
}

func TestAWSClients_LoadError(t *testing.T) {
	t.Parallel()

	clients := &awsClients{
		ctx: context.Background(),
		load: func(context.Context) (aws.Config, error) {
			return aws.Config{}, errors.New("no credentials")
		},
	}

	_, err := clients.parameterStore()
	assert.ErrorContains(t, err, "failed to load AWS config")

	_, err = clients.dynamoDB()
	assert.ErrorContains(t, err, "no credentials")
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	unused := func() (*dynamodb.Client, error) {
		t.Error("DynamoDB client must not be created for the memory backend")
		return nil, errors.New("unexpected")
	}

	t.Run("memory", func(t *testing.T) {
		registry, err := newRegistry(config.BiometricsConfig{Backend: config.BackendMemory}, unused, testLogger())
		require.NoError(t, err)
		assert.IsType(t, &biometric.MemoryRegistry{}, registry)
	})

	t.Run("dynamodb", func(t *testing.T) {
		client := dynamodb.NewFromConfig(aws.Config{Region: "eu-west-1"})
		cfg := config.BiometricsConfig{Backend: config.BackendDynamoDB, TableName: "biometric-sessions", SessionTTLHours: 12}

		registry, err := newRegistry(cfg, func() (*dynamodb.Client, error) { return client, nil }, testLogger())
		require.NoError(t, err)
		assert.IsType(t, &dynamo.Registry{}, registry)
	})

	t.Run("dynamodb without table", func(t *testing.T) {
		client := dynamodb.NewFromConfig(aws.Config{Region: "eu-west-1"})
		cfg := config.BiometricsConfig{Backend: config.BackendDynamoDB}

		_, err := newRegistry(cfg, func() (*dynamodb.Client, error) { return client, nil }, testLogger())
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := newRegistry(config.BiometricsConfig{Backend: "redis"}, unused, testLogger())
		assert.Error(t, err)
	})
}
