// Package dynamo provides a DynamoDB-backed biometric session registry for
// deployments that run more than one API instance.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/domain"
)

const (
	pkPrefixSession = "SESSION#"
	// DefaultSessionTTL is how long a session item lives before DynamoDB expires it.
	DefaultSessionTTL = 24 * time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Registry.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Registry implements biometric.Registry on a single DynamoDB table keyed by PK.
// Each Put replaces the whole item, so readers never observe a partial session.
type Registry struct {
	api       dynamodbAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

var _ biometric.Registry = (*Registry)(nil)

// NewRegistry creates a Registry. A non-positive ttl selects DefaultSessionTTL.
func NewRegistry(api dynamodbAPI, tableName string, ttl time.Duration) (*Registry, error) {
	if api == nil {
		return nil, errors.New("dynamo: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("dynamo: table name must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		api:       api,
		tableName: tableName,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func sessionPK(token string) string {
	return pkPrefixSession + token
}

// Put implements biometric.Registry.
func (r *Registry) Put(
	ctx context.Context,
	token string,
	payload domain.BiometricInput,
	assessment domain.StressAssessment,
) error {
	token, err := biometric.NormalizeToken(token)
	if err != nil {
		return err
	}

	now := r.now()
	item := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: sessionPK(token)},
		"token":        &types.AttributeValueMemberS{Value: token},
		"stress_score": numAttr(assessment.Score),
		"stress_level": &types.AttributeValueMemberS{Value: assessment.Level.String()},
		"updated_at":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		"ttl":          &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(r.ttl).Unix(), 10)},
	}
	putOptional(item, "heart_rate", payload.HeartRate)
	putOptional(item, "hrv", payload.HRV)
	putOptional(item, "activity", payload.Activity)

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo: put session: %w", err)
	}
	return nil
}

// Get implements biometric.Registry.
func (r *Registry) Get(ctx context.Context, token string) (biometric.Session, bool, error) {
	token, err := biometric.NormalizeToken(token)
	if err != nil {
		return biometric.Session{}, false, err
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: sessionPK(token)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return biometric.Session{}, false, fmt.Errorf("dynamo: get session: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return biometric.Session{}, false, nil
	}

	// DynamoDB deletes expired items lazily; treat them as gone.
	if expires, err := intAttr(out.Item, "ttl"); err == nil && r.now().Unix() >= expires {
		return biometric.Session{}, false, nil
	}

	session, err := itemToSession(token, out.Item)
	if err != nil {
		return biometric.Session{}, false, fmt.Errorf("dynamo: decode session: %w", err)
	}
	return session, true, nil
}

func itemToSession(token string, item map[string]types.AttributeValue) (biometric.Session, error) {
	score, err := floatAttr(item, "stress_score")
	if err != nil {
		return biometric.Session{}, err
	}
	levelRaw, err := strAttr(item, "stress_level")
	if err != nil {
		return biometric.Session{}, err
	}
	level, err := domain.ParseStressLevel(levelRaw)
	if err != nil {
		return biometric.Session{}, err
	}

	session := biometric.Session{
		Token:      token,
		Assessment: domain.StressAssessment{Score: score, Level: level},
	}

	if updated, err := strAttr(item, "updated_at"); err == nil {
		if ts, perr := time.Parse(time.RFC3339Nano, updated); perr == nil {
			session.UpdatedAt = ts
		}
	}

	if session.Payload.HeartRate, err = optionalFloat(item, "heart_rate"); err != nil {
		return biometric.Session{}, err
	}
	if session.Payload.HRV, err = optionalFloat(item, "hrv"); err != nil {
		return biometric.Session{}, err
	}
	if session.Payload.Activity, err = optionalFloat(item, "activity"); err != nil {
		return biometric.Session{}, err
	}
	return session, nil
}

func numAttr(v float64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func putOptional(item map[string]types.AttributeValue, key string, v *float64) {
	if v != nil {
		item[key] = numAttr(*v)
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q is not a string", key)
	}
	return s.Value, nil
}

func floatAttr(item map[string]types.AttributeValue, key string) (float64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse attribute %q: %w", key, err)
	}
	return parsed, nil
}

func optionalFloat(item map[string]types.AttributeValue, key string) (*float64, error) {
	if _, ok := item[key]; !ok {
		return nil, nil
	}
	v, err := floatAttr(item, key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute %q is not a number", key)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}
