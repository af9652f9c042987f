package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))

	// A value of the wrong type is ignored.
	ctx = context.WithValue(context.Background(), TraceIDKey, 42)
	assert.Empty(t, GetTraceID(ctx))
}

func TestNewTraceID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTraceID()
		assert.Len(t, id, TraceIDLength*2)
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestNewTraceID_EntropyFailure(t *testing.T) {
	original := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = original })

	a, b := NewTraceID(), NewTraceID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)
}
