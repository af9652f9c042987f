package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{name: "nil", err: nil},
		{name: "driver error", err: errors.New("pq: connection refused")},
		{name: "missing learner", err: ErrUserNotFound, wantNotFound: true},
		{
			name:         "missing check-in behind service context",
			err:          fmt.Errorf("latest record for learner: %w", ErrStressRecordNotFound),
			wantNotFound: true,
		},
		{
			name:         "missing content wrapped in a StoreError",
			err:          NewStoreError("generated_content", "get", "lookup failed", ErrContentNotFound),
			wantNotFound: true,
		},
		{name: "email taken", err: ErrEmailExists, wantDuplicate: true},
		{
			name:          "email taken wrapped in a StoreError",
			err:           NewStoreError("user", "create", "insert failed", ErrEmailExists),
			wantDuplicate: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantNotFound, IsNotFoundError(tc.err))
			assert.Equal(t, tc.wantDuplicate, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError_Format(t *testing.T) {
	t.Parallel()

	cause := errors.New("deadlock detected")
	err := NewStoreError("stress_record", "update", "failed to attach biometrics", cause)

	assert.Equal(t,
		"update operation on stress_record failed: failed to attach biometrics: deadlock detected",
		err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "get", "no rows", nil)
	assert.Equal(t, "get operation on user failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
