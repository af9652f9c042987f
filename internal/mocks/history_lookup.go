package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/generation"
)

// MockHistoryLookup implements generation.HistoryLookup for testing.
// Records are keyed by record ID; Latest is returned by MostRecentAssessment.
type MockHistoryLookup struct {
	MostRecentAssessmentFn func(ctx context.Context, userID uuid.UUID) (generation.AnchoredAssessment, bool, error)
	AssessmentByIDFn       func(ctx context.Context, userID, recordID uuid.UUID) (generation.AnchoredAssessment, bool, error)

	Records map[uuid.UUID]generation.AnchoredAssessment
	Latest  *generation.AnchoredAssessment
	Err     error
}

// MostRecentAssessment implements generation.HistoryLookup
func (m *MockHistoryLookup) MostRecentAssessment(
	ctx context.Context,
	userID uuid.UUID,
) (generation.AnchoredAssessment, bool, error) {
	if m.MostRecentAssessmentFn != nil {
		return m.MostRecentAssessmentFn(ctx, userID)
	}
	if m.Err != nil {
		return generation.AnchoredAssessment{}, false, m.Err
	}
	if m.Latest == nil {
		return generation.AnchoredAssessment{}, false, nil
	}
	return *m.Latest, true, nil
}

// AssessmentByID implements generation.HistoryLookup
func (m *MockHistoryLookup) AssessmentByID(
	ctx context.Context,
	userID, recordID uuid.UUID,
) (generation.AnchoredAssessment, bool, error) {
	if m.AssessmentByIDFn != nil {
		return m.AssessmentByIDFn(ctx, userID, recordID)
	}
	if m.Err != nil {
		return generation.AnchoredAssessment{}, false, m.Err
	}
	a, ok := m.Records[recordID]
	return a, ok, nil
}
