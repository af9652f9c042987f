package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// StressHistoryLookup adapts a StressRecordStore to generation.HistoryLookup.
type StressHistoryLookup struct {
	records store.StressRecordStore
}

var _ generation.HistoryLookup = (*StressHistoryLookup)(nil)

// NewStressHistoryLookup creates a lookup over records.
func NewStressHistoryLookup(records store.StressRecordStore) *StressHistoryLookup {
	return &StressHistoryLookup{records: records}
}

// MostRecentAssessment implements generation.HistoryLookup.
func (l *StressHistoryLookup) MostRecentAssessment(
	ctx context.Context,
	userID uuid.UUID,
) (generation.AnchoredAssessment, bool, error) {
	record, err := l.records.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrStressRecordNotFound) {
			return generation.AnchoredAssessment{}, false, nil
		}
		return generation.AnchoredAssessment{}, false, err
	}
	return generation.AnchoredAssessment{RecordID: record.ID, Assessment: record.Assessment}, true, nil
}

// AssessmentByID implements generation.HistoryLookup.
func (l *StressHistoryLookup) AssessmentByID(
	ctx context.Context,
	userID, recordID uuid.UUID,
) (generation.AnchoredAssessment, bool, error) {
	record, err := l.records.GetByID(ctx, userID, recordID)
	if err != nil {
		if errors.Is(err, store.ErrStressRecordNotFound) {
			return generation.AnchoredAssessment{}, false, nil
		}
		return generation.AnchoredAssessment{}, false, err
	}
	return generation.AnchoredAssessment{RecordID: record.ID, Assessment: record.Assessment}, true, nil
}
