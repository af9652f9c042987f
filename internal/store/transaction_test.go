package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const updateBiometricsSQL = "UPDATE stress_records SET stress_score = $1 WHERE id = $2"

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func updateScore(score float64) TxFn {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, updateBiometricsSQL, score, "record-1")
		return err
	}
}

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	errBegin := errors.New("connection reset")
	errUpdate := errors.New("row locked")
	errCommit := errors.New("serialization failure")
	errRollback := errors.New("connection lost")

	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		fn          TxFn
		wantErrIs   []error
		wantErrText []string
	}{
		{
			name: "commits the update",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE stress_records").
					WithArgs(42.5, "record-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: updateScore(42.5),
		},
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errBegin)
			},
			fn:          updateScore(42.5),
			wantErrIs:   []error{errBegin},
			wantErrText: []string{"failed to begin transaction"},
		},
		{
			name: "work fails and is rolled back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE stress_records").WillReturnError(errUpdate)
				mock.ExpectRollback()
			},
			fn:        updateScore(10),
			wantErrIs: []error{errUpdate},
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE stress_records").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errCommit)
			},
			fn:          updateScore(10),
			wantErrIs:   []error{errCommit},
			wantErrText: []string{"failed to commit transaction"},
		},
		{
			name: "rollback fails after work error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errRollback)
			},
			fn: func(context.Context, *sql.Tx) error {
				return errUpdate
			},
			wantErrIs:   []error{errUpdate},
			wantErrText: []string{"error rolling back transaction", "connection lost", "original error"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			tc.setup(mock)

			err := RunInTransaction(context.Background(), db, tc.fn)

			if len(tc.wantErrIs) == 0 && len(tc.wantErrText) == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			for _, target := range tc.wantErrIs {
				assert.ErrorIs(t, err, target)
			}
			for _, text := range tc.wantErrText {
				assert.Contains(t, err.Error(), text)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_RollsBackAndRepanics(t *testing.T) {
	t.Parallel()

	for _, rollbackErr := range []error{nil, errors.New("connection lost")} {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "scorer exploded", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("scorer exploded")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}
