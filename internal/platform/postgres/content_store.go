package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
	"github.com/yachaflex/yachaflex-api/internal/store"
)

// PostgresContentStore implements store.ContentStore on PostgreSQL.
// Flashcards and quiz questions are stored as JSONB arrays.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a generated content store on db.
// A nil logger falls back to slog.Default().
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

var _ store.ContentStore = (*PostgresContentStore)(nil)

// Create implements store.ContentStore.
func (s *PostgresContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("generated content validation failed during create",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	flashcards := content.Result.Flashcards
	if flashcards == nil {
		flashcards = []domain.Flashcard{}
	}
	quiz := content.Result.Quiz
	if quiz == nil {
		quiz = []domain.QuizQuestion{}
	}
	flashcardsJSON, err := json.Marshal(flashcards)
	if err != nil {
		return fmt.Errorf("failed to encode flashcards: %w", err)
	}
	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("failed to encode quiz: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generated_content (
			id, user_id, stress_record_id, original_text, stress_level,
			summary, flashcards, quiz, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		content.ID,
		content.UserID,
		content.StressRecordID,
		content.OriginalText,
		string(content.StressLevel),
		content.Result.Summary,
		string(flashcardsJSON),
		string(quizJSON),
		content.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generated content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()),
			slog.String("user_id", content.UserID.String()))
		return MapError(err)
	}

	log.Info("generated content stored",
		slog.String("content_id", content.ID.String()),
		slog.String("stress_level", string(content.StressLevel)),
		slog.Bool("degraded", content.Result.IsEmpty()))
	return nil
}

// GetByID implements store.ContentStore.
func (s *PostgresContentStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		content        domain.GeneratedContent
		anchor         uuid.NullUUID
		level          string
		flashcardsJSON []byte
		quizJSON       []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, stress_record_id, original_text, stress_level,
			summary, flashcards, quiz, created_at
		FROM generated_content
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&content.ID,
		&content.UserID,
		&anchor,
		&content.OriginalText,
		&level,
		&content.Result.Summary,
		&flashcardsJSON,
		&quizJSON,
		&content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContentNotFound
		}
		log.Error("failed to get generated content",
			slog.String("error", err.Error()),
			slog.String("content_id", id.String()))
		return nil, MapError(err)
	}

	content.StressLevel = domain.StressLevel(level)
	if anchor.Valid {
		anchorID := anchor.UUID
		content.StressRecordID = &anchorID
	}
	content.Result.Flashcards = []domain.Flashcard{}
	content.Result.Quiz = []domain.QuizQuestion{}
	if err := json.Unmarshal(flashcardsJSON, &content.Result.Flashcards); err != nil {
		return nil, fmt.Errorf("failed to decode flashcards: %w", err)
	}
	if err := json.Unmarshal(quizJSON, &content.Result.Quiz); err != nil {
		return nil, fmt.Errorf("failed to decode quiz: %w", err)
	}
	return &content, nil
}
