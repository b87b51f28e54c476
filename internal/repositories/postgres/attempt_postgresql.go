package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	if err := getDB(a.db, tx).WithContext(ctx).Create(attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("attempt %d of quiz %d for %s: %w", attempt.AttemptNumber, attempt.QuizID, attempt.UserID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) GetLatest(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := getDB(a.db, tx).WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number DESC").
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest attempt: %w", err)
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) ListByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := getDB(a.db, tx).WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := getDB(a.db, tx).WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("user_id ASC, attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
