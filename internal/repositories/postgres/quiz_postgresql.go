package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/cache"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db    *gorm.DB
	cache cache.CacheService
}

func NewQuizPostgreSQL(db *gorm.DB, cacheService cache.CacheService) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:    db,
		cache: cacheService,
	}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if err := getDB(q.db, tx).WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	key := cache.QuizKey(id)

	var quiz models.Quiz
	if tx == nil && q.cache.Get(ctx, key, &quiz) == nil {
		return &quiz, nil
	}
	quiz = models.Quiz{}

	if err := getDB(q.db, tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.\"order\" ASC, quiz_questions.id ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return nil, notFound(err, "quiz", id)
	}

	_ = q.cache.Set(ctx, key, &quiz, 0)
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetContent(ctx context.Context, tx *gorm.DB, quizID uint) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := getDB(q.db, tx).WithContext(ctx).
		Where("quiz_id = ? AND type = ?", quizID, models.ContentQuiz).
		First(&item).Error; err != nil {
		return nil, notFound(err, "content for quiz", quizID)
	}
	return &item, nil
}
