package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

// upsertAssignments resolves a conflicting write on (user_id, content_id).
var upsertAssignments = clause.Assignments(map[string]interface{}{
	"completed": gorm.Expr("user_progress.completed OR EXCLUDED.completed"),
	"percentage": gorm.Expr("CASE WHEN user_progress.completed " +
		"THEN GREATEST(user_progress.percentage, EXCLUDED.percentage) " +
		"ELSE EXCLUDED.percentage END"),
	"last_accessed": gorm.Expr("EXCLUDED.last_accessed"),
	"updated_at":    gorm.Expr("EXCLUDED.updated_at"),
})

func (p *ProgressPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID string, contentID uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	if err := getDB(p.db, tx).WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, progress *models.UserProgress) error {
	row := *progress
	row.ID = 0

	if err := getDB(p.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
			DoUpdates: upsertAssignments,
		}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	progress.ID = row.ID
	return nil
}

func (p *ProgressPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, contentIDs []uint) ([]models.UserProgress, error) {
	return p.ListByUsers(ctx, tx, []string{userID}, contentIDs)
}

func (p *ProgressPostgreSQL) ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []string, contentIDs []uint) ([]models.UserProgress, error) {
	var rows []models.UserProgress
	if len(userIDs) == 0 || len(contentIDs) == 0 {
		return rows, nil
	}

	if err := getDB(p.db, tx).WithContext(ctx).
		Where("user_id IN ? AND content_id IN ?", userIDs, contentIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}
