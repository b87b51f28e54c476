package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/cache"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db       *gorm.DB
	quiz     repositories.QuizRepository
	trail    repositories.TrailRepository
	progress repositories.ProgressRepository
	attempt  repositories.AttemptRepository
	class    repositories.ClassRepository
}

// NewRepository wires every PostgreSQL repository over db. Quiz and trail
// reads go through cacheService.
func NewRepository(db *gorm.DB, cacheService cache.CacheService) repositories.Repository {
	return &Repository{
		db:       db,
		quiz:     NewQuizPostgreSQL(db, cacheService),
		trail:    NewTrailPostgreSQL(db, cacheService),
		progress: NewProgressPostgreSQL(db),
		attempt:  NewAttemptPostgreSQL(db),
		class:    NewClassPostgreSQL(db),
	}
}

func (r *Repository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *Repository) Trail() repositories.TrailRepository       { return r.trail }
func (r *Repository) Progress() repositories.ProgressRepository { return r.progress }
func (r *Repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *Repository) Class() repositories.ClassRepository       { return r.class }

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// notFound maps gorm.ErrRecordNotFound onto repositories.ErrNotFound
func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, repositories.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
