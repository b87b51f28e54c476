package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/cache"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
)

type TrailPostgreSQL struct {
	db    *gorm.DB
	cache cache.CacheService
}

func NewTrailPostgreSQL(db *gorm.DB, cacheService cache.CacheService) repositories.TrailRepository {
	return &TrailPostgreSQL{
		db:    db,
		cache: cacheService,
	}
}

// preloadTree loads modules and content in display order. prefix is the
// association path leading to the trail ("" or "Trails.").
func preloadTree(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.\"order\" ASC, modules.id ASC")
		}).
		Preload(prefix+"Modules.ContentItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_items.\"order\" ASC, content_items.id ASC")
		})
}

func (t *TrailPostgreSQL) GetTree(ctx context.Context, tx *gorm.DB, trailID uint) (*models.Trail, error) {
	key := cache.TrailTreeKey(trailID)

	var trail models.Trail
	if tx == nil && t.cache.Get(ctx, key, &trail) == nil {
		return &trail, nil
	}
	trail = models.Trail{}

	if err := preloadTree(getDB(t.db, tx).WithContext(ctx), "").First(&trail, trailID).Error; err != nil {
		return nil, notFound(err, "trail", trailID)
	}

	_ = t.cache.Set(ctx, key, &trail, 0)
	return &trail, nil
}

func (t *TrailPostgreSQL) GetContent(ctx context.Context, tx *gorm.DB, contentID uint) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := getDB(t.db, tx).WithContext(ctx).First(&item, contentID).Error; err != nil {
		return nil, notFound(err, "content", contentID)
	}
	return &item, nil
}

func (t *TrailPostgreSQL) GetModule(ctx context.Context, tx *gorm.DB, moduleID uint) (*models.Module, error) {
	var module models.Module
	if err := getDB(t.db, tx).WithContext(ctx).First(&module, moduleID).Error; err != nil {
		return nil, notFound(err, "module", moduleID)
	}
	return &module, nil
}

func (t *TrailPostgreSQL) SetTrailBlocked(ctx context.Context, tx *gorm.DB, trailID uint, blocked bool) error {
	return t.setBlocked(ctx, tx, &models.Trail{}, "trail", trailID, blocked)
}

func (t *TrailPostgreSQL) SetModuleBlocked(ctx context.Context, tx *gorm.DB, moduleID uint, blocked bool) error {
	return t.setBlocked(ctx, tx, &models.Module{}, "module", moduleID, blocked)
}

func (t *TrailPostgreSQL) SetContentBlocked(ctx context.Context, tx *gorm.DB, contentID uint, blocked bool) error {
	return t.setBlocked(ctx, tx, &models.ContentItem{}, "content", contentID, blocked)
}

func (t *TrailPostgreSQL) setBlocked(ctx context.Context, tx *gorm.DB, model interface{}, what string, id uint, blocked bool) error {
	result := getDB(t.db, tx).WithContext(ctx).Model(model).Where("id = ?", id).Update("blocked", blocked)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s %d: %w", what, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", what, id, repositories.ErrNotFound)
	}

	// Gating is read from cached trees, so every tree is stale now. Leaving
	// one behind would keep a blocked node open until its TTL expires.
	if err := t.cache.DeletePattern(ctx, cache.TrailTreePattern); err != nil {
		return fmt.Errorf("%s %d updated but cached trail trees were not invalidated: %w", what, id, err)
	}
	return nil
}
