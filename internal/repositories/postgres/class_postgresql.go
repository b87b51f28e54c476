package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"gorm.io/gorm"
)

type ClassPostgreSQL struct {
	db *gorm.DB
}

func NewClassPostgreSQL(db *gorm.DB) repositories.ClassRepository {
	return &ClassPostgreSQL{db: db}
}

func (c *ClassPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	var class models.Class
	query := getDB(c.db, tx).WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB {
			return db.Order("class_students.student_id ASC")
		}).
		Preload("Trails", func(db *gorm.DB) *gorm.DB {
			return db.Order("trails.id ASC")
		})

	if err := preloadTree(query, "Trails.").First(&class, id).Error; err != nil {
		return nil, notFound(err, "class", id)
	}
	return &class, nil
}

func (c *ClassPostgreSQL) IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, userID string) (bool, error) {
	var count int64
	if err := getDB(c.db, tx).WithContext(ctx).
		Model(&models.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", classID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (c *ClassPostgreSQL) GetUsers(ctx context.Context, tx *gorm.DB, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := getDB(c.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}
