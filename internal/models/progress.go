package models

import "time"

// UserProgress is unique per (UserID, ContentID).
type UserProgress struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_progress_user_content"`
	ContentID    uint      `json:"content_id" gorm:"not null;uniqueIndex:idx_progress_user_content"`
	Completed    bool      `json:"completed" gorm:"not null;default:false"`
	Percentage   float64   `json:"percentage" gorm:"not null;default:0"`
	LastAccessed time.Time `json:"last_accessed" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

type ModuleProgress struct {
	ModuleID   uint    `json:"module_id"`
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

type TrailProgress struct {
	TrailID    uint             `json:"trail_id"`
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Percentage float64          `json:"percentage"`
	Modules    []ModuleProgress `json:"modules"`
}

type ClassProgress struct {
	ClassID    uint            `json:"class_id"`
	UserID     string          `json:"user_id"`
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	Percentage float64         `json:"percentage"`
	Trails     []TrailProgress `json:"trails"`
}
