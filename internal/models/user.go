package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleProfessor || r == RoleAdmin
}

// CanAuthor reports whether the role may edit trails, quizzes and view reports.
func (r UserRole) CanAuthor() bool {
	return r == RoleProfessor || r == RoleAdmin
}

type User struct {
	ID        string         `json:"id" gorm:"primaryKey;size:255"`
	FullName  string         `json:"full_name" gorm:"not null;size:100"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole       `json:"role" gorm:"not null;size:20;default:student"`
	AvatarURL *string        `json:"avatar_url" gorm:"size:500"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
