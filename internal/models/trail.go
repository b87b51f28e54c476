package models

import (
	"time"

	"gorm.io/gorm"
)

type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentPDF   ContentType = "pdf"
	ContentQuiz  ContentType = "quiz"
	ContentLive  ContentType = "live"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentVideo, ContentPDF, ContentQuiz, ContentLive:
		return true
	}
	return false
}

type Trail struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200"`
	Description *string        `json:"description" gorm:"type:text"`
	Blocked     bool           `json:"blocked" gorm:"default:false"`
	CreatedBy   string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Modules []Module `json:"modules" gorm:"foreignKey:TrailID"`
}

func (Trail) TableName() string {
	return "trails"
}

type Module struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TrailID   uint      `json:"trail_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	Order     int       `json:"order" gorm:"not null;default:0"`
	Blocked   bool      `json:"blocked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContentItems []ContentItem `json:"content_items" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

type ContentItem struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	ModuleID  uint        `json:"module_id" gorm:"not null;index"`
	Title     string      `json:"title" gorm:"not null;size:200"`
	Type      ContentType `json:"type" gorm:"not null;size:10" validate:"required,content_type"`
	Duration  *string     `json:"duration,omitempty" gorm:"size:20"` // display label, e.g. "12:30"
	Order     int         `json:"order" gorm:"not null;default:0"`
	Blocked   bool        `json:"blocked" gorm:"default:false"`
	QuizID    *uint       `json:"quiz_id,omitempty" gorm:"index"`
	URL       *string     `json:"url,omitempty" gorm:"size:500"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (ContentItem) TableName() string {
	return "content_items"
}

// Class groups a roster of students with the trails assigned to them.
type Class struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:200"`
	ProfessorID string    `json:"professor_id" gorm:"not null;index;size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Trails   []Trail        `json:"trails" gorm:"many2many:class_trails"`
	Students []ClassStudent `json:"students" gorm:"foreignKey:ClassID"`
}

func (Class) TableName() string {
	return "classes"
}

type ClassStudent struct {
	ClassID    uint      `json:"class_id" gorm:"primaryKey"`
	StudentID  string    `json:"student_id" gorm:"primaryKey;size:255"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func (ClassStudent) TableName() string {
	return "class_students"
}
