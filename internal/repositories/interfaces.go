package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is wrapped by inserts rejected by a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// Repository hands out the per-aggregate repositories and runs transactions.
// Services receive it explicitly; there is no package-level store.
type Repository interface {
	Quiz() QuizRepository
	Trail() TrailRepository
	Progress() ProgressRepository
	Attempt() AttemptRepository
	Class() ClassRepository

	// WithTransaction runs fn in one database transaction, passing the tx
	// every repository method accepts.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// QuizRepository interface for quiz definitions
type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	// GetByID loads the quiz with its questions
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	// GetContent returns the content item that embeds the quiz
	GetContent(ctx context.Context, tx *gorm.DB, quizID uint) (*models.ContentItem, error)
}

// TrailRepository interface for the trail/module/content hierarchy
type TrailRepository interface {
	// GetTree loads a trail with modules and content items, both ordered
	GetTree(ctx context.Context, tx *gorm.DB, trailID uint) (*models.Trail, error)
	GetContent(ctx context.Context, tx *gorm.DB, contentID uint) (*models.ContentItem, error)
	GetModule(ctx context.Context, tx *gorm.DB, moduleID uint) (*models.Module, error)

	SetTrailBlocked(ctx context.Context, tx *gorm.DB, trailID uint, blocked bool) error
	SetModuleBlocked(ctx context.Context, tx *gorm.DB, moduleID uint, blocked bool) error
	SetContentBlocked(ctx context.Context, tx *gorm.DB, contentID uint, blocked bool) error
}

// ProgressRepository interface for per-content learner progress
type ProgressRepository interface {
	// Get returns nil, nil when the learner has no record for the content
	Get(ctx context.Context, tx *gorm.DB, userID string, contentID uint) (*models.UserProgress, error)
	// Upsert writes progress on the (user_id, content_id) key in one statement.
	// Completed is never reset and a completed percentage never decreases.
	Upsert(ctx context.Context, tx *gorm.DB, progress *models.UserProgress) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, contentIDs []uint) ([]models.UserProgress, error)
	ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []string, contentIDs []uint) ([]models.UserProgress, error)
}

// AttemptRepository interface for graded quiz attempts
type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error
	// GetLatest returns nil, nil when the learner never attempted the quiz
	GetLatest(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (*models.QuizAttempt, error)
	ListByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizAttempt, error)
}

// ClassRepository interface for classes and their rosters
type ClassRepository interface {
	// GetByID loads the class with roster and the full tree of every assigned trail
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error)
	IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, userID string) (bool, error)
	// GetUsers returns the profiles found for ids, in no particular order
	GetUsers(ctx context.Context, tx *gorm.DB, ids []string) ([]models.User, error)
}
