package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/metrics"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/progress"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockRepository struct {
	quiz     *mockQuizRepo
	trail    *mockTrailRepo
	progress *mockProgressRepo
	attempt  *mockAttemptRepo
	class    *mockClassRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quiz:     &mockQuizRepo{},
		trail:    &mockTrailRepo{},
		progress: &mockProgressRepo{},
		attempt:  &mockAttemptRepo{},
		class:    &mockClassRepo{},
	}
}

func (m *mockRepository) Quiz() repositories.QuizRepository         { return m.quiz }
func (m *mockRepository) Trail() repositories.TrailRepository       { return m.trail }
func (m *mockRepository) Progress() repositories.ProgressRepository { return m.progress }
func (m *mockRepository) Attempt() repositories.AttemptRepository   { return m.attempt }
func (m *mockRepository) Class() repositories.ClassRepository       { return m.class }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type mockQuizRepo struct{ mock.Mock }

func (m *mockQuizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	return m.Called(ctx, tx, quiz).Error(0)
}

func (m *mockQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, tx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *mockQuizRepo) GetContent(ctx context.Context, tx *gorm.DB, quizID uint) (*models.ContentItem, error) {
	args := m.Called(ctx, tx, quizID)
	item, _ := args.Get(0).(*models.ContentItem)
	return item, args.Error(1)
}

type mockTrailRepo struct{ mock.Mock }

func (m *mockTrailRepo) GetTree(ctx context.Context, tx *gorm.DB, trailID uint) (*models.Trail, error) {
	args := m.Called(ctx, tx, trailID)
	trail, _ := args.Get(0).(*models.Trail)
	return trail, args.Error(1)
}

func (m *mockTrailRepo) GetContent(ctx context.Context, tx *gorm.DB, contentID uint) (*models.ContentItem, error) {
	args := m.Called(ctx, tx, contentID)
	item, _ := args.Get(0).(*models.ContentItem)
	return item, args.Error(1)
}

func (m *mockTrailRepo) GetModule(ctx context.Context, tx *gorm.DB, moduleID uint) (*models.Module, error) {
	args := m.Called(ctx, tx, moduleID)
	module, _ := args.Get(0).(*models.Module)
	return module, args.Error(1)
}

func (m *mockTrailRepo) SetTrailBlocked(ctx context.Context, tx *gorm.DB, trailID uint, blocked bool) error {
	return m.Called(ctx, tx, trailID, blocked).Error(0)
}

func (m *mockTrailRepo) SetModuleBlocked(ctx context.Context, tx *gorm.DB, moduleID uint, blocked bool) error {
	return m.Called(ctx, tx, moduleID, blocked).Error(0)
}

func (m *mockTrailRepo) SetContentBlocked(ctx context.Context, tx *gorm.DB, contentID uint, blocked bool) error {
	return m.Called(ctx, tx, contentID, blocked).Error(0)
}

type mockProgressRepo struct{ mock.Mock }

func (m *mockProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID string, contentID uint) (*models.UserProgress, error) {
	args := m.Called(ctx, tx, userID, contentID)
	record, _ := args.Get(0).(*models.UserProgress)
	return record, args.Error(1)
}

func (m *mockProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, progress *models.UserProgress) error {
	return m.Called(ctx, tx, progress).Error(0)
}

func (m *mockProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, contentIDs []uint) ([]models.UserProgress, error) {
	args := m.Called(ctx, tx, userID, contentIDs)
	rows, _ := args.Get(0).([]models.UserProgress)
	return rows, args.Error(1)
}

func (m *mockProgressRepo) ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []string, contentIDs []uint) ([]models.UserProgress, error) {
	args := m.Called(ctx, tx, userIDs, contentIDs)
	rows, _ := args.Get(0).([]models.UserProgress)
	return rows, args.Error(1)
}

type mockAttemptRepo struct{ mock.Mock }

func (m *mockAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	return m.Called(ctx, tx, attempt).Error(0)
}

func (m *mockAttemptRepo) GetLatest(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, tx, userID, quizID)
	attempt, _ := args.Get(0).(*models.QuizAttempt)
	return attempt, args.Error(1)
}

func (m *mockAttemptRepo) ListByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error) {
	args := m.Called(ctx, tx, userID, quizID)
	attempts, _ := args.Get(0).([]models.QuizAttempt)
	return attempts, args.Error(1)
}

func (m *mockAttemptRepo) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizAttempt, error) {
	args := m.Called(ctx, tx, quizID)
	attempts, _ := args.Get(0).([]models.QuizAttempt)
	return attempts, args.Error(1)
}

type mockClassRepo struct{ mock.Mock }

func (m *mockClassRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	args := m.Called(ctx, tx, id)
	class, _ := args.Get(0).(*models.Class)
	return class, args.Error(1)
}

func (m *mockClassRepo) IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, userID string) (bool, error) {
	args := m.Called(ctx, tx, classID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockClassRepo) GetUsers(ctx context.Context, tx *gorm.DB, ids []string) ([]models.User, error) {
	args := m.Called(ctx, tx, ids)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func testPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(testLogger())
}

const (
	fxTrailID    uint = 1
	fxModuleID   uint = 10
	fxVideoID    uint = 100
	fxQuizItemID uint = 101
	fxPDFID      uint = 102
	fxQuizID     uint = 5
	fxProfessor       = "prof-1"
)

// fixtureTrail has one module holding a video, a quiz and a blocked pdf
func fixtureTrail() *models.Trail {
	qid := fxQuizID
	return &models.Trail{
		ID:        fxTrailID,
		Title:     "Go Basics",
		CreatedBy: fxProfessor,
		Modules: []models.Module{{
			ID:      fxModuleID,
			TrailID: fxTrailID,
			Title:   "Intro",
			ContentItems: []models.ContentItem{
				{ID: fxVideoID, ModuleID: fxModuleID, Type: models.ContentVideo, Order: 1},
				{ID: fxQuizItemID, ModuleID: fxModuleID, Type: models.ContentQuiz, Order: 2, QuizID: &qid},
				{ID: fxPDFID, ModuleID: fxModuleID, Type: models.ContentPDF, Order: 3, Blocked: true},
			},
		}},
	}
}

// expectHierarchy stubs the content -> module -> trail lookups for trail
func expectHierarchy(repo *mockRepository, trail *models.Trail) {
	for i := range trail.Modules {
		module := trail.Modules[i]
		repo.trail.On("GetModule", mock.Anything, mock.Anything, module.ID).Return(&module, nil).Maybe()
		for j := range module.ContentItems {
			item := module.ContentItems[j]
			repo.trail.On("GetContent", mock.Anything, mock.Anything, item.ID).Return(&item, nil).Maybe()
		}
	}
	repo.trail.On("GetTree", mock.Anything, mock.Anything, trail.ID).Return(trail, nil).Maybe()
}

func wrapNotFound() error {
	return fmt.Errorf("record: %w", repositories.ErrNotFound)
}

func mustTree(t *testing.T) *progress.Tree {
	t.Helper()
	tree, err := progress.NewTree(fixtureTrail())
	if err != nil {
		t.Fatalf("fixture trail is malformed: %v", err)
	}
	return tree
}
