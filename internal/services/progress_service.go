package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/metrics"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/progress"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/SAP-F-2025/learning-trails-service/internal/validator"
	"gorm.io/gorm"
)

type ProgressService interface {
	// RecordProgress stores a progress tick for accessible content and
	// publishes a completion event when the content becomes completed
	RecordProgress(ctx context.Context, userID string, req *models.RecordProgressRequest) (*models.UserProgress, error)
	// MarkComplete completes content at 100%
	MarkComplete(ctx context.Context, userID string, contentID uint) (*models.UserProgress, error)

	GetModuleProgress(ctx context.Context, userID string, moduleID uint) (*models.ModuleProgress, error)
	GetTrailProgress(ctx context.Context, userID string, trailID uint) (*models.TrailProgress, error)
	GetClassProgress(ctx context.Context, actor Actor, classID uint) (*models.ClassProgress, error)
	// GetClassRoster returns every enrolled student's progress, for the class professor or an admin
	GetClassRoster(ctx context.Context, actor Actor, classID uint) ([]models.ClassProgress, error)

	CheckAccess(ctx context.Context, contentID uint) (*models.AccessResponse, error)
}

type ProgressServiceConfig struct {
	VideoCompletionThreshold float64
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	validator *validator.Validator
	logger    *ServiceLogger
	config    ProgressServiceConfig
	now       func() time.Time
}

func NewProgressService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	v *validator.Validator,
	logger *slog.Logger,
	config ProgressServiceConfig,
) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		validator: v,
		logger:    NewServiceLogger(logger, LogConfig{Service: "learning-trails", Component: "progress"}),
		config:    config,
		now:       time.Now,
	}
}

func (s *progressService) RecordProgress(ctx context.Context, userID string, req *models.RecordProgressRequest) (result *models.UserProgress, err error) {
	op := s.logger.WithOperation(ctx, "record_progress", userID)
	defer func() { op.LogResult(req.ContentID, "content", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.record(ctx, userID, progress.Update{
		UserID:     userID,
		ContentID:  req.ContentID,
		Completed:  req.Completed,
		Percentage: req.Percentage,
		At:         s.now().UTC(),
	})
}

func (s *progressService) MarkComplete(ctx context.Context, userID string, contentID uint) (result *models.UserProgress, err error) {
	op := s.logger.WithOperation(ctx, "mark_complete", userID)
	defer func() { op.LogResult(contentID, "content", err) }()

	return s.record(ctx, userID, progress.Update{
		UserID:     userID,
		ContentID:  contentID,
		Completed:  true,
		Percentage: 100,
		At:         s.now().UTC(),
	})
}

func (s *progressService) record(ctx context.Context, userID string, update progress.Update) (*models.UserProgress, error) {
	located, err := loadContentTree(ctx, s.repo, update.ContentID)
	if err != nil {
		return nil, err
	}
	if !located.tree.IsContentAccessible(update.ContentID) {
		return nil, ErrContentBlocked
	}

	update = progress.ApplyVideoThreshold(update, located.item.Type, s.config.VideoCompletionThreshold)

	var merged models.UserProgress
	var transitioned bool
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.Progress().Get(ctx, tx, userID, update.ContentID)
		if err != nil {
			return err
		}
		merged = progress.Merge(existing, update)
		transitioned = progress.Transitioned(existing, merged)
		return s.repo.Progress().Upsert(ctx, tx, &merged)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	s.metrics.ObserveProgress(string(located.item.Type), transitioned)

	if transitioned {
		s.publishCompleted(ctx, userID, located, merged.LastAccessed)
	}

	return &merged, nil
}

// publishCompleted announces a completion. The progress row is already
// committed, so a publish failure is logged and not returned.
func (s *progressService) publishCompleted(ctx context.Context, userID string, located *contentTree, at time.Time) {
	data := events.ContentCompletedEvent{
		UserID:      userID,
		ContentID:   located.item.ID,
		ContentType: string(located.item.Type),
		ModuleID:    located.module.ID,
		TrailID:     located.tree.Trail.ID,
		CompletedAt: at,
		QuizID:      located.item.QuizID,
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventContentCompleted, data)); err != nil {
		s.logger.logger.ErrorContext(ctx, "Failed to publish content completed event",
			"user_id", userID,
			"content_id", located.item.ID,
			"error", err)
	}
}

func (s *progressService) GetModuleProgress(ctx context.Context, userID string, moduleID uint) (*models.ModuleProgress, error) {
	module, err := s.repo.Trail().GetModule(ctx, nil, moduleID)
	if err != nil {
		return nil, mapNotFound(err, ErrModuleNotFound)
	}

	tree, err := loadTrailTree(ctx, s.repo, module.TrailID)
	if err != nil {
		return nil, err
	}

	treeModule, ok := tree.Module(moduleID)
	if !ok {
		return nil, fmt.Errorf("%w: module %d not in trail %d", ErrModuleNotFound, moduleID, module.TrailID)
	}

	records, err := s.userRecords(ctx, userID, tree)
	if err != nil {
		return nil, err
	}

	result := progress.ModuleBreakdown(treeModule, records)
	return &result, nil
}

func (s *progressService) GetTrailProgress(ctx context.Context, userID string, trailID uint) (*models.TrailProgress, error) {
	tree, err := loadTrailTree(ctx, s.repo, trailID)
	if err != nil {
		return nil, err
	}

	records, err := s.userRecords(ctx, userID, tree)
	if err != nil {
		return nil, err
	}

	result := progress.TrailBreakdown(tree.Trail, records)
	return &result, nil
}

func (s *progressService) userRecords(ctx context.Context, userID string, tree *progress.Tree) (progress.Records, error) {
	rows, err := s.repo.Progress().ListByUser(ctx, nil, userID, tree.ContentIDs())
	if err != nil {
		return nil, err
	}
	return tree.Records(rows), nil
}

// loadClass returns the class with every assigned trail validated
func (s *progressService) loadClass(ctx context.Context, classID uint) (*models.Class, []uint, error) {
	class, err := s.repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		return nil, nil, mapNotFound(err, ErrClassNotFound)
	}
	return validateClass(class)
}

func validateClass(class *models.Class) (*models.Class, []uint, error) {
	var contentIDs []uint
	for i := range class.Trails {
		tree, err := progress.NewTree(&class.Trails[i])
		if err != nil {
			return nil, nil, err
		}
		contentIDs = append(contentIDs, tree.ContentIDs()...)
	}
	return class, contentIDs, nil
}

func (s *progressService) GetClassProgress(ctx context.Context, actor Actor, classID uint) (*models.ClassProgress, error) {
	class, contentIDs, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, class.ProfessorID) {
		enrolled, err := s.repo.Class().IsEnrolled(ctx, nil, classID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	rows, err := s.repo.Progress().ListByUser(ctx, nil, actor.UserID, contentIDs)
	if err != nil {
		return nil, err
	}

	result := progress.ClassBreakdown(class, actor.UserID, progress.Index(rows))
	return &result, nil
}

func (s *progressService) GetClassRoster(ctx context.Context, actor Actor, classID uint) (roster []models.ClassProgress, err error) {
	op := s.logger.WithOperation(ctx, "class_roster", actor.UserID)
	defer func() { op.LogResult(classID, "class", err) }()

	class, contentIDs, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, class.ProfessorID) {
		return nil, NewPermissionError(actor.UserID, classID, "class", "view_roster", "not the class professor")
	}

	return rosterProgress(ctx, s.repo, class, contentIDs)
}

// rosterProgress computes every enrolled student's class progress from one query
func rosterProgress(ctx context.Context, repo repositories.Repository, class *models.Class, contentIDs []uint) ([]models.ClassProgress, error) {
	studentIDs := make([]string, 0, len(class.Students))
	for _, student := range class.Students {
		studentIDs = append(studentIDs, student.StudentID)
	}

	rows, err := repo.Progress().ListByUsers(ctx, nil, studentIDs, contentIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]models.UserProgress, len(studentIDs))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	roster := make([]models.ClassProgress, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		roster = append(roster, progress.ClassBreakdown(class, studentID, progress.Index(byUser[studentID])))
	}
	return roster, nil
}

func (s *progressService) CheckAccess(ctx context.Context, contentID uint) (*models.AccessResponse, error) {
	located, err := loadContentTree(ctx, s.repo, contentID)
	if err != nil {
		return nil, err
	}
	return &models.AccessResponse{
		ContentID:  contentID,
		Accessible: located.tree.IsContentAccessible(contentID),
	}, nil
}
