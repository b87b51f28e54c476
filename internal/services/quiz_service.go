package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/grading"
	"github.com/SAP-F-2025/learning-trails-service/internal/metrics"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/SAP-F-2025/learning-trails-service/internal/validator"
	"gorm.io/gorm"
)

type QuizService interface {
	CreateQuiz(ctx context.Context, actor Actor, quiz *models.Quiz) (*models.Quiz, error)
	// GetQuizForLearner returns the quiz without answers or explanations
	GetQuizForLearner(ctx context.Context, quizID uint) (*grading.LearnerQuiz, error)
	// Submit grades a submission, stores it as an attempt and completes the
	// owning content on a pass
	Submit(ctx context.Context, userID string, quizID uint, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error)
	ListAttempts(ctx context.Context, userID string, quizID uint) ([]models.QuizAttempt, error)
}

type quizService struct {
	repo      repositories.Repository
	progress  ProgressService
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

func NewQuizService(
	repo repositories.Repository,
	progressService ProgressService,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	v *validator.Validator,
	logger *slog.Logger,
) QuizService {
	return &quizService{
		repo:      repo,
		progress:  progressService,
		publisher: publisher,
		metrics:   m,
		validator: v,
		logger:    NewServiceLogger(logger, LogConfig{Service: "learning-trails", Component: "quiz"}),
		now:       time.Now,
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, actor Actor, quiz *models.Quiz) (created *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "create_quiz", actor.UserID)
	defer func() { op.LogResult(quiz.ID, "quiz", err) }()

	if !actor.Role.CanAuthor() {
		return nil, NewPermissionError(actor.UserID, 0, "quiz", "create", "role cannot author quizzes")
	}

	quiz.ID = 0
	quiz.CreatedBy = actor.UserID
	next := 0
	for _, q := range quiz.Questions {
		if q.Order > next {
			next = q.Order
		}
	}
	for i := range quiz.Questions {
		quiz.Questions[i].ID = 0
		if quiz.Questions[i].Order == 0 {
			next++
			quiz.Questions[i].Order = next
		}
	}

	if err := s.validator.Validate(quiz); err != nil {
		return nil, err
	}

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		return nil, err
	}

	op.LogAudit(AuditEventCreate, quiz.ID, "quiz", nil, map[string]interface{}{"questions": len(quiz.Questions)})
	return quiz, nil
}

func (s *quizService) GetQuizForLearner(ctx context.Context, quizID uint) (*grading.LearnerQuiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuizNotFound)
	}
	if _, err := s.accessibleContent(ctx, quizID); err != nil {
		return nil, err
	}
	return grading.ForLearner(quiz), nil
}

// accessibleContent resolves the content item embedding quizID and rejects
// it when the item or anything above it is blocked
func (s *quizService) accessibleContent(ctx context.Context, quizID uint) (*models.ContentItem, error) {
	content, err := s.repo.Quiz().GetContent(ctx, nil, quizID)
	if err != nil {
		return nil, mapNotFound(err, ErrContentNotFound)
	}

	located, err := loadContentTree(ctx, s.repo, content.ID)
	if err != nil {
		return nil, err
	}
	if !located.tree.IsContentAccessible(content.ID) {
		return nil, ErrContentBlocked
	}
	return content, nil
}

func (s *quizService) Submit(ctx context.Context, userID string, quizID uint, req *models.SubmitQuizRequest) (response *models.SubmitQuizResponse, err error) {
	op := s.logger.WithOperation(ctx, "submit_quiz", userID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuizNotFound)
	}

	content, err := s.accessibleContent(ctx, quizID)
	if err != nil {
		return nil, err
	}

	result, err := grading.Grade(quiz, req.Answers)
	if err != nil {
		return nil, err
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graded answers: %w", err)
	}

	attempt := &models.QuizAttempt{
		QuizID:       quiz.ID,
		UserID:       userID,
		ContentID:    content.ID,
		EarnedPoints: result.EarnedPoints,
		TotalPoints:  result.TotalPoints,
		Percentage:   result.Percentage,
		Passed:       result.Passed,
		CanRetake:    result.CanRetake,
		Answers:      answers,
		SubmittedAt:  s.now().UTC(),
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		latest, err := s.repo.Attempt().GetLatest(ctx, tx, userID, quiz.ID)
		if err != nil {
			return err
		}
		if err := checkRetake(quiz, latest); err != nil {
			return err
		}

		attempt.AttemptNumber = 1
		if latest != nil {
			attempt.AttemptNumber = latest.AttemptNumber + 1
		}
		if err := s.repo.Attempt().Create(ctx, tx, attempt); err != nil {
			// A concurrent submission took this attempt number first.
			if errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("%w: attempt %d of quiz %d already submitted", ErrRetakeNotAllowed, attempt.AttemptNumber, quiz.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveQuiz(result.Passed)
	s.publishGraded(ctx, attempt)

	if result.Passed {
		if _, err := s.progress.MarkComplete(ctx, userID, content.ID); err != nil {
			// The attempt is stored; failing here would make the learner resubmit a passed quiz.
			s.logger.logger.ErrorContext(ctx, "Failed to complete quiz content",
				"user_id", userID,
				"quiz_id", quiz.ID,
				"content_id", content.ID,
				"error", err)
		}
	}

	op.LogAudit(AuditEventSubmit, quiz.ID, "quiz", nil, map[string]interface{}{
		"attempt_number": attempt.AttemptNumber,
		"passed":         result.Passed,
	})

	return &models.SubmitQuizResponse{
		AttemptID:     attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		Result:        result,
		Review:        grading.Review(quiz, result),
	}, nil
}

// checkRetake allows a first attempt, and a further one only after a failed
// attempt on a quiz that allows retakes
func checkRetake(quiz *models.Quiz, latest *models.QuizAttempt) error {
	if latest == nil {
		return nil
	}
	if latest.Passed {
		return fmt.Errorf("%w: quiz %d already passed", ErrRetakeNotAllowed, quiz.ID)
	}
	if !quiz.AllowRetakes {
		return fmt.Errorf("%w: quiz %d does not allow retakes", ErrRetakeNotAllowed, quiz.ID)
	}
	return nil
}

func (s *quizService) publishGraded(ctx context.Context, attempt *models.QuizAttempt) {
	data := events.QuizGradedEvent{
		UserID:        attempt.UserID,
		QuizID:        attempt.QuizID,
		ContentID:     attempt.ContentID,
		AttemptID:     attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		EarnedPoints:  attempt.EarnedPoints,
		TotalPoints:   attempt.TotalPoints,
		Percentage:    attempt.Percentage,
		Passed:        attempt.Passed,
		GradedAt:      attempt.SubmittedAt,
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventQuizGraded, data)); err != nil {
		s.logger.logger.ErrorContext(ctx, "Failed to publish quiz graded event",
			"attempt_id", attempt.ID,
			"error", err)
	}
}

func (s *quizService) ListAttempts(ctx context.Context, userID string, quizID uint) ([]models.QuizAttempt, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, nil, quizID); err != nil {
		return nil, mapNotFound(err, ErrQuizNotFound)
	}
	if _, err := s.accessibleContent(ctx, quizID); err != nil {
		return nil, err
	}
	return s.repo.Attempt().ListByUserAndQuiz(ctx, nil, userID, quizID)
}
