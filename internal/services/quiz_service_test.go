package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/SAP-F-2025/learning-trails-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func jsonValue(v interface{}) datatypes.JSON {
	raw, _ := json.Marshal(v)
	return datatypes.JSON(raw)
}

func fixtureQuiz(allowRetakes bool) *models.Quiz {
	return &models.Quiz{
		ID:                 fxQuizID,
		Title:              "Capitals",
		PassingScore:       70,
		AllowRetakes:       allowRetakes,
		ShowCorrectAnswers: true,
		CreatedBy:          fxProfessor,
		Questions: []models.Question{
			{ID: 1, Order: 1, Text: "Capital of France?", Type: models.SingleChoice,
				Options: jsonValue([]string{"Paris", "Lyon"}), CorrectAnswer: jsonValue("Paris"), Points: 1},
			{ID: 2, Order: 2, Text: "Sky colour?", Type: models.SingleChoice,
				Options: jsonValue([]string{"Blue", "Red"}), CorrectAnswer: jsonValue("Blue"), Points: 1},
		},
	}
}

type quizFixture struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	svc       QuizService
}

func newQuizFixture(t *testing.T, quiz *models.Quiz) *quizFixture {
	t.Helper()
	return newQuizFixtureInTrail(t, quiz, fixtureTrail())
}

func newQuizFixtureInTrail(t *testing.T, quiz *models.Quiz, trail *models.Trail) *quizFixture {
	t.Helper()
	repo := newMockRepository()
	publisher := testPublisher()
	expectHierarchy(repo, trail)

	repo.quiz.On("GetByID", mock.Anything, mock.Anything, quiz.ID).Return(quiz, nil).Maybe()
	item, _, _ := mustTree(t).Content(fxQuizItemID)
	repo.quiz.On("GetContent", mock.Anything, mock.Anything, quiz.ID).Return(item, nil).Maybe()

	progressSvc := newTestProgressService(repo, publisher)
	svc := NewQuizService(repo, progressSvc, publisher, testMetrics(), validator.New(), testLogger())
	svc.(*quizService).now = func() time.Time { return fixedNow }

	return &quizFixture{repo: repo, publisher: publisher, svc: svc}
}

func eventTypes(published []events.Event) []events.EventType {
	types := make([]events.EventType, 0, len(published))
	for _, e := range published {
		types = append(types, e.Type)
	}
	return types
}

func TestSubmit_PassCompletesContent(t *testing.T) {
	f := newQuizFixture(t, fixtureQuiz(true))

	f.repo.attempt.On("GetLatest", mock.Anything, mock.Anything, "student-1", fxQuizID).Return(nil, nil)
	f.repo.attempt.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.QuizAttempt")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.QuizAttempt).ID = 42
		}).Return(nil)
	f.repo.progress.On("Get", mock.Anything, mock.Anything, "student-1", fxQuizItemID).Return(nil, nil)
	f.repo.progress.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.UserProgress) bool {
		return p.ContentID == fxQuizItemID && p.Completed && p.Percentage == 100
	})).Return(nil)

	response, err := f.svc.Submit(context.Background(), "student-1", fxQuizID, &models.SubmitQuizRequest{
		Answers: models.Submission{1: models.TextValue("paris"), 2: models.TextValue("Blue")},
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), response.AttemptID)
	assert.Equal(t, 1, response.AttemptNumber)
	assert.True(t, response.Result.Passed)
	assert.Equal(t, 100.0, response.Result.Percentage)
	require.Len(t, response.Review, 2)
	require.NotNil(t, response.Review[0].CorrectAnswer)

	assert.ElementsMatch(t,
		[]events.EventType{events.EventQuizGraded, events.EventContentCompleted},
		eventTypes(f.publisher.GetPublishedEvents()))
	f.repo.progress.AssertExpectations(t)
}

func TestSubmit_FailWithRetakes(t *testing.T) {
	f := newQuizFixture(t, fixtureQuiz(true))

	previous := &models.QuizAttempt{ID: 41, AttemptNumber: 1, Passed: false, CanRetake: true}
	f.repo.attempt.On("GetLatest", mock.Anything, mock.Anything, "student-1", fxQuizID).Return(previous, nil)
	f.repo.attempt.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(a *models.QuizAttempt) bool {
		return a.AttemptNumber == 2 && !a.Passed && a.Percentage == 50
	})).Return(nil)

	response, err := f.svc.Submit(context.Background(), "student-1", fxQuizID, &models.SubmitQuizRequest{
		Answers: models.Submission{1: models.TextValue("Paris"), 2: models.TextValue("Red")},
	})

	require.NoError(t, err)
	assert.False(t, response.Result.Passed)
	assert.True(t, response.Result.CanRetake)
	assert.Equal(t, []events.EventType{events.EventQuizGraded}, eventTypes(f.publisher.GetPublishedEvents()))
	f.repo.progress.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_RetakeRules(t *testing.T) {
	tests := []struct {
		name         string
		allowRetakes bool
		latest       *models.QuizAttempt
	}{
		{"already passed", true, &models.QuizAttempt{AttemptNumber: 1, Passed: true}},
		{"retakes disabled", false, &models.QuizAttempt{AttemptNumber: 1, Passed: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t, fixtureQuiz(tt.allowRetakes))
			f.repo.attempt.On("GetLatest", mock.Anything, mock.Anything, "student-1", fxQuizID).Return(tt.latest, nil)

			_, err := f.svc.Submit(context.Background(), "student-1", fxQuizID, &models.SubmitQuizRequest{
				Answers: models.Submission{1: models.TextValue("Paris")},
			})

			assert.ErrorIs(t, err, ErrRetakeNotAllowed)
			assert.True(t, IsConflict(err))
			f.repo.attempt.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.publisher.GetPublishedEvents())
		})
	}
}

func TestSubmit_ConcurrentAttemptNumberIsRetakeConflict(t *testing.T) {
	f := newQuizFixture(t, fixtureQuiz(false))

	f.repo.attempt.On("GetLatest", mock.Anything, mock.Anything, "student-1", fxQuizID).Return(nil, nil)
	f.repo.attempt.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.QuizAttempt")).
		Return(fmt.Errorf("attempt 1 of quiz 5 for student-1: %w", repositories.ErrDuplicate))

	_, err := f.svc.Submit(context.Background(), "student-1", fxQuizID, &models.SubmitQuizRequest{
		Answers: models.Submission{1: models.TextValue("Paris"), 2: models.TextValue("Blue")},
	})

	assert.ErrorIs(t, err, ErrRetakeNotAllowed)
	assert.True(t, IsConflict(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())
	f.repo.progress.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuiz_BlockedTrailHidesQuiz(t *testing.T) {
	trail := fixtureTrail()
	trail.Blocked = true
	f := newQuizFixtureInTrail(t, fixtureQuiz(true), trail)
	ctx := context.Background()

	view, err := f.svc.GetQuizForLearner(ctx, fxQuizID)
	assert.ErrorIs(t, err, ErrContentBlocked)
	assert.Nil(t, view)

	attempts, err := f.svc.ListAttempts(ctx, "student-1", fxQuizID)
	assert.ErrorIs(t, err, ErrContentBlocked)
	assert.Nil(t, attempts)

	_, err = f.svc.Submit(ctx, "student-1", fxQuizID, &models.SubmitQuizRequest{
		Answers: models.Submission{1: models.TextValue("Paris")},
	})
	assert.ErrorIs(t, err, ErrContentBlocked)

	f.repo.attempt.AssertNotCalled(t, "ListByUserAndQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.attempt.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuiz_BlockedModuleHidesQuiz(t *testing.T) {
	trail := fixtureTrail()
	trail.Modules[0].Blocked = true
	f := newQuizFixtureInTrail(t, fixtureQuiz(true), trail)

	_, err := f.svc.GetQuizForLearner(context.Background(), fxQuizID)
	assert.ErrorIs(t, err, ErrContentBlocked)
}

func TestListAttempts(t *testing.T) {
	f := newQuizFixture(t, fixtureQuiz(true))
	stored := []models.QuizAttempt{{ID: 1, AttemptNumber: 1}, {ID: 2, AttemptNumber: 2}}
	f.repo.attempt.On("ListByUserAndQuiz", mock.Anything, mock.Anything, "student-1", fxQuizID).Return(stored, nil)

	attempts, err := f.svc.ListAttempts(context.Background(), "student-1", fxQuizID)
	require.NoError(t, err)
	assert.Equal(t, stored, attempts)
}

func TestSubmit_EmptyQuizIsConfigurationError(t *testing.T) {
	quiz := fixtureQuiz(true)
	quiz.Questions = nil
	f := newQuizFixture(t, quiz)

	_, err := f.svc.Submit(context.Background(), "student-1", fxQuizID, &models.SubmitQuizRequest{
		Answers: models.Submission{},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonEmptyQuiz, apperrors.ConfigurationReason(err))
	f.repo.attempt.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_QuizNotFound(t *testing.T) {
	repo := newMockRepository()
	repo.quiz.On("GetByID", mock.Anything, mock.Anything, uint(404)).Return(nil, wrapNotFound())
	svc := NewQuizService(repo, nil, testPublisher(), testMetrics(), validator.New(), testLogger())

	_, err := svc.Submit(context.Background(), "student-1", 404, &models.SubmitQuizRequest{Answers: models.Submission{}})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestGetQuizForLearner_HidesAnswers(t *testing.T) {
	f := newQuizFixture(t, fixtureQuiz(true))

	view, err := f.svc.GetQuizForLearner(context.Background(), fxQuizID)
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
	assert.Equal(t, []string{"Paris", "Lyon"}, view.Questions[0].Options)
}

func TestCreateQuiz(t *testing.T) {
	t.Run("professor creates", func(t *testing.T) {
		repo := newMockRepository()
		repo.quiz.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(q *models.Quiz) bool {
			return q.CreatedBy == fxProfessor && q.Questions[0].Order == 1 && q.Questions[1].Order == 2
		})).Return(nil)
		svc := NewQuizService(repo, nil, testPublisher(), testMetrics(), validator.New(), testLogger())

		quiz := fixtureQuiz(true)
		quiz.ID = 0
		quiz.CreatedBy = ""
		for i := range quiz.Questions {
			quiz.Questions[i].Order = 0
		}

		_, err := svc.CreateQuiz(context.Background(), Actor{UserID: fxProfessor, Role: models.RoleProfessor}, quiz)
		require.NoError(t, err)
		repo.quiz.AssertExpectations(t)
	})

	t.Run("missing orders go after explicit ones", func(t *testing.T) {
		repo := newMockRepository()
		repo.quiz.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(q *models.Quiz) bool {
			return q.Questions[0].Order == 2 && q.Questions[1].Order == 3
		})).Return(nil)
		svc := NewQuizService(repo, nil, testPublisher(), testMetrics(), validator.New(), testLogger())

		quiz := fixtureQuiz(true)
		quiz.Questions[0].Order = 2
		quiz.Questions[1].Order = 0

		_, err := svc.CreateQuiz(context.Background(), Actor{UserID: fxProfessor, Role: models.RoleProfessor}, quiz)
		require.NoError(t, err)
		repo.quiz.AssertExpectations(t)
	})

	t.Run("student rejected", func(t *testing.T) {
		svc := NewQuizService(newMockRepository(), nil, testPublisher(), testMetrics(), validator.New(), testLogger())
		_, err := svc.CreateQuiz(context.Background(), Actor{UserID: "student-1", Role: models.RoleStudent}, fixtureQuiz(true))
		assert.True(t, IsForbidden(err))
	})

	t.Run("answer outside options rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewQuizService(repo, nil, testPublisher(), testMetrics(), validator.New(), testLogger())
		quiz := fixtureQuiz(true)
		quiz.Questions[0].CorrectAnswer = jsonValue("Berlin")

		_, err := svc.CreateQuiz(context.Background(), Actor{UserID: fxProfessor, Role: models.RoleProfessor}, quiz)
		assert.True(t, IsValidation(err))
		repo.quiz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
