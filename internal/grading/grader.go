// Package grading scores quiz submissions. Every function here is pure: no
// I/O, no shared state, safe for concurrent use.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

type matcher func(submitted, correct models.AnswerValue) bool

// Closed set of scorers. A question type without an entry is a configuration error.
var matchers = map[models.QuestionType]matcher{
	models.SingleChoice:   matchFolded,
	models.TrueFalse:      matchFolded,
	models.TextAnswer:     matchFolded,
	models.NumberAnswer:   matchNumber,
	models.MultipleChoice: matchSet,
}

// Grade scores submission against quiz. Unanswered and malformed responses
// are incorrect; only broken quiz definitions return an error.
func Grade(quiz *models.Quiz, submission models.Submission) (*models.QuizResult, error) {
	questions, err := checkQuiz(quiz)
	if err != nil {
		return nil, err
	}

	result := &models.QuizResult{
		QuizID:       quiz.ID,
		PassingScore: quiz.PassingScore,
		Answers:      make([]models.GradedAnswer, 0, len(questions)),
	}

	for _, question := range questions {
		graded := models.GradedAnswer{QuestionID: question.ID}
		if submitted, ok := submission[question.ID]; ok {
			value := submitted
			graded.Submitted = &value
			graded.Correct = matchers[question.Type](submitted, question.Correct())
		}
		if graded.Correct {
			graded.PointsAwarded = question.Points
		}

		result.TotalPoints += question.Points
		result.EarnedPoints += graded.PointsAwarded
		result.Answers = append(result.Answers, graded)
	}

	result.Percentage = Percentage(result.EarnedPoints, result.TotalPoints)
	result.Passed = result.Percentage >= float64(quiz.PassingScore)
	result.CanRetake = !result.Passed && quiz.AllowRetakes

	return result, nil
}

// Percentage is earned/total*100, or 0 when total is not positive.
func Percentage(earned, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(earned) / float64(total) * 100
}

// OrderedQuestions returns the quiz questions sorted by their Order field.
// Ties keep their stored sequence.
func OrderedQuestions(quiz *models.Quiz) []models.Question {
	questions := make([]models.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	return questions
}

func checkQuiz(quiz *models.Quiz) ([]models.Question, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		var id uint
		if quiz != nil {
			id = quiz.ID
		}
		return nil, apperrors.NewConfigurationError(apperrors.ReasonEmptyQuiz,
			fmt.Sprintf("quiz %d has no questions", id),
			map[string]interface{}{"quiz_id": id})
	}

	for _, question := range quiz.Questions {
		if _, ok := matchers[question.Type]; !ok {
			return nil, apperrors.NewConfigurationError(apperrors.ReasonUnknownQuestionType,
				fmt.Sprintf("question %d has unknown type %q", question.ID, question.Type),
				map[string]interface{}{"quiz_id": quiz.ID, "question_id": question.ID, "type": string(question.Type)})
		}
	}

	return OrderedQuestions(quiz), nil
}

func matchFolded(submitted, correct models.AnswerValue) bool {
	if submitted.Kind != models.AnswerText || correct.Kind != models.AnswerText {
		return false
	}
	return strings.EqualFold(submitted.Text, correct.Text)
}

func matchNumber(submitted, correct models.AnswerValue) bool {
	if submitted.Kind != models.AnswerText || correct.Kind != models.AnswerText {
		return false
	}
	got, ok := parseNumber(submitted.Text)
	if !ok {
		return false
	}
	want, ok := parseNumber(correct.Text)
	if !ok {
		return false
	}
	return got == want
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func matchSet(submitted, correct models.AnswerValue) bool {
	if submitted.Kind != models.AnswerChoices {
		return false
	}

	var want []string
	switch correct.Kind {
	case models.AnswerChoices:
		want = correct.Choices
	case models.AnswerText:
		want = []string{correct.Text}
	default:
		return false
	}

	got := toSet(submitted.Choices)
	expected := toSet(want)
	if len(got) != len(expected) {
		return false
	}
	for choice := range expected {
		if _, ok := got[choice]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
