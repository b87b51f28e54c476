package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
)

// QuizValidator checks that authored questions can actually be graded
type QuizValidator struct{}

// NewQuizValidator creates a new quiz validator
func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// ValidateQuiz validates every question and collects all failures
func (v *QuizValidator) ValidateQuiz(quiz *models.Quiz) error {
	var errs apperrors.ValidationErrors

	if len(quiz.Questions) == 0 {
		errs.Add("questions", "must have at least 1 question", nil)
		return errs
	}

	seenOrder := make(map[int]bool, len(quiz.Questions))
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		field := fmt.Sprintf("questions[%d]", i)

		if seenOrder[question.Order] {
			errs.Add(field+".order", "must be unique within the quiz", question.Order)
		}
		seenOrder[question.Order] = true

		if err := v.ValidateQuestion(question); err != nil {
			errs.Add(field, err.Error(), nil)
		}
	}

	return errs.OrNil()
}

// ValidateQuestion validates a complete question object
func (v *QuizValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Text) == "" {
		return fmt.Errorf("question text is required")
	}

	if question.Points < 1 || question.Points > 100 {
		return fmt.Errorf("question points must be between 1 and 100")
	}

	if !question.Type.Valid() {
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}

	if question.Type.HasOptions() {
		if err := v.validateOptions(question.Options); err != nil {
			return err
		}
	}

	correct := question.Correct()

	switch question.Type {
	case models.SingleChoice:
		return v.validateSingleChoice(question.OptionList(), correct)
	case models.MultipleChoice:
		return v.validateMultipleChoice(question.OptionList(), correct)
	case models.TrueFalse:
		return v.validateTrueFalse(correct)
	case models.NumberAnswer:
		return v.validateNumber(correct)
	case models.TextAnswer:
		return v.validateText(correct)
	}

	return nil
}

func (v *QuizValidator) validateOptions(raw []byte) error {
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return fmt.Errorf("options must be a list of strings")
	}

	nonEmpty := 0
	for _, option := range options {
		if strings.TrimSpace(option) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return fmt.Errorf("must have at least 1 non-empty option")
	}

	return nil
}

func (v *QuizValidator) validateSingleChoice(options []string, correct models.AnswerValue) error {
	if correct.Kind != models.AnswerText {
		return fmt.Errorf("correct answer must be a single option")
	}
	if !containsFolded(options, correct.Text) {
		return fmt.Errorf("correct answer '%s' does not match any option", correct.Text)
	}
	return nil
}

func (v *QuizValidator) validateMultipleChoice(options []string, correct models.AnswerValue) error {
	if correct.Kind != models.AnswerChoices || len(correct.Choices) == 0 {
		return fmt.Errorf("must have at least 1 correct answer")
	}
	for _, choice := range correct.Choices {
		if !contains(options, choice) {
			return fmt.Errorf("correct answer '%s' does not match any option", choice)
		}
	}
	return nil
}

func (v *QuizValidator) validateTrueFalse(correct models.AnswerValue) error {
	if correct.Kind != models.AnswerText {
		return fmt.Errorf("correct answer must be true or false")
	}
	if !strings.EqualFold(correct.Text, "true") && !strings.EqualFold(correct.Text, "false") {
		return fmt.Errorf("correct answer must be true or false")
	}
	return nil
}

func (v *QuizValidator) validateNumber(correct models.AnswerValue) error {
	if correct.Kind != models.AnswerText {
		return fmt.Errorf("correct answer must be a number")
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(correct.Text), 64); err != nil || math.IsNaN(n) {
		return fmt.Errorf("correct answer '%s' is not a number", correct.Text)
	}
	return nil
}

func (v *QuizValidator) validateText(correct models.AnswerValue) error {
	if correct.Kind != models.AnswerText || correct.Text == "" {
		return fmt.Errorf("correct answer text is required")
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func containsFolded(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
