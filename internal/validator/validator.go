package validator

import (
	"math"
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with the quiz authoring rules
type Validator struct {
	structValidator *validator.Validate
	quizValidator   *QuizValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		quizValidator:   NewQuizValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate runs struct tags first, then the quiz rules when s is a quiz
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if quiz, ok := s.(*models.Quiz); ok {
		return v.quizValidator.ValidateQuiz(quiz)
	}

	return nil
}

// Quiz returns the quiz validator
func (v *Validator) Quiz() *QuizValidator {
	return v.quizValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("content_type", validateContentType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("passing_score", validatePassingScore)
	validate.RegisterValidation("percentage", validatePercentage)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).Valid()
}

func validateContentType(fl validator.FieldLevel) bool {
	return models.ContentType(fl.Field().String()).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validatePassingScore(fl validator.FieldLevel) bool {
	score := fl.Field().Int()
	return score >= 0 && score <= 100
}

func validatePercentage(fl validator.FieldLevel) bool {
	pct := fl.Field().Float()
	return !math.IsNaN(pct) && pct >= 0 && pct <= 100
}
