package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single-choice"
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	NumberAnswer   QuestionType = "number"
	TextAnswer     QuestionType = "text"
)

// QuestionTypes lists every question type the grader knows how to score.
var QuestionTypes = []QuestionType{SingleChoice, MultipleChoice, TrueFalse, NumberAnswer, TextAnswer}

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, TrueFalse, NumberAnswer, TextAnswer:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == SingleChoice || t == MultipleChoice
}

type Quiz struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Title              string         `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description        *string        `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	TimeLimit          *int           `json:"time_limit" validate:"omitempty,min=1,max=600"` // minutes, nil = untimed
	PassingScore       int            `json:"passing_score" gorm:"not null;default:70" validate:"passing_score"`
	AllowRetakes       bool           `json:"allow_retakes" gorm:"default:true"`
	ShowCorrectAnswers bool           `json:"show_correct_answers" gorm:"default:true"`
	CreatedBy          string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID" validate:"required,min=1,dive"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints sums the point value of every question.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Order         int            `json:"order" gorm:"not null;default:0"`
	Text          string         `json:"text" gorm:"not null;type:text" validate:"required"`
	Type          QuestionType   `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Options       datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`          // []string
	CorrectAnswer datatypes.JSON `json:"correct_answer" gorm:"type:jsonb;not null"`    // string or []string
	Points        int            `json:"points" gorm:"not null;default:1" validate:"min=1,max=100"`
	Explanation   *string        `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// OptionList decodes the stored options. Malformed JSON yields nil.
func (q *Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}

// Correct decodes the stored correct answer into an AnswerValue.
func (q *Question) Correct() AnswerValue {
	var value AnswerValue
	if len(q.CorrectAnswer) == 0 {
		return AnswerValue{Kind: AnswerMalformed}
	}
	if err := json.Unmarshal(q.CorrectAnswer, &value); err != nil {
		return AnswerValue{Kind: AnswerMalformed}
	}
	return value
}

// QuizAttempt is one graded submission of a quiz by a learner.
type QuizAttempt struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index:idx_attempt_user_quiz;uniqueIndex:idx_attempt_number"`
	UserID        string         `json:"user_id" gorm:"not null;size:255;index:idx_attempt_user_quiz;uniqueIndex:idx_attempt_number"`
	ContentID     uint           `json:"content_id" gorm:"not null;index"`
	AttemptNumber int            `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_number"`
	EarnedPoints  int            `json:"earned_points"`
	TotalPoints   int            `json:"total_points"`
	Percentage    float64        `json:"percentage"`
	Passed        bool           `json:"passed"`
	CanRetake     bool           `json:"can_retake"`
	Answers       datatypes.JSON `json:"answers" gorm:"type:jsonb"` // []GradedAnswer
	SubmittedAt   time.Time      `json:"submitted_at" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
