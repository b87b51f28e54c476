package models

// GradedAnswer is the outcome for a single question. Submitted is nil when
// the learner did not answer.
type GradedAnswer struct {
	QuestionID    uint         `json:"question_id"`
	Submitted     *AnswerValue `json:"submitted"`
	Correct       bool         `json:"correct"`
	PointsAwarded int          `json:"points_awarded"`
}

type QuizResult struct {
	QuizID       uint           `json:"quiz_id"`
	TotalPoints  int            `json:"total_points"`
	EarnedPoints int            `json:"earned_points"`
	Percentage   float64        `json:"percentage"`
	Passed       bool           `json:"passed"`
	PassingScore int            `json:"passing_score"`
	CanRetake    bool           `json:"can_retake"`
	Answers      []GradedAnswer `json:"answers"`
}

// ReviewItem is the learner-facing view of a graded question. CorrectAnswer
// and Explanation stay nil unless the quiz discloses correct answers.
type ReviewItem struct {
	QuestionID    uint         `json:"question_id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Submitted     *AnswerValue `json:"submitted"`
	Correct       bool         `json:"correct"`
	PointsAwarded int          `json:"points_awarded"`
	Points        int          `json:"points"`
	CorrectAnswer *AnswerValue `json:"correct_answer,omitempty"`
	Explanation   *string      `json:"explanation,omitempty"`
}
