package grading

import "github.com/SAP-F-2025/learning-trails-service/internal/models"

// Review pairs each graded answer with its question for display. Correct
// answers and explanations are only filled in when the quiz discloses them.
func Review(quiz *models.Quiz, result *models.QuizResult) []models.ReviewItem {
	byID := make(map[uint]models.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}

	items := make([]models.ReviewItem, 0, len(result.Answers))
	for _, answer := range result.Answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}
		item := models.ReviewItem{
			QuestionID:    question.ID,
			Text:          question.Text,
			Type:          question.Type,
			Submitted:     answer.Submitted,
			Correct:       answer.Correct,
			PointsAwarded: answer.PointsAwarded,
			Points:        question.Points,
		}
		if quiz.ShowCorrectAnswers {
			correct := question.Correct()
			item.CorrectAnswer = &correct
			item.Explanation = question.Explanation
		}
		items = append(items, item)
	}
	return items
}

// LearnerQuestion is a question stripped of everything that would reveal the answer.
type LearnerQuestion struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	Type    models.QuestionType `json:"type"`
	Options []string            `json:"options,omitempty"`
	Points  int                 `json:"points"`
}

type LearnerQuiz struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  *string           `json:"description,omitempty"`
	TimeLimit    *int              `json:"time_limit,omitempty"`
	PassingScore int               `json:"passing_score"`
	AllowRetakes bool              `json:"allow_retakes"`
	TotalPoints  int               `json:"total_points"`
	Questions    []LearnerQuestion `json:"questions"`
}

// ForLearner builds the view of quiz handed to a learner before submission.
func ForLearner(quiz *models.Quiz) *LearnerQuiz {
	view := &LearnerQuiz{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		TimeLimit:    quiz.TimeLimit,
		PassingScore: quiz.PassingScore,
		AllowRetakes: quiz.AllowRetakes,
		TotalPoints:  quiz.TotalPoints(),
	}
	for _, q := range OrderedQuestions(quiz) {
		view.Questions = append(view.Questions, LearnerQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: q.OptionList(),
			Points:  q.Points,
		})
	}
	return view
}
