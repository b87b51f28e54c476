package models

// RecordProgressRequest is a progress tick sent by the player or reader.
type RecordProgressRequest struct {
	ContentID  uint    `json:"content_id" validate:"required"`
	Completed  bool    `json:"completed"`
	Percentage float64 `json:"percentage" validate:"percentage"`
}

type SubmitQuizRequest struct {
	Answers Submission `json:"answers" validate:"required"`
}

// SetBlockedRequest toggles gating on a trail, module or content item.
type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// AccessResponse answers whether the caller may open a content item.
type AccessResponse struct {
	ContentID  uint `json:"content_id"`
	Accessible bool `json:"accessible"`
}

// SubmitQuizResponse is what a learner sees after submitting.
type SubmitQuizResponse struct {
	AttemptID     uint         `json:"attempt_id"`
	AttemptNumber int          `json:"attempt_number"`
	Result        *QuizResult  `json:"result"`
	Review        []ReviewItem `json:"review"`
}
