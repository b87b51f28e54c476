package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the learning events consumed by the points/badges awarder
type EventType string

const (
	EventContentCompleted EventType = "progress.content_completed"
	EventQuizGraded       EventType = "quiz.graded"
)

const (
	EventSource  = "learning-trails-service"
	EventVersion = "1.0"
)

// Event is the envelope every published event shares
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh ID
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// ContentCompletedEvent fires once per (user, content), on the transition to completed
type ContentCompletedEvent struct {
	UserID      string    `json:"user_id"`
	ContentID   uint      `json:"content_id"`
	ContentType string    `json:"content_type"`
	ModuleID    uint      `json:"module_id"`
	TrailID     uint      `json:"trail_id"`
	CompletedAt time.Time `json:"completed_at"`
	// Set when the completion came from passing a quiz
	QuizID *uint `json:"quiz_id,omitempty"`
}

type QuizGradedEvent struct {
	UserID        string    `json:"user_id"`
	QuizID        uint      `json:"quiz_id"`
	ContentID     uint      `json:"content_id"`
	AttemptID     uint      `json:"attempt_id"`
	AttemptNumber int       `json:"attempt_number"`
	EarnedPoints  int       `json:"earned_points"`
	TotalPoints   int       `json:"total_points"`
	Percentage    float64   `json:"percentage"`
	Passed        bool      `json:"passed"`
	GradedAt      time.Time `json:"graded_at"`
}
