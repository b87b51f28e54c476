package errors

import (
	"fmt"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError(ReasonEmptyQuiz, "quiz 7 has no questions", map[string]interface{}{"quiz_id": 7})

	expected := "configuration error (empty_quiz): quiz 7 has no questions"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
	if err.Context["quiz_id"] != 7 {
		t.Errorf("Expected quiz_id context 7, got %v", err.Context["quiz_id"])
	}
}

func TestIsConfiguration(t *testing.T) {
	wrapped := fmt.Errorf("grading quiz: %w", NewConfigurationError(ReasonUnknownQuestionType, "essay", nil))

	if !IsConfiguration(wrapped) {
		t.Errorf("Expected wrapped configuration error to be detected")
	}
	if ConfigurationReason(wrapped) != ReasonUnknownQuestionType {
		t.Errorf("Expected reason '%s', got '%s'", ReasonUnknownQuestionType, ConfigurationReason(wrapped))
	}
	if IsConfiguration(fmt.Errorf("plain")) {
		t.Errorf("Expected plain error not to be a configuration error")
	}
	if ConfigurationReason(nil) != "" {
		t.Errorf("Expected empty reason for nil error")
	}
}
