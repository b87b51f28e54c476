package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	ReasonEmptyQuiz           = "empty_quiz"
	ReasonUnknownQuestionType = "unknown_question_type"
	ReasonMalformedHierarchy  = "malformed_hierarchy"
)

// ConfigurationError reports authored content that cannot be evaluated
// (a quiz without questions, an unknown question type, a broken
// trail/module/content hierarchy). It is always surfaced to the caller.
type ConfigurationError struct {
	Reason  string                 `json:"reason"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", ce.Reason, ce.Message)
}

func NewConfigurationError(reason, message string, context map[string]interface{}) *ConfigurationError {
	return &ConfigurationError{
		Reason:  reason,
		Message: message,
		Context: context,
	}
}

// IsConfiguration reports whether err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return stderrors.As(err, &ce)
}

// ConfigurationReason returns the reason of a wrapped ConfigurationError, or "".
func ConfigurationReason(err error) string {
	var ce *ConfigurationError
	if stderrors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
