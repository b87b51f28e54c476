package models

import (
	"bytes"
	"encoding/json"
)

type AnswerKind int

const (
	// AnswerMalformed is any JSON shape that is neither a scalar nor a list of strings.
	AnswerMalformed AnswerKind = iota
	AnswerText
	AnswerChoices
)

// AnswerValue is a learner response or an authored correct answer. Scalars
// (strings, numbers, booleans) decode to AnswerText with their textual form,
// arrays of strings to AnswerChoices. Everything else is AnswerMalformed and
// grades as incorrect.
type AnswerValue struct {
	Kind    AnswerKind
	Text    string
	Choices []string
}

func TextValue(s string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: s}
}

func ChoicesValue(choices ...string) AnswerValue {
	return AnswerValue{Kind: AnswerChoices, Choices: choices}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = AnswerValue{Kind: AnswerMalformed}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*a = TextValue(s)
		}
	case '[':
		var choices []string
		if err := json.Unmarshal(data, &choices); err == nil {
			*a = ChoicesValue(choices...)
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err == nil {
			*a = TextValue(string(data))
		}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*a = TextValue(n.String())
		}
	}
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerChoices:
		if a.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Choices)
	default:
		return []byte("null"), nil
	}
}

// Submission maps question IDs to raw learner responses. A missing key means
// the question was left unanswered.
type Submission map[uint]AnswerValue
