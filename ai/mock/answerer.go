package mock

import (
	"context"
	"strings"

	"github.com/regsight/devaudit/ai"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// AnswerQuestionFunc is called by AnswerQuestion if set.
	// If nil, uses default passage-echo behavior.
	AnswerQuestionFunc func(ctx context.Context, question string, passages []string) ([]ai.Answer, error)

	callCount int
}

// NewMockAnswerer creates a mock answerer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnswerer().
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// AnswerQuestion produces deterministic mock answers.
// Default behavior: the first word of each non-empty passage becomes an
// answer, with scores descending from 0.9 in steps of 0.1.
func (m *MockAnswerer) AnswerQuestion(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
	m.callCount++

	if m.AnswerQuestionFunc != nil {
		return m.AnswerQuestionFunc(ctx, question, passages)
	}

	answers := make([]ai.Answer, 0, len(passages))
	score := 0.9
	for _, passage := range passages {
		fields := strings.Fields(passage)
		if len(fields) == 0 {
			continue
		}

		answers = append(answers, ai.Answer{
			Text:  strings.ToLower(fields[0]),
			Score: score,
		})

		if score > 0.1 {
			score -= 0.1
		}
	}

	return answers, nil
}

// CallCount returns the number of times AnswerQuestion was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount = 0
	m.AnswerQuestionFunc = nil
}
