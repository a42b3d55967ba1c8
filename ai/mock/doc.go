// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Answerer, ai.KeywordFilter,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	answers, err := mockProvider.Answerer().AnswerQuestion(ctx, question, passages)
//
//	// Custom behavior injection
//	mockAnswerer := mock.NewMockAnswerer()
//	mockAnswerer.AnswerQuestionFunc = func(ctx context.Context, q string, ps []string) ([]ai.Answer, error) {
//	    return []ai.Answer{{Text: "random forest", Score: 0.95}}, nil
//	}
//
//	// Check call counts
//	count := mockAnswerer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockAnswerer: Answers with the first word of each passage, descending scores
//   - MockKeywordFilter: Passes keywords through, trimming and dropping empties
//   - MockProvider: Aggregates mock answerer and filter
package mock
