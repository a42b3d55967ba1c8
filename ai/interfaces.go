package ai

import "context"

// Answer is a single scored answer extracted for a question.
type Answer struct {
	// Text is the extracted answer span, cleaned of newlines.
	Text string

	// Score is the model's confidence in [0,1]. Answers are sorted by
	// score descending before aggregation.
	Score float64
}

// Answerer performs extractive question answering over document passages.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// AnswerQuestion applies the question to each passage and returns the
	// answers found, one per passage at most, unsorted.
	// Passages that yield no answer are skipped without error.
	// Returns an error only if the model itself is unreachable.
	AnswerQuestion(ctx context.Context, question string, passages []string) ([]Answer, error)
}

// KeywordFilter distills raw QA answers into standalone technique keywords.
// Implementations must be thread-safe for concurrent use.
type KeywordFilter interface {
	// FilterKeywords asks the model which of the given keywords are
	// relevant in the context of AI-enabled medical devices and returns
	// them, most relevant first.
	// Returns an empty slice if none are relevant.
	FilterKeywords(ctx context.Context, keywords []string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Answerer and KeywordFilter instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Answerer returns the question-answering service.
	// The returned Answerer is safe for concurrent use.
	Answerer() Answerer

	// KeywordFilter returns the keyword distillation service.
	// The returned KeywordFilter is safe for concurrent use.
	KeywordFilter() KeywordFilter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
