package mock

import (
	"context"
	"strings"
)

// MockKeywordFilter is a test double for ai.KeywordFilter.
// It allows custom behavior injection via function fields.
type MockKeywordFilter struct {
	// FilterKeywordsFunc is called by FilterKeywords if set.
	// If nil, uses default pass-through behavior.
	FilterKeywordsFunc func(ctx context.Context, keywords []string) ([]string, error)

	callCount int
}

// NewMockKeywordFilter creates a mock keyword filter with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockFilter().
func NewMockKeywordFilter() *MockKeywordFilter {
	return &MockKeywordFilter{}
}

// FilterKeywords returns the input keywords unchanged except for trimming
// and dropping empties, so pipeline tests see predictable output.
func (m *MockKeywordFilter) FilterKeywords(ctx context.Context, keywords []string) ([]string, error) {
	m.callCount++

	if m.FilterKeywordsFunc != nil {
		return m.FilterKeywordsFunc(ctx, keywords)
	}

	filtered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		filtered = append(filtered, kw)
	}

	return filtered, nil
}

// CallCount returns the number of times FilterKeywords was called.
func (m *MockKeywordFilter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockKeywordFilter) Reset() {
	m.callCount = 0
	m.FilterKeywordsFunc = nil
}
