// Copyright 2025 Regsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/regsight/devaudit/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock answerer and keyword-filter instances.
type MockProvider struct {
	answerer *MockAnswerer
	filter   *MockKeywordFilter
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockAnswerer()/GetMockFilter() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		answerer: NewMockAnswerer(),
		filter:   NewMockKeywordFilter(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(answerer *MockAnswerer, filter *MockKeywordFilter) ai.AIProvider {
	return &MockProvider{
		answerer: answerer,
		filter:   filter,
	}
}

// Answerer returns the mock answerer.
func (p *MockProvider) Answerer() ai.Answerer {
	return p.answerer
}

// KeywordFilter returns the mock keyword filter.
func (p *MockProvider) KeywordFilter() ai.KeywordFilter {
	return p.filter
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockAnswerer returns the underlying mock answerer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAnswerer() *MockAnswerer {
	return p.answerer
}

// GetMockFilter returns the underlying mock keyword filter for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockFilter() *MockKeywordFilter {
	return p.filter
}
