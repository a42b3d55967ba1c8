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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/regsight/devaudit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Maximum length of a keyword the filter will pass through. Anything longer
// is a sentence the model failed to distill, not a keyword.
const maxKeywordLen = 60

// KeywordFilter implements ai.KeywordFilter using OpenAI-compatible chat APIs.
type KeywordFilter struct {
	client llms.Model
	logger *slog.Logger
}

// keywordResponse matches the JSON structure the model is instructed to emit.
type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// newKeywordFilter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newKeywordFilter(config *ai.Config) (*KeywordFilter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.FilterHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.FilterModel),
	)
	if err != nil {
		return nil, err
	}

	return &KeywordFilter{
		client: client,
		logger: slog.Default().With("component", "openai-filter"),
	}, nil
}

// NewKeywordFilter creates a new keyword distillation service using the provided configuration.
//
// Returns ai.KeywordFilter interface to enforce abstraction.
func NewKeywordFilter(config *ai.Config) (ai.KeywordFilter, error) {
	return newKeywordFilter(config)
}

// FilterKeywords asks the model which of the given keywords matter in the
// context of AI-enabled medical devices. The result preserves the model's
// ordering, drops empty or overlong entries, and deduplicates
// case-insensitively. An empty input returns an empty result without a call.
func (f *KeywordFilter) FilterKeywords(ctx context.Context, keywords []string) ([]string, error) {
	if len(keywords) == 0 {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(keywordFilterSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildKeywordFilterUserPrompt(keywords)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result keywordResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := f.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			f.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			f.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			f.logger.Warn("error parsing filter response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		f.logger.Error("failed to parse filter response after retries", "err", lastErr)
		return nil, lastErr
	}

	filtered := make([]string, 0, len(result.Keywords))
	seen := make(map[string]struct{}, len(result.Keywords))
	for _, kw := range result.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || len(kw) > maxKeywordLen {
			continue
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		filtered = append(filtered, kw)
	}

	f.logger.Debug("filtered keywords",
		"input", len(keywords),
		"output", len(filtered))

	return filtered, nil
}
