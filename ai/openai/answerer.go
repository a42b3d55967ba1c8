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
	"slices"
	"strings"

	"github.com/regsight/devaudit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
// Each passage is answered independently so that one malformed response
// doesn't sink the whole question.
type Answerer struct {
	client   llms.Model
	minScore float64
	logger   *slog.Logger
}

// qaResponse matches the JSON structure the model is instructed to emit.
type qaResponse struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.QAHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.QAModel),
	)
	if err != nil {
		return nil, err
	}

	return &Answerer{
		client:   client,
		minScore: config.MinScore,
		logger:   slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new question-answering service using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// AnswerQuestion applies a question to each passage and collects the answers.
// Answers scoring below the configured minimum are dropped, and the result is
// sorted by confidence (descending). Passages where the model finds nothing
// yield no answer rather than an error.
func (a *Answerer) AnswerQuestion(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
	systemPrompt := buildQASystemPrompt()

	answers := make([]ai.Answer, 0, len(passages))
	for _, passage := range passages {
		passage = strings.TrimSpace(passage)
		if passage == "" {
			continue
		}

		resp, err := a.answerPassage(ctx, systemPrompt, question, passage)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			continue
		}

		text := cleanAnswerText(resp.Answer)
		if text == "" || resp.Confidence < a.minScore {
			continue
		}
		answers = append(answers, ai.Answer{
			Text:  text,
			Score: resp.Confidence,
		})
	}

	// Sort by confidence (descending), stable so equal scores keep passage order
	slices.SortStableFunc(answers, func(x, y ai.Answer) int {
		if x.Score == y.Score {
			return 0
		}
		if x.Score < y.Score {
			return 1
		}
		return -1
	})

	a.logger.Debug("answered question",
		"passages", len(passages),
		"answers", len(answers))

	return answers, nil
}

// answerPassage runs a single QA exchange. A nil response with nil error
// means the model produced nothing usable for this passage.
func (a *Answerer) answerPassage(ctx context.Context, systemPrompt, question, passage string) (*qaResponse, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildQAUserPrompt(question, passage)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result qaResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return nil, nil
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing answer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		// A passage the model can't answer in valid JSON is skipped, not fatal
		a.logger.Error("failed to parse answer response after retries", "err", lastErr)
		return nil, nil
	}

	return &result, nil
}

// cleanAnswerText flattens the answer to a single trimmed line.
// PDF-derived passages often carry stray line breaks into the answer.
func cleanAnswerText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// stripCodeFences removes markdown code fences some models wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
