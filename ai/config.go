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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// QAHost is the base URL for the question-answering service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	QAHost string

	// FilterHost is the base URL for the keyword-filter service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	FilterHost string

	// QAModel is the model identifier to use for question answering.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	QAModel string

	// FilterModel is the model identifier to use for keyword distillation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	FilterModel string

	// Token is the API token, if the service requires one.
	// Local OpenAI-compatible services typically don't; "none" is sent then.
	Token string

	// MinScore is the minimum confidence score in [0,1] for QA answers.
	// Answers scoring below this threshold are filtered out.
	// Default: 0.1
	MinScore float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithQAHost sets the question-answering service host URL.
func WithQAHost(host string) ConfigOption {
	return func(c *Config) {
		c.QAHost = host
	}
}

// WithFilterHost sets the keyword-filter service host URL.
func WithFilterHost(host string) ConfigOption {
	return func(c *Config) {
		c.FilterHost = host
	}
}

// WithHost sets both QA and filter hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.QAHost = host
		c.FilterHost = host
	}
}

// WithQAModel sets the question-answering model identifier.
func WithQAModel(model string) ConfigOption {
	return func(c *Config) {
		c.QAModel = model
	}
}

// WithFilterModel sets the keyword-filter model identifier.
func WithFilterModel(model string) ConfigOption {
	return func(c *Config) {
		c.FilterModel = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithMinScore sets the minimum confidence threshold for QA answers.
func WithMinScore(min float64) ConfigOption {
	return func(c *Config) {
		c.MinScore = min
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both QA and filter use the same host and model.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		QAHost:      defaultHost,
		FilterHost:  defaultHost,
		QAModel:     "qwen2.5:3b",
		FilterModel: "qwen2.5:3b",
		Token:       "none",
		MinScore:    0.1,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithQAModel("qwen2.5:3b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.QAHost != "" && !strings.HasSuffix(c.QAHost, "/v1") {
		c.QAHost = strings.TrimSuffix(c.QAHost, "/")
		c.QAHost = c.QAHost + "/v1"
	}
	if c.FilterHost != "" && !strings.HasSuffix(c.FilterHost, "/v1") {
		c.FilterHost = strings.TrimSuffix(c.FilterHost, "/")
		c.FilterHost = c.FilterHost + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.QAHost == "" {
		return errors.New("ai config: QAHost is required")
	}
	if c.FilterHost == "" {
		return errors.New("ai config: FilterHost is required")
	}
	if c.QAModel == "" {
		return errors.New("ai config: QAModel is required")
	}
	if c.FilterModel == "" {
		return errors.New("ai config: FilterModel is required")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return errors.New("ai config: MinScore must be between 0 and 1")
	}
	return nil
}
