package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.QAHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.FilterHost)
	assert.Equal(t, "qwen2.5:3b", cfg.QAModel)
	assert.Equal(t, "qwen2.5:3b", cfg.FilterModel)
	assert.Equal(t, 0.1, cfg.MinScore)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:11434/v1", cfg.QAHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.FilterHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.QAHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.FilterHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithQAHost("http://qa:8080/v1"),
			WithFilterHost("http://filter:9090/v1"),
		)

		assert.Equal(t, "http://qa:8080/v1", cfg.QAHost)
		assert.Equal(t, "http://filter:9090/v1", cfg.FilterHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithQAModel("gpt-4o-mini"),
			WithFilterModel("qwen2.5:7b"),
		)

		assert.Equal(t, "gpt-4o-mini", cfg.QAModel)
		assert.Equal(t, "qwen2.5:7b", cfg.FilterModel)
	})

	t.Run("with min score", func(t *testing.T) {
		cfg := NewConfig(WithMinScore(0.5))

		assert.Equal(t, 0.5, cfg.MinScore)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		wantHost string
	}{
		{
			name:     "adds v1 suffix",
			host:     "http://localhost:11434",
			wantHost: "http://localhost:11434/v1",
		},
		{
			name:     "strips trailing slash before adding v1",
			host:     "http://localhost:11434/",
			wantHost: "http://localhost:11434/v1",
		},
		{
			name:     "leaves v1 suffix alone",
			host:     "http://localhost:11434/v1",
			wantHost: "http://localhost:11434/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()

			assert.Equal(t, tt.wantHost, cfg.QAHost)
			assert.Equal(t, tt.wantHost, cfg.FilterHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid default config", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("normalizes before validating", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.QAHost)
	})

	t.Run("missing QA model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.QAModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing filter model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FilterModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("min score out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinScore = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty token defaults to none", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Token = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "none", cfg.Token)
	})
}
