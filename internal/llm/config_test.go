package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.InDelta(t, 0.1, config.Temperature, 1e-6)
	assert.NoError(t, config.Validate())
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		task Task
		want ModelTier
	}{
		{TaskKeywords, TierLite},
		{TaskResources, TierLite},
		{TaskRewrite, TierAdvanced},
		{Task("other"), TierStandard},
	}
	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.task))
		})
	}
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "fallback-model", TierAdvanced: ""},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "fallback-model", config.GetModel(TierAdvanced))
	assert.Equal(t, "", (&Config{}).GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", custom.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", custom.GetModel(TierLite))
	assert.Equal(t, config.Temperature, custom.Temperature)

	same := config.WithModel(TierLite, "")
	assert.Equal(t, "gemini-2.5-flash-lite", same.GetModel(TierLite))
}

func TestWithOverrides(t *testing.T) {
	config, err := DefaultConfig().WithOverrides(map[string]string{"lite": "tiny", "advanced": "huge"})
	require.NoError(t, err)
	assert.Equal(t, "tiny", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "huge", config.GetModel(TierAdvanced))

	_, err = DefaultConfig().WithOverrides(map[string]string{"turbo": "x"})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }, true},
		{"no models", func(c *Config) { c.Models = nil }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
