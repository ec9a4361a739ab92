package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.InDelta(t, 0.1, config.Temperature, 0.0001)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel(TierStandard))
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel(TierStandard, "gemini-custom")

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-custom", custom.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", custom.GetModel(TierLite))
	assert.Equal(t, config.Temperature, custom.Temperature)
}

func TestChain(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		from   ModelTier
		want   []ModelTier
	}{
		{
			name:   "default from standard",
			config: DefaultConfig(),
			from:   TierStandard,
			want:   []ModelTier{TierStandard, TierLite},
		},
		{
			name:   "default from lite",
			config: DefaultConfig(),
			from:   TierLite,
			want:   []ModelTier{TierLite},
		},
		{
			name:   "same model on both tiers",
			config: &Config{Models: map[ModelTier]string{TierStandard: "m", TierLite: "m"}},
			from:   TierStandard,
			want:   []ModelTier{TierStandard},
		},
		{
			name:   "nothing configured",
			config: &Config{},
			from:   TierStandard,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.Chain(tt.from))
		})
	}
}
