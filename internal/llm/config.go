// Package llm wraps the generative model used to turn resume text into
// structured profile JSON, on both the extraction service and the client.
package llm

// ModelTier selects a model by capability.
type ModelTier string

const (
	// TierLite is the cheapest model; used as the last resort on the service.
	TierLite ModelTier = "lite"
	// TierStandard is used for resume parsing.
	TierStandard ModelTier = "standard"
)

// tierOrder lists tiers from most to least capable.
var tierOrder = []ModelTier{TierStandard, TierLite}

// Config maps tiers to concrete model names.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.1,
	}
}

// GetModel returns the model name for a tier, falling back to the next
// configured tier. Empty when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	for _, t := range tierOrder {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with model assigned to tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	cp := &Config{
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		cp.Models[k] = v
	}
	cp.Models[tier] = model
	return cp
}

// Chain returns the configured tiers starting at from, most capable first.
// Tiers that resolve to an already listed model are skipped.
func (c *Config) Chain(from ModelTier) []ModelTier {
	var out []ModelTier
	seen := make(map[string]bool)
	started := false
	for _, t := range tierOrder {
		if t == from {
			started = true
		}
		if !started {
			continue
		}
		model, ok := c.Models[t]
		if !ok || model == "" || seen[model] {
			continue
		}
		seen[model] = true
		out = append(out, t)
	}
	return out
}
