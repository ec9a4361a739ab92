package parsing

import (
	"context"
	"sync"

	"github.com/jonathan/jobmatch/internal/llm"
)

// fakeClient is an llm.Client returning canned responses per tier.
type fakeClient struct {
	mu        sync.Mutex
	responses map[llm.ModelTier]string
	errs      map[llm.ModelTier]error
	prompts   []string
	tiers     []llm.ModelTier
}

func (f *fakeClient) record(prompt string, tier llm.ModelTier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.record(prompt, tier)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := f.errs[tier]; err != nil {
		return "", err
	}
	return f.responses[tier], nil
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	resp, err := f.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(resp), nil
}

func (f *fakeClient) Ping(context.Context, llm.ModelTier) error { return nil }

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (f *fakeClient) Close() error { return nil }
