package parsing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/types"
)

// ServerPromptChars is the prefix of the resume text the service sends to the model.
const ServerPromptChars = 4000

// ServerResult is the service's parse of one resume. Raw is the producer's
// output as-is; Profile is its normalized form.
type ServerResult struct {
	Raw     map[string]any
	Profile types.CanonicalProfile
	Method  types.ParsingMethod
}

// ServerParser is the extraction service's parser. With no model client it
// uses keyword heuristics only. When every model tier fails it falls back to
// the heuristics, unless Strict is set, in which case it returns *ModelError.
type ServerParser struct {
	client llm.Client
	tiers  []llm.ModelTier
	strict bool
	logger *slog.Logger
	now    func() time.Time
}

// NewServerParser creates a ServerParser that tries tiers in order. client
// may be nil; an empty tiers list means the standard tier only.
func NewServerParser(client llm.Client, tiers []llm.ModelTier, strict bool, logger *slog.Logger) *ServerParser {
	if logger == nil {
		logger = slog.Default()
	}
	if len(tiers) == 0 {
		tiers = []llm.ModelTier{llm.TierStandard}
	}
	return &ServerParser{client: client, tiers: tiers, strict: strict, logger: logger, now: time.Now}
}

// BuildServerPrompt builds the extended-schema prompt for the truncated text.
func BuildServerPrompt(text string) string {
	schema := llm.ExtractionSchema{
		Name:        "ResumeProfileExtended",
		Description: prompts.MustGet("resume.json", "server-profile-preamble"),
		Fields:      llm.ExtendedResumeProfileFields(),
	}
	return llm.BuildExtractionPrompt(schema, pdftext.Truncate(text, ServerPromptChars))
}

// Parse extracts a profile from cleaned resume text.
func (p *ServerParser) Parse(ctx context.Context, text string) (*ServerResult, error) {
	text = pdftext.Truncate(text, ServerPromptChars)

	if p.client == nil {
		return p.keywordResult(text, types.ParsingMethodServerManual), nil
	}

	raw, err := p.parseWithModel(ctx, text)
	if err == nil {
		raw["parsing_method"] = string(types.ParsingMethodServerAI)
		return &ServerResult{
			Raw:     raw,
			Profile: Normalize(raw, types.ParsingMethodServerAI),
			Method:  types.ParsingMethodServerAI,
		}, nil
	}

	if p.strict {
		return nil, &ModelError{Unavailable: llm.IsUnavailable(err), Cause: err}
	}
	p.logger.Warn("resume model failed, using keyword extraction", "error", err)
	return p.keywordResult(text, types.ParsingMethodServerFallback), nil
}

// parseWithModel tries each model tier in turn and returns the first JSON object.
func (p *ServerParser) parseWithModel(ctx context.Context, text string) (map[string]any, error) {
	prompt := BuildServerPrompt(text)

	var errs []error
	for _, tier := range p.tiers {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		resp, err := p.client.GenerateJSON(ctx, prompt, tier)
		if err != nil {
			p.logger.Debug("resume model attempt failed", "model", p.client.GetModel(tier), "error", err)
			errs = append(errs, &APICallError{Message: "failed to generate content", Cause: err})
			continue
		}
		raw, err := decodeObject(resp)
		if err != nil {
			p.logger.Debug("resume model returned invalid JSON", "model", p.client.GetModel(tier), "error", err)
			errs = append(errs, err)
			continue
		}
		return raw, nil
	}
	if len(errs) == 0 {
		return nil, &APICallError{Message: "no model configured"}
	}
	return nil, errors.Join(errs...)
}

func (p *ServerParser) keywordResult(text string, method types.ParsingMethod) *ServerResult {
	raw := KeywordProfile(text, p.now())
	raw["parsing_method"] = string(method)
	return &ServerResult{
		Raw:     raw,
		Profile: Normalize(raw, method),
		Method:  method,
	}
}
