// Package parsing turns resume text into a CanonicalProfile, either through a
// generative model or through keyword heuristics, and normalizes whatever the
// producers return.
package parsing

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/types"
)

// ClientPromptChars is the prefix of the extracted text sent to the model by
// the client. Anything after it is dropped.
const ClientPromptChars = 5000

// ResumeParser invokes the model directly on locally extracted text.
type ResumeParser struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewResumeParser returns a ResumeParser that uses the standard tier.
func NewResumeParser(client llm.Client) *ResumeParser {
	return &ResumeParser{client: client, tier: llm.TierStandard}
}

// BuildClientPrompt builds the JSON-only prompt for the truncated text.
func BuildClientPrompt(text string) string {
	schema := llm.ExtractionSchema{
		Name:        "ResumeProfile",
		Description: prompts.MustGet("resume.json", "client-profile-preamble"),
		Fields:      llm.ResumeProfileFields(),
	}
	return llm.BuildExtractionPrompt(schema, pdftext.Truncate(text, ClientPromptChars))
}

// Parse asks the model for a profile. A call failure is ModelUnavailable;
// an answer that is not a JSON object after fence stripping is
// ModelResponseParseError.
func (p *ResumeParser) Parse(ctx context.Context, text string) Outcome {
	if p.client == nil {
		return Failed(failure.New(failure.KindSdkUnavailable, nil))
	}

	resp, err := p.client.GenerateContent(ctx, BuildClientPrompt(text), p.tier)
	if err != nil {
		cause := &APICallError{Message: "failed to generate content", Cause: err}
		if errors.Is(err, context.DeadlineExceeded) {
			return Failed(failure.Newf(failure.KindModelUnavailable, cause, "The AI model did not answer in time."))
		}
		return Failed(failure.New(failure.KindModelUnavailable, cause))
	}

	raw, err := decodeObject(resp)
	if err != nil {
		return Failed(failure.New(failure.KindModelResponseParse, err))
	}

	raw["parsing_method"] = string(types.ParsingMethodClientAI)
	return Succeeded(Normalize(raw, types.ParsingMethodClientAI))
}

// decodeObject strips code fences and prose, then decodes one JSON object.
func decodeObject(resp string) (map[string]any, error) {
	cleaned := llm.CleanJSONBlock(resp)
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Message: "model response is not a JSON object", Cause: err}
	}
	if raw == nil {
		return nil, &ParseError{Message: "model returned null"}
	}
	return raw, nil
}
