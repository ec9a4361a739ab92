package pipeline

import (
	"context"

	"github.com/jonathan/jobmatch/internal/apiclient"
	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/fallback"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/parsing"
	"github.com/jonathan/jobmatch/internal/types"
)

// PrimaryInvoker submits a selection to the extraction service. Errors should
// be *failure.TransportError; anything else is treated as a network failure.
type PrimaryInvoker interface {
	SubmitResume(ctx context.Context, sel intake.Selection) (*apiclient.ServerResult, error)
}

// CapabilityProber reports whether the client-side model can be used.
type CapabilityProber interface {
	Probe(ctx context.Context) fallback.Capability
}

// TextExtractor extracts page-ordered text from PDF bytes.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ModelInvoker turns extracted text into a parse outcome.
type ModelInvoker interface {
	Parse(ctx context.Context, text string) parsing.Outcome
}

// InvokerFactory builds a ModelInvoker on a probed client.
type InvokerFactory func(client llm.Client) ModelInvoker

// DefaultInvokerFactory uses parsing.ResumeParser.
func DefaultInvokerFactory(client llm.Client) ModelInvoker {
	return parsing.NewResumeParser(client)
}

// ProfileStore reads and writes the user's profile.
type ProfileStore interface {
	GetProfile(ctx context.Context) (types.ProfileState, error)
	UpdateProfile(ctx context.Context, state types.ProfileState) error
}

// FallbackDecider asks whether to retry on the client after a fallback-eligible failure.
type FallbackDecider interface {
	AcceptFallback(ctx context.Context, c failure.Classification) bool
}

// FallbackFunc adapts a function to FallbackDecider.
type FallbackFunc func(ctx context.Context, c failure.Classification) bool

func (f FallbackFunc) AcceptFallback(ctx context.Context, c failure.Classification) bool {
	return f(ctx, c)
}

// AlwaysAccept accepts every fallback offer.
var AlwaysAccept = FallbackFunc(func(context.Context, failure.Classification) bool { return true })

// NeverAccept declines every fallback offer.
var NeverAccept = FallbackFunc(func(context.Context, failure.Classification) bool { return false })

// Recorder receives terminal telemetry. *observability.Sink implements it.
type Recorder interface {
	Record(ctx context.Context, e observability.Event)
}
