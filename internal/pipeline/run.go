// Package pipeline runs one resume upload end to end: intake, server
// extraction, failure classification, the optional client-side fallback and
// the merge into the stored profile.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/parsing"
	"github.com/jonathan/jobmatch/internal/profile"
	"github.com/jonathan/jobmatch/internal/schemas"
	"github.com/jonathan/jobmatch/internal/types"
)

const (
	// DefaultSubmitTimeout bounds the upload call.
	DefaultSubmitTimeout = 120 * time.Second
	// DefaultModelTimeout bounds the client-side model call.
	DefaultModelTimeout = 60 * time.Second
)

// Deps are the runner's collaborators. Primary and Extractor are required;
// a nil Prober or Decider disables the fallback, a nil Store merges into an
// empty profile without saving, and a nil Recorder drops telemetry.
type Deps struct {
	Primary    PrimaryInvoker
	Prober     CapabilityProber
	Extractor  TextExtractor
	NewInvoker InvokerFactory
	Store      ProfileStore
	Decider    FallbackDecider
	Recorder   Recorder
	Logger     *slog.Logger
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Policy        intake.Policy
	SubmitTimeout time.Duration
	ModelTimeout  time.Duration
	OnProgress    ProgressCallback
}

// Result is the terminal outcome of one run.
type Result struct {
	AttemptID string
	State     State
	// Profile is the normalized parse, set once a producer succeeded.
	Profile *types.CanonicalProfile
	// Before and After are the stored profile around the merge.
	Before types.ProfileState
	After  types.ProfileState
	Err    *failure.Error
}

// Superseded reports whether a newer attempt replaced this one.
func (r Result) Superseded() bool {
	return r.State == StateSuperseded
}

// Runner executes pipeline runs. A Runner is safe for concurrent use; the
// most recently started run wins.
type Runner struct {
	deps        Deps
	opts        RunOptions
	coordinator *Coordinator
	logger      *slog.Logger
	now         func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(deps Deps, opts RunOptions) *Runner {
	if deps.NewInvoker == nil {
		deps.NewInvoker = DefaultInvokerFactory
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = DefaultSubmitTimeout
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = DefaultModelTimeout
	}
	return &Runner{
		deps:        deps,
		opts:        opts,
		coordinator: NewCoordinator(),
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Coordinator returns the runner's attempt coordinator.
func (r *Runner) Coordinator() *Coordinator {
	return r.coordinator
}

// emitProgress calls the progress callback if configured
func (r *Runner) emitProgress(a Attempt, state State, message string) {
	r.logger.Debug("pipeline state", "attempt_id", a.ID, "state", state)
	if r.opts.OnProgress != nil && r.coordinator.IsCurrent(a) {
		r.opts.OnProgress(ProgressEvent{AttemptID: a.ID, State: state, Message: message})
	}
}

// Run processes one selection. It never returns an error: every failure is
// reported in Result.Err. A run superseded by a newer Run has no effect on
// the stored profile and ends in StateSuperseded.
func (r *Runner) Run(ctx context.Context, sel intake.Selection) Result {
	a := r.coordinator.Begin(sel)
	r.emitProgress(a, StateValidating, "Validating file")

	if err := r.opts.Policy.Validate(sel); err != nil {
		fe := asFailure(err, failure.KindUnsupportedType)
		return r.finish(ctx, a, Result{State: StateRejected, Err: fe}, observability.OutcomeRejected)
	}

	r.emitProgress(a, StateSubmitting, "Uploading resume")
	submitCtx, cancel := context.WithTimeout(ctx, r.opts.SubmitTimeout)
	res, err := r.deps.Primary.SubmitResume(submitCtx, sel)
	cancel()

	if err == nil {
		parsed := parsing.Normalize(res.ParsedData, res.ParsingMethod)
		return r.merge(ctx, a, parsed)
	}

	r.emitProgress(a, StateClassifying, "Upload failed")
	var te *failure.TransportError
	if !errors.As(err, &te) {
		te = &failure.TransportError{Cause: err}
	}
	c := failure.Classify(te)
	primaryErr := c.Err(te)
	r.logger.Info("upload failed", "attempt_id", a.ID, "kind", c.Kind, "status", te.StatusCode,
		"fallback_eligible", c.FallbackEligible)

	if !c.FallbackEligible {
		return r.fail(ctx, a, primaryErr)
	}
	return r.runFallback(ctx, a, sel, c, primaryErr)
}

func (r *Runner) runFallback(ctx context.Context, a Attempt, sel intake.Selection, c failure.Classification, primaryErr *failure.Error) Result {
	if r.deps.Prober == nil || r.deps.Decider == nil {
		return r.fail(ctx, a, primaryErr)
	}

	r.emitProgress(a, StateProbing, "Checking local AI availability")
	capability := r.deps.Prober.Probe(ctx)
	if !capability.Available() {
		r.logger.Info("fallback not offered", "attempt_id", a.ID, "reason", capability.Reason)
		return r.fail(ctx, a, primaryErr)
	}
	defer func() { _ = capability.Client.Close() }()

	if !r.coordinator.IsCurrent(a) {
		return r.finish(ctx, a, Result{State: StateSuperseded}, observability.OutcomeSuperseded)
	}

	r.emitProgress(a, StateFallbackOffered, c.UserMessage)
	if !r.deps.Decider.AcceptFallback(ctx, c) {
		return r.finish(ctx, a, Result{State: StateTerminalError, Err: primaryErr}, observability.OutcomeDeclined)
	}

	r.emitProgress(a, StateExtracting, "Extracting text from PDF")
	text, err := r.deps.Extractor.ExtractText(ctx, sel.Bytes)
	if err != nil {
		return r.fail(ctx, a, failure.New(failure.KindPdfRead, err).AsFallback())
	}
	if strings.TrimSpace(text) == "" {
		return r.fail(ctx, a, failure.Newf(failure.KindPdfRead, nil,
			"No text could be extracted from the PDF.").AsFallback())
	}

	r.emitProgress(a, StateInvoking, "Parsing resume with local AI")
	modelCtx, cancel := context.WithTimeout(ctx, r.opts.ModelTimeout)
	outcome := r.deps.NewInvoker(capability.Client).Parse(modelCtx, text)
	cancel()

	if fe, failed := outcome.Failure(); failed {
		return r.fail(ctx, a, fe.AsFallback())
	}
	parsed, _ := outcome.Profile()
	parsed.ParsingMethod = types.ParsingMethodClientAI
	return r.merge(ctx, a, parsed)
}

func (r *Runner) merge(ctx context.Context, a Attempt, parsed types.CanonicalProfile) Result {
	r.emitProgress(a, StateNormalizing, "Updating profile")
	if err := schemas.ValidateProfile(parsed); err != nil {
		r.logger.Warn("normalized profile does not match schema", "attempt_id", a.ID, "error", err)
	}

	result := Result{State: StateMerged, Profile: &parsed}
	applied, err := r.coordinator.Commit(a, func() error {
		if r.deps.Store != nil {
			before, err := r.deps.Store.GetProfile(ctx)
			if err != nil {
				return err
			}
			result.Before = before
		}
		result.After = profile.Merge(result.Before, parsed)
		if r.deps.Store != nil {
			return r.deps.Store.UpdateProfile(ctx, result.After)
		}
		return nil
	})
	if !applied {
		return r.finish(ctx, a, Result{State: StateSuperseded, Profile: &parsed}, observability.OutcomeSuperseded)
	}
	if err != nil {
		fe := failure.Newf(failure.KindUnknown, err, "The resume was parsed but the profile could not be saved.")
		return r.record(ctx, a, Result{State: StateTerminalError, Profile: &parsed, Err: fe}, observability.OutcomeFailed)
	}
	r.emitProgress(a, StateMerged, observability.MethodMessage(parsed.ParsingMethod))
	return r.record(ctx, a, result, observability.OutcomeMerged)
}

func (r *Runner) fail(ctx context.Context, a Attempt, fe *failure.Error) Result {
	return r.finish(ctx, a, Result{State: StateTerminalError, Err: fe}, observability.OutcomeFailed)
}

// finish applies the staleness check before surfacing a terminal result.
func (r *Runner) finish(ctx context.Context, a Attempt, result Result, outcome observability.Outcome) Result {
	if applied, _ := r.coordinator.Commit(a, nil); !applied {
		result = Result{State: StateSuperseded, Profile: result.Profile}
		outcome = observability.OutcomeSuperseded
	}
	if result.State != StateSuperseded {
		message := ""
		if result.Err != nil {
			message = result.Err.UserMessage()
		}
		r.emitProgress(a, result.State, message)
	}
	return r.record(ctx, a, result, outcome)
}

func (r *Runner) record(ctx context.Context, a Attempt, result Result, outcome observability.Outcome) Result {
	result.AttemptID = a.ID
	if r.deps.Recorder == nil {
		return result
	}
	e := observability.Event{
		AttemptID:  a.ID,
		Outcome:    outcome,
		DurationMs: r.now().Sub(a.Started).Milliseconds(),
	}
	if result.Err != nil {
		e.Kind = result.Err.Kind
	}
	if result.Profile != nil {
		e.ParsingMethod = result.Profile.ParsingMethod
	}
	r.deps.Recorder.Record(ctx, e)
	return result
}

func asFailure(err error, fallbackKind failure.Kind) *failure.Error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return fe
	}
	return failure.New(fallbackKind, err)
}
