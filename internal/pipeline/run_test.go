package pipeline

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/jobmatch/internal/apiclient"
	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	primary   *fakePrimary
	prober    *fakeProber
	extractor *fakeExtractor
	store     *memStore
	decider   *decider
	recorder  *memRecorder
	states    []State
	mu        sync.Mutex
}

func newHarness(primary *fakePrimary) *harness {
	return &harness{
		primary:   primary,
		prober:    &fakeProber{},
		extractor: &fakeExtractor{text: "Jane Doe\nGo engineer"},
		store:     &memStore{},
		decider:   &decider{accept: true},
		recorder:  &memRecorder{},
	}
}

func (h *harness) runner(opts RunOptions) *Runner {
	opts.OnProgress = func(e ProgressEvent) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.states = append(h.states, e.State)
	}
	if opts.Policy.MaxBytes == 0 {
		opts.Policy = intake.DefaultPolicy()
	}
	return NewRunner(Deps{
		Primary:   h.primary,
		Prober:    h.prober,
		Extractor: h.extractor,
		Store:     h.store,
		Decider:   h.decider,
		Recorder:  h.recorder,
		Logger:    quietLogger(),
	}, opts)
}

func TestRun_RejectsBeforeAnyNetworkCall(t *testing.T) {
	tests := []struct {
		name string
		sel  intake.Selection
		kind failure.Kind
	}{
		{
			name: "not a pdf",
			sel:  intake.Selection{Bytes: []byte("hello"), MIMEType: "text/plain; charset=utf-8", Size: 5, FileName: "cv.txt"},
			kind: failure.KindUnsupportedType,
		},
		{
			name: "six megabyte pdf",
			sel:  pdfSelection("big.pdf", 6*1024*1024),
			kind: failure.KindTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(succeedWith(map[string]any{}, types.ParsingMethodServerAI))

			res := h.runner(RunOptions{}).Run(context.Background(), tt.sel)

			assert.Equal(t, StateRejected, res.State)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Equal(t, 0, h.primary.callCount())
			assert.Equal(t, 0, h.store.updates)

			events := h.recorder.snapshot()
			require.Len(t, events, 1)
			assert.Equal(t, observability.OutcomeRejected, events[0].Outcome)
			assert.Equal(t, tt.kind, events[0].Kind)
		})
	}
}

func TestRun_ServerSuccessMerges(t *testing.T) {
	h := newHarness(succeedWith(map[string]any{"skills": "Python", "experience_years": 4.0}, types.ParsingMethodServerAI))
	h.store.state = types.ProfileState{Skills: []string{"Go"}, Phone: "555"}

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 1024))

	require.Nil(t, res.Err)
	assert.Equal(t, StateMerged, res.State)
	require.NotNil(t, res.Profile)
	assert.Equal(t, []string{"Python"}, res.Profile.Skills)
	assert.Equal(t, types.ParsingMethodServerAI, res.Profile.ParsingMethod)

	assert.Equal(t, []string{"Go", "Python"}, h.store.state.Skills)
	assert.Equal(t, "555", h.store.state.Phone)
	assert.Equal(t, 4, h.store.state.Experience)
	assert.Equal(t, types.ParsingMethodServerAI, h.store.state.ResumeParsingMethod)
	assert.Equal(t, []string{"Go"}, res.Before.Skills)

	assert.Equal(t, 0, h.prober.calls)
	assert.Equal(t, []State{StateValidating, StateSubmitting, StateNormalizing, StateMerged}, h.states)

	events := h.recorder.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, observability.OutcomeMerged, events[0].Outcome)
	assert.Equal(t, types.ParsingMethodServerAI, events[0].ParsingMethod)
	assert.Equal(t, res.AttemptID, events[0].AttemptID)
}

func TestRun_NonEligibleFailuresAreTerminal(t *testing.T) {
	tests := []struct {
		status int
		kind   failure.Kind
	}{
		{http.StatusUnprocessableEntity, failure.KindValidation},
		{http.StatusRequestEntityTooLarge, failure.KindPayloadTooLarge},
		{http.StatusUnsupportedMediaType, failure.KindUnsupportedMediaType},
		{http.StatusBadGateway, failure.KindUnknown},
		{0, failure.KindNetwork},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			h := newHarness(failWithStatus(tt.status, ""))
			h.prober = readyProber(&modelClient{response: `{"skills":["Go"]}`})

			res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

			assert.Equal(t, StateTerminalError, res.State)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.False(t, res.Err.Fallback)
			assert.Equal(t, 0, h.prober.calls)
			assert.Equal(t, 0, h.decider.asked)
			assert.Equal(t, 0, h.store.updates)
		})
	}
}

func TestRun_ServerDetailBecomesMessage(t *testing.T) {
	h := newHarness(failWithStatus(http.StatusUnprocessableEntity, "Could not extract text from PDF"))

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	require.NotNil(t, res.Err)
	assert.Equal(t, "Could not extract text from PDF", res.Err.UserMessage())
	assert.Equal(t, http.StatusUnprocessableEntity, res.Err.Status)
}

func TestRun_ProbeNegativeDoesNotOfferFallback(t *testing.T) {
	h := newHarness(failWithStatus(http.StatusServiceUnavailable, ""))
	h.prober = &fakeProber{} // sdkPresent=false

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	assert.Equal(t, StateTerminalError, res.State)
	require.NotNil(t, res.Err)
	assert.Equal(t, failure.KindModelUnavailable, res.Err.Kind)
	assert.False(t, res.Err.Fallback)
	assert.Equal(t, 1, h.prober.calls)
	assert.Equal(t, 0, h.decider.asked)
	assert.Equal(t, 0, h.extractor.calls)
	assert.NotContains(t, h.states, StateFallbackOffered)
}

func TestRun_FallbackSucceeds(t *testing.T) {
	client := &modelClient{response: "```json\n{\"skills\":[\"Go\",\"Rust\"],\"experience_years\":3}\n```"}
	h := newHarness(failWithStatus(http.StatusInternalServerError, "boom"))
	h.prober = readyProber(client)
	h.store.state = types.ProfileState{Skills: []string{"go"}}

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	require.Nil(t, res.Err)
	assert.Equal(t, StateMerged, res.State)
	assert.Equal(t, types.ParsingMethodClientAI, res.Profile.ParsingMethod)
	assert.Equal(t, []string{"go", "Rust"}, h.store.state.Skills)
	assert.Equal(t, types.ParsingMethodClientAI, h.store.state.ResumeParsingMethod)
	assert.Equal(t, 1, h.decider.asked)
	assert.True(t, client.closed)
	assert.Equal(t, []State{
		StateValidating, StateSubmitting, StateClassifying, StateProbing,
		StateFallbackOffered, StateExtracting, StateInvoking, StateNormalizing, StateMerged,
	}, h.states)

	events := h.recorder.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, types.ParsingMethodClientAI, events[0].ParsingMethod)
}

func TestRun_UserDeclinesFallback(t *testing.T) {
	client := &modelClient{response: `{}`}
	h := newHarness(failWithStatus(http.StatusServiceUnavailable, ""))
	h.prober = readyProber(client)
	h.decider.accept = false

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	assert.Equal(t, StateTerminalError, res.State)
	assert.Equal(t, failure.KindModelUnavailable, res.Err.Kind)
	assert.Equal(t, 0, h.extractor.calls)
	assert.True(t, client.closed)
	events := h.recorder.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, observability.OutcomeDeclined, events[0].Outcome)
}

func TestRun_FallbackFailuresAreFramed(t *testing.T) {
	tests := []struct {
		name      string
		extractor *fakeExtractor
		client    *modelClient
		kind      failure.Kind
	}{
		{
			name:      "pdf read error",
			extractor: &fakeExtractor{err: errBoom},
			client:    &modelClient{response: `{}`},
			kind:      failure.KindPdfRead,
		},
		{
			name:      "no text",
			extractor: &fakeExtractor{text: "  \n "},
			client:    &modelClient{response: `{}`},
			kind:      failure.KindPdfRead,
		},
		{
			name:      "prose answer",
			extractor: &fakeExtractor{text: "resume"},
			client:    &modelClient{response: "I cannot help with that."},
			kind:      failure.KindModelResponseParse,
		},
		{
			name:      "model error",
			extractor: &fakeExtractor{text: "resume"},
			client:    &modelClient{err: errBoom},
			kind:      failure.KindModelUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(failWithStatus(http.StatusServiceUnavailable, ""))
			h.prober = readyProber(tt.client)
			h.extractor = tt.extractor

			res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

			assert.Equal(t, StateTerminalError, res.State)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.True(t, res.Err.Fallback)
			assert.True(t, strings.HasPrefix(res.Err.UserMessage(), "Fallback also failed: "))
			assert.Equal(t, 0, h.store.updates)
		})
	}
}

func TestRun_SubmitTimeoutIsNetworkError(t *testing.T) {
	primary := &fakePrimary{handler: func(ctx context.Context, _ intake.Selection) (*apiclient.ServerResult, error) {
		<-ctx.Done()
		return nil, &failure.TransportError{Cause: ctx.Err()}
	}}
	h := newHarness(primary)

	res := h.runner(RunOptions{SubmitTimeout: 20 * time.Millisecond}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	require.NotNil(t, res.Err)
	assert.Equal(t, failure.KindNetwork, res.Err.Kind)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestRun_ModelTimeoutIsModelUnavailable(t *testing.T) {
	h := newHarness(failWithStatus(http.StatusServiceUnavailable, ""))
	h.prober = readyProber(&modelClient{block: true})

	res := h.runner(RunOptions{ModelTimeout: 20 * time.Millisecond}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	require.NotNil(t, res.Err)
	assert.Equal(t, failure.KindModelUnavailable, res.Err.Kind)
	assert.True(t, res.Err.Fallback)
}

func TestRun_UntypedPrimaryErrorIsNetwork(t *testing.T) {
	h := newHarness(&fakePrimary{handler: func(context.Context, intake.Selection) (*apiclient.ServerResult, error) {
		return nil, errBoom
	}})

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	assert.Equal(t, failure.KindNetwork, res.Err.Kind)
}

func TestRun_StoreFailure(t *testing.T) {
	h := newHarness(succeedWith(map[string]any{"skills": []any{"Go"}}, types.ParsingMethodServerAI))
	h.store.putErr = errBoom

	res := h.runner(RunOptions{}).Run(context.Background(), pdfSelection("cv.pdf", 10))

	assert.Equal(t, StateTerminalError, res.State)
	assert.Equal(t, failure.KindUnknown, res.Err.Kind)
	require.NotNil(t, res.Profile)
	assert.ErrorIs(t, res.Err, errBoom)
}

func TestRun_NilStoreMergesIntoEmptyProfile(t *testing.T) {
	h := newHarness(succeedWith(map[string]any{"skills": []any{"Go"}}, types.ParsingMethodServerFallback))
	runner := NewRunner(Deps{Primary: h.primary, Extractor: h.extractor, Logger: quietLogger()},
		RunOptions{Policy: intake.DefaultPolicy()})

	res := runner.Run(context.Background(), pdfSelection("cv.pdf", 10))

	assert.Equal(t, StateMerged, res.State)
	assert.Equal(t, []string{"Go"}, res.After.Skills)
}

func TestRun_LastSelectionWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	primary := &fakePrimary{handler: func(_ context.Context, sel intake.Selection) (*apiclient.ServerResult, error) {
		if sel.FileName == "first.pdf" {
			close(started)
			<-release
			return &apiclient.ServerResult{ParsedData: map[string]any{"skills": []any{"Old"}}, ParsingMethod: types.ParsingMethodServerAI}, nil
		}
		return &apiclient.ServerResult{ParsedData: map[string]any{"skills": []any{"New"}}, ParsingMethod: types.ParsingMethodServerAI}, nil
	}}
	h := newHarness(primary)
	runner := h.runner(RunOptions{})

	firstDone := make(chan Result, 1)
	go func() {
		firstDone <- runner.Run(context.Background(), pdfSelection("first.pdf", 10))
	}()
	<-started

	second := runner.Run(context.Background(), pdfSelection("second.pdf", 10))
	close(release)
	first := <-firstDone

	assert.Equal(t, StateMerged, second.State)
	assert.True(t, first.Superseded())
	assert.Nil(t, first.Err)
	assert.Equal(t, 1, h.store.updates)
	assert.Equal(t, []string{"New"}, h.store.state.Skills)

	var outcomes []observability.Outcome
	for _, e := range h.recorder.snapshot() {
		outcomes = append(outcomes, e.Outcome)
	}
	assert.ElementsMatch(t, []observability.Outcome{observability.OutcomeMerged, observability.OutcomeSuperseded}, outcomes)
}

func TestRun_SupersededFailureIsNotSurfaced(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	primary := &fakePrimary{handler: func(_ context.Context, sel intake.Selection) (*apiclient.ServerResult, error) {
		if sel.FileName == "first.pdf" {
			close(started)
			<-release
			return nil, &failure.TransportError{StatusCode: http.StatusUnprocessableEntity}
		}
		return &apiclient.ServerResult{ParsedData: map[string]any{}, ParsingMethod: types.ParsingMethodServerManual}, nil
	}}
	h := newHarness(primary)
	runner := h.runner(RunOptions{})

	firstDone := make(chan Result, 1)
	go func() {
		firstDone <- runner.Run(context.Background(), pdfSelection("first.pdf", 10))
	}()
	<-started
	runner.Run(context.Background(), pdfSelection("second.pdf", 10))
	close(release)
	first := <-firstDone

	assert.True(t, first.Superseded())
	assert.Nil(t, first.Err)
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.NotContains(t, h.states, StateTerminalError)
}
