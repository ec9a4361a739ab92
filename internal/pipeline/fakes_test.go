package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/jonathan/jobmatch/internal/apiclient"
	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/fallback"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pdfSelection(name string, size int64) intake.Selection {
	return intake.Selection{Bytes: []byte("%PDF-1.4"), MIMEType: intake.PDFMIMEType, Size: size, FileName: name}
}

// fakePrimary answers per file name.
type fakePrimary struct {
	mu      sync.Mutex
	calls   int
	handler func(ctx context.Context, sel intake.Selection) (*apiclient.ServerResult, error)
}

func (f *fakePrimary) SubmitResume(ctx context.Context, sel intake.Selection) (*apiclient.ServerResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.handler(ctx, sel)
}

func (f *fakePrimary) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func succeedWith(data map[string]any, method types.ParsingMethod) *fakePrimary {
	return &fakePrimary{handler: func(context.Context, intake.Selection) (*apiclient.ServerResult, error) {
		return &apiclient.ServerResult{ParsedData: data, ParsingMethod: method}, nil
	}}
}

func failWithStatus(status int, detail string) *fakePrimary {
	return &fakePrimary{handler: func(context.Context, intake.Selection) (*apiclient.ServerResult, error) {
		return nil, &failure.TransportError{StatusCode: status, Detail: detail}
	}}
}

type fakeProber struct {
	capability fallback.Capability
	calls      int
}

func (f *fakeProber) Probe(context.Context) fallback.Capability {
	f.calls++
	return f.capability
}

func readyProber(client llm.Client) *fakeProber {
	return &fakeProber{capability: fallback.Capability{SDKPresent: true, ModelReady: true, Client: client}}
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

// modelClient is an llm.Client with a fixed answer.
type modelClient struct {
	response string
	err      error
	block    bool
	closed   bool
}

func (m *modelClient) GenerateContent(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *modelClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateContent(ctx, prompt, tier)
}

func (m *modelClient) Ping(context.Context, llm.ModelTier) error { return nil }

func (m *modelClient) GetModel(llm.ModelTier) string { return "fake" }

func (m *modelClient) Close() error {
	m.closed = true
	return nil
}

type memStore struct {
	mu      sync.Mutex
	state   types.ProfileState
	updates int
	getErr  error
	putErr  error
}

func (s *memStore) GetProfile(context.Context) (types.ProfileState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.getErr
}

func (s *memStore) UpdateProfile(_ context.Context, state types.ProfileState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.updates++
	s.state = state
	return nil
}

type decider struct {
	accept bool
	asked  int
}

func (d *decider) AcceptFallback(context.Context, failure.Classification) bool {
	d.asked++
	return d.accept
}

type memRecorder struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *memRecorder) Record(_ context.Context, e observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *memRecorder) snapshot() []observability.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observability.Event(nil), r.events...)
}

var errBoom = errors.New("boom")
