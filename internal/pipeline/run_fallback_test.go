package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/fallback"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/types"
)

// sessionClient is a model client that stops working once closed. Ping
// blocks until ready is closed.
type sessionClient struct {
	ready  <-chan struct{}
	closed atomic.Bool
}

func (c *sessionClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	if c.closed.Load() {
		return "", errors.New("client closed")
	}
	return `{"skills":["Go"]}`, nil
}

func (c *sessionClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.GenerateContent(ctx, prompt, tier)
}

func (c *sessionClient) Ping(ctx context.Context, _ llm.ModelTier) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *sessionClient) GetModel(llm.ModelTier) string { return "session" }

func (c *sessionClient) Close() error {
	c.closed.Store(true)
	return nil
}

func TestRun_SupersededFallbackLeavesCurrentModelUsable(t *testing.T) {
	ready := make(chan struct{})
	prober := fallback.NewProber(func(context.Context) (llm.Client, error) {
		return &sessionClient{ready: ready}, nil
	}, quietLogger())

	firstDone := make(chan struct{})
	probing := make(chan string, 2)
	store := &memStore{}

	runner := NewRunner(Deps{
		Primary:   failWithStatus(http.StatusServiceUnavailable, "model overloaded"),
		Prober:    prober,
		Extractor: &fakeExtractor{text: "Jane Doe\nGo engineer"},
		Store:     store,
		Decider: FallbackFunc(func(context.Context, failure.Classification) bool {
			<-firstDone
			return true
		}),
		Logger: quietLogger(),
	}, RunOptions{
		OnProgress: func(e ProgressEvent) {
			if e.State == StateProbing {
				probing <- e.AttemptID
			}
		},
	})

	var first, second Result
	go func() {
		defer close(firstDone)
		first = runner.Run(context.Background(), pdfSelection("old.pdf", 1024))
	}()
	<-probing

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		second = runner.Run(context.Background(), pdfSelection("new.pdf", 1024))
	}()
	<-probing

	// Let the second attempt join the in-flight readiness check.
	time.Sleep(20 * time.Millisecond)
	close(ready)

	select {
	case <-secondDone:
	case <-time.After(5 * time.Second):
		t.Fatal("second run did not finish")
	}
	<-firstDone

	assert.Equal(t, StateSuperseded, first.State)
	require.Nil(t, second.Err)
	assert.Equal(t, StateMerged, second.State)
	assert.Equal(t, []string{"Go"}, store.state.Skills)
	assert.Equal(t, types.ParsingMethodClientAI, store.state.ResumeParsingMethod)
}
