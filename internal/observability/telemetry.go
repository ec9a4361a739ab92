package observability

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/types"
)

// Outcome is the terminal state of an attempt.
type Outcome string

const (
	OutcomeMerged     Outcome = "merged"
	OutcomeRejected   Outcome = "rejected"
	OutcomeFailed     Outcome = "failed"
	OutcomeDeclined   Outcome = "declined"
	OutcomeSuperseded Outcome = "superseded"
)

// Event is one terminal-state record.
type Event struct {
	AttemptID     string
	Outcome       Outcome
	Kind          failure.Kind
	ParsingMethod types.ParsingMethod
	DurationMs    int64
	Timestamp     time.Time
}

// Store persists batches of events.
type Store interface {
	Write(ctx context.Context, events []Event) error
	Close() error
}

const (
	sinkBuffer    = 256
	sinkBatchSize = 32
	flushInterval = time.Second
)

// Guard marks contexts that are already inside a store write, so that a store
// which itself records telemetry cannot recurse into the sink.
type Guard struct {
	suppressed atomic.Int64
}

type guardKey struct{ g *Guard }

// Enter returns ctx marked as inside g.
func (g *Guard) Enter(ctx context.Context) context.Context {
	return context.WithValue(ctx, guardKey{g}, true)
}

// Active reports whether ctx is inside g.
func (g *Guard) Active(ctx context.Context) bool {
	active, _ := ctx.Value(guardKey{g}).(bool)
	return active
}

// Suppressed returns the number of re-entrant events dropped so far.
func (g *Guard) Suppressed() int64 {
	return g.suppressed.Load()
}

// Sink delivers events to its stores in the background. Record never blocks;
// events are dropped when the buffer is full, and store errors are logged
// and swallowed.
type Sink struct {
	stores  []Store
	guard   *Guard
	logger  *slog.Logger
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewSink starts a Sink writing to stores.
func NewSink(logger *slog.Logger, stores ...Store) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sink{
		stores: stores,
		guard:  &Guard{},
		logger: logger,
		ch:     make(chan Event, sinkBuffer),
		done:   make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Guard returns the sink's re-entrancy guard.
func (s *Sink) Guard() *Guard {
	return s.guard
}

// Record queues e. A nil Sink ignores the call.
func (s *Sink) Record(ctx context.Context, e Event) {
	if s == nil {
		return
	}
	if s.guard.Active(ctx) {
		s.guard.suppressed.Add(1)
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.ch <- e:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to a full buffer or a closed sink.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Close flushes queued events and closes the stores.
func (s *Sink) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		<-s.done
		for _, st := range s.stores {
			if err := st.Close(); err != nil {
				s.logger.Warn("telemetry store close failed", "error", err)
			}
		}
	})
	return nil
}

func (s *Sink) flushLoop() {
	defer close(s.done)

	batch := make([]Event, 0, sinkBatchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= sinkBatchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Sink) flush(batch []Event) {
	if len(batch) == 0 {
		return
	}
	ctx := s.guard.Enter(context.Background())
	for _, st := range s.stores {
		s.write(ctx, st, batch)
	}
}

func (s *Sink) write(ctx context.Context, st Store, batch []Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("telemetry store panicked", "panic", r)
		}
	}()
	if err := st.Write(ctx, batch); err != nil {
		s.logger.Warn("telemetry write failed", "events", len(batch), "error", err)
	}
}

// SlogStore writes events to a logger.
type SlogStore struct {
	logger *slog.Logger
}

// NewSlogStore creates a SlogStore.
func NewSlogStore(logger *slog.Logger) *SlogStore {
	return &SlogStore{logger: logger}
}

func (s *SlogStore) Write(ctx context.Context, events []Event) error {
	for _, e := range events {
		attrs := []slog.Attr{
			slog.String("attempt_id", e.AttemptID),
			slog.String("outcome", string(e.Outcome)),
			slog.Int64("duration_ms", e.DurationMs),
		}
		if e.Kind != "" {
			attrs = append(attrs, slog.String("kind", string(e.Kind)))
		}
		if e.ParsingMethod != "" {
			attrs = append(attrs, slog.String("parsing_method", string(e.ParsingMethod)))
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "attempt finished", attrs...)
	}
	return nil
}

func (s *SlogStore) Close() error { return nil }
