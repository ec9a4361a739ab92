package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/intake"
)

// Attempt identifies one pipeline run.
type Attempt struct {
	ID       string
	Started  time.Time
	FileName string
	Size     int64
}

// Coordinator tracks the current attempt. Beginning a new attempt
// invalidates the previous one; a stale attempt can no longer commit.
type Coordinator struct {
	mu      sync.Mutex
	current string
	now     func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{now: time.Now}
}

// Begin starts a new attempt for sel and makes it current.
func (c *Coordinator) Begin(sel intake.Selection) Attempt {
	a := Attempt{
		ID:       uuid.NewString(),
		Started:  c.now(),
		FileName: sel.FileName,
		Size:     sel.Size,
	}
	c.mu.Lock()
	c.current = a.ID
	c.mu.Unlock()
	return a
}

// IsCurrent reports whether a is still the current attempt.
func (c *Coordinator) IsCurrent(a Attempt) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == a.ID
}

// Commit runs fn while holding the coordinator lock, but only if a is still
// current. It reports whether fn ran. Begin blocks until fn returns, so no
// attempt can start and finish its effects in between.
func (c *Coordinator) Commit(a Attempt, fn func() error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != a.ID {
		return false, nil
	}
	if fn == nil {
		return true, nil
	}
	return true, fn()
}
