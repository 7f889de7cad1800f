package session

import (
	"context"
	"sync"

	"github.com/abhisek/lectio/internal/exercisegen"
)

// BatchFetcher runs NextBatch on a background goroutine so an interactive
// caller is never blocked on a remote round trip that can take minutes.
// Only one fetch is in-flight at a time; a new request cancels and
// replaces the pending one.
type BatchFetcher struct {
	controller *Controller

	mu      sync.Mutex
	cancel  context.CancelFunc
	pending []exercisegen.Exercise
	err     error
	ready   bool
}

// NewBatchFetcher wraps a controller for asynchronous batch retrieval.
func NewBatchFetcher(c *Controller) *BatchFetcher {
	return &BatchFetcher{controller: c}
}

// Request starts fetching the next batch. Any in-flight fetch is cancelled
// first; its result will be discarded.
func (f *BatchFetcher) Request(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.pending = nil
	f.err = nil
	f.ready = false
	f.mu.Unlock()

	go func() {
		batch, err := f.controller.NextBatch(ctx)

		f.mu.Lock()
		defer f.mu.Unlock()
		// Cancelled means a newer request owns the slot or the caller
		// navigated away; drop this result either way.
		if ctx.Err() != nil {
			return
		}
		f.pending = batch
		f.err = err
		f.ready = true
	}()
}

// Consume returns the fetched batch if one is ready. Returns ok=false
// while the fetch is still running. The error is ErrSectionComplete when
// the section is exhausted. The slot is cleared on consumption.
func (f *BatchFetcher) Consume() (batch []exercisegen.Exercise, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return nil, nil, false
	}
	batch, err = f.pending, f.err
	f.pending = nil
	f.err = nil
	f.ready = false
	f.cancel = nil
	return batch, err, true
}

// Cancel aborts any in-flight fetch. The abandoned request stops mutating
// state as soon as its next cancellation check fires.
func (f *BatchFetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.pending = nil
	f.err = nil
	f.ready = false
}
