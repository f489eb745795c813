// Package search implements the debounced, cancellable search pipeline.
//
// Each keystroke arms a timer; a keystroke inside the debounce window cancels
// the previous timer, so at most one timer is pending per Debouncer. A timer
// that fires issues exactly one remote call carrying the text captured at arm
// time. Responses are sequence-numbered at arm time and anything stale is
// discarded, so "most recent keystroke wins" holds even when the network
// reorders responses.
package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/shopcart/internal/catalog"
	"github.com/example/shopcart/internal/fault"
)

// DefaultWindow matches the storefront's debounce interval.
const DefaultWindow = 500 * time.Millisecond

// Searcher is the slice of the remote client the controller needs.
type Searcher interface {
	SearchProducts(ctx context.Context, text string) ([]catalog.Product, error)
}

// Result is one matured search delivered to the consumer. A NotFound from
// the backend is an empty result set, not an error.
type Result struct {
	Seq      uint64
	Query    string
	Products []catalog.Product
	Err      error
}

// Debouncer owns the single pending timer and the sequence counter. Deliver
// runs on the timer's goroutine; consumers hand the result to their own
// event loop (the TUI wraps it in a program message).
type Debouncer struct {
	window  time.Duration
	remote  Searcher
	deliver func(Result)
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	seq      uint64 // latest armed sequence; strictly increasing under mu
	pending  *time.Timer
	closed   bool
	inFlight sync.WaitGroup
}

// New builds a Debouncer. A zero window falls back to DefaultWindow; deliver
// must be non-nil.
func New(window time.Duration, remote Searcher, deliver func(Result), logger *zap.Logger) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debouncer{
		window:  window,
		remote:  remote,
		deliver: deliver,
		timeout: 10 * time.Second,
		logger:  logger.Named("search"),
	}
}

// Arm records a keystroke: cancels any pending timer and starts a new one
// for text. The sequence number the eventual result will carry is assigned
// here, so a later Arm supersedes this one even after its timer has fired.
func (d *Debouncer) Arm(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopPendingLocked()
	d.seq++
	seq := d.seq
	d.inFlight.Add(1)
	d.pending = time.AfterFunc(d.window, func() {
		defer d.inFlight.Done()
		d.fire(seq, text)
	})
}

// Cancel stops the pending timer, if any, without tearing the Debouncer
// down. The sequence counter is not rewound: anything already in flight
// stays discardable by a later Arm.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopPendingLocked()
}

// Close cancels the pending timer and refuses further Arms, then waits for
// any fired call to drain so no callback runs after teardown.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopPendingLocked()
	d.mu.Unlock()

	d.inFlight.Wait()
}

func (d *Debouncer) stopPendingLocked() {
	if d.pending != nil {
		if d.pending.Stop() {
			// Timer never fired; release its WaitGroup slot.
			d.inFlight.Done()
		}
		d.pending = nil
	}
}

// fire runs on the timer goroutine once the window has elapsed.
func (d *Debouncer) fire(seq uint64, text string) {
	// A newer keystroke may have armed between the timer firing and this
	// goroutine being scheduled.
	if !d.isLatest(seq) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	products, err := d.remote.SearchProducts(ctx, text)
	if err != nil && fault.KindOf(err) == fault.NotFound {
		// Empty-state, not an error banner.
		products, err = nil, nil
	}
	if err != nil {
		err = fault.Ensure(err)
	}

	d.mu.Lock()
	stale := d.closed || seq != d.seq
	d.mu.Unlock()
	if stale {
		d.logger.Debug("discarding stale search result",
			zap.Uint64("seq", seq),
			zap.String("query", text))
		return
	}

	d.deliver(Result{Seq: seq, Query: text, Products: products, Err: err})
}

func (d *Debouncer) isLatest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && seq == d.seq
}
