// Package persist applies state writes to durable storage in the background.
package persist

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Sink is the durable storage a Writer flushes into.
type Sink interface {
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Logf reports a failed write.
type Logf func(format string, args ...any)

type op struct {
	value  []byte
	remove bool
}

type waiter struct {
	target uint64
	ch     chan struct{}
}

// Writer queues key writes and applies them on a single goroutine.
// Repeated writes of a key that has not been applied yet collapse into the last one.
type Writer struct {
	sink Sink
	logf Logf

	mu       sync.Mutex
	pending  map[string]op
	order    []string
	enqueued uint64
	applied  uint64
	waiters  []waiter
	closed   bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

// NewWriter starts a Writer for sink. A nil logf writes failures to stderr.
func NewWriter(sink Sink, logf Logf) *Writer {
	if logf == nil {
		logf = logErrf
	}
	w := &Writer{
		sink:    sink,
		logf:    logf,
		pending: map[string]op{},
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// Put schedules value to be stored under key and returns immediately.
func (w *Writer) Put(key string, value []byte) {
	w.enqueue(key, op{value: value})
}

// Delete schedules key for removal and returns immediately.
func (w *Writer) Delete(key string) {
	w.enqueue(key, op{remove: true})
}

func (w *Writer) enqueue(key string, o op) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logf("dropped write of %q: writer closed\n", key)
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = o
	w.enqueued++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every write enqueued before the call has been applied or ctx ends.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.enqueued
	if w.applied >= target {
		w.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, waiter{target: target, ch: ch})
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the background goroutine.
// Writes enqueued after Close are dropped.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return err
	}
	w.closed = true
	w.mu.Unlock()
	close(w.quit)
	<-w.stopped
	return err
}

func (w *Writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.mu.Unlock()
			return
		}
		order := w.order
		batch := w.pending
		seq := w.enqueued
		w.order = nil
		w.pending = map[string]op{}
		w.mu.Unlock()

		ctx := context.Background()
		for _, key := range order {
			o := batch[key]
			var err error
			if o.remove {
				err = w.sink.Remove(ctx, key)
			} else {
				err = w.sink.Set(ctx, key, o.value)
			}
			if err != nil {
				w.logf("failed to persist %q: %v\n", key, err)
			}
		}

		w.mu.Lock()
		w.applied = seq
		remaining := w.waiters[:0]
		for _, wt := range w.waiters {
			if wt.target <= w.applied {
				close(wt.ch)
				continue
			}
			remaining = append(remaining, wt)
		}
		w.waiters = remaining
		w.mu.Unlock()
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
