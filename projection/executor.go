package projection

import (
	"context"
	"sync"
)

// Executor interprets effects against real systems. It is the only
// component in the projection path allowed to perform I/O — projections
// themselves only describe effects as data.
type Executor interface {
	Execute(ctx context.Context, effects []Effect) error
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context, effects []Effect) error

func (f ExecutorFunc) Execute(ctx context.Context, effects []Effect) error { return f(ctx, effects) }

// LoggingExecutor records effects for inspection and performs no I/O,
// grounded in the teacher's BaseProjection bookkeeping style: it tracks
// what passed through without acting on any of it.
type LoggingExecutor struct {
	mu      sync.Mutex
	logged  []Effect
	sink    func(level, message string)
}

func NewLoggingExecutor(sink func(level, message string)) *LoggingExecutor {
	return &LoggingExecutor{sink: sink}
}

func (e *LoggingExecutor) Execute(ctx context.Context, effects []Effect) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, eff := range effects {
		e.logged = append(e.logged, eff)
		if e.sink != nil {
			e.sink("info", string(eff.Kind))
		}
	}
	return nil
}

func (e *LoggingExecutor) Logged() []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Effect, len(e.logged))
	copy(out, e.logged)
	return out
}

// NullExecutor discards every effect.
type NullExecutor struct{}

func (NullExecutor) Execute(ctx context.Context, effects []Effect) error { return nil }

// CollectingExecutor batches effects for later inspection or deferred
// execution by a wrapped delegate.
type CollectingExecutor struct {
	mu       sync.Mutex
	batched  []Effect
	delegate Executor
}

func NewCollectingExecutor(delegate Executor) *CollectingExecutor {
	return &CollectingExecutor{delegate: delegate}
}

func (e *CollectingExecutor) Execute(ctx context.Context, effects []Effect) error {
	e.mu.Lock()
	e.batched = append(e.batched, effects...)
	e.mu.Unlock()
	return nil
}

// Flush hands every batched effect to the delegate executor in one call and
// clears the batch.
func (e *CollectingExecutor) Flush(ctx context.Context) error {
	e.mu.Lock()
	batch := e.batched
	e.batched = nil
	e.mu.Unlock()

	if e.delegate == nil || len(batch) == 0 {
		return nil
	}
	return e.delegate.Execute(ctx, batch)
}

// FilteringExecutor applies a predicate and delegates only the effects that
// pass it.
type FilteringExecutor struct {
	predicate func(Effect) bool
	delegate  Executor
}

func NewFilteringExecutor(predicate func(Effect) bool, delegate Executor) *FilteringExecutor {
	return &FilteringExecutor{predicate: predicate, delegate: delegate}
}

func (e *FilteringExecutor) Execute(ctx context.Context, effects []Effect) error {
	kept := make([]Effect, 0, len(effects))
	for _, eff := range effects {
		if e.predicate(eff) {
			kept = append(kept, eff)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return e.delegate.Execute(ctx, kept)
}
