// Package projection implements the pure projection engine of §4.8: a
// projection is P : (State, Event) -> (State, []Effect), deterministic and
// free of I/O. Executors — the generic ones in executor.go and the Executor
// type of each target package (graph, dcim) — interpret the effects a
// projection describes.
package projection

import "infracore/event"

// State is any value type a projection needs. It must be cheaply cloneable
// and default-constructible; projections receive it by value and return a
// new value, never mutating the caller's copy.
type State any

// Func is a projection: given its current state and the next event, it
// returns the new state and the effects that event should cause. Func must
// be pure — no I/O, no clock reads, no randomness — so that Replayability
// (two runs over the same events produce the same state and the same
// effect sequence) holds by construction.
type Func func(state State, env event.Envelope) (State, []Effect)

// Fold applies P sequentially over events, starting from initial,
// accumulating the concatenation of per-event effect lists.
func Fold(p Func, initial State, events []event.Envelope) (State, []Effect) {
	state := initial
	var effects []Effect
	for _, env := range events {
		var step []Effect
		state, step = p(state, env)
		effects = append(effects, step...)
	}
	return state, effects
}

// Replay is fold from a projection's own default state, used to rebuild a
// target from the entire log.
func Replay(p Func, defaultState State, events []event.Envelope) (State, []Effect) {
	return Fold(p, defaultState, events)
}
