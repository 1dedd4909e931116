// Package verify checks the integrity of a generated linked list.
//
// One pass over the store classifies every key that appears as a node or as
// some node's predecessor into referenced, unreferenced, or undefined, and
// reports the referencing keys of every undefined node. A key is undefined
// when something points at it but no node with that key was ever written,
// the symptom of a lost write.
package verify

import "linklint/internal/store"

// DefPayload is the payload of a definition signal. Node keys occupy the
// non-negative int64 range (the stored prev field is a signed long with -1
// meaning absent), so the sentinel cannot collide with a reference payload.
const DefPayload int64 = -1

// Signal is one (key, payload) pair emitted for grouping. A payload of
// DefPayload asserts that a node with this key exists; any other payload is
// the key of a node claiming this key as its predecessor.
type Signal struct {
	Key     uint64 // Key is the grouping key the signal is addressed to
	Payload int64  // Payload is DefPayload or the emitting node's key
}

// Def returns the definition signal for a node's own key.
func Def(key uint64) Signal {
	return Signal{Key: key, Payload: DefPayload}
}

// Ref returns the reference signal a node emits at its predecessor.
func Ref(prev, key uint64) Signal {
	return Signal{Key: prev, Payload: int64(key)}
}

// Emit produces the signals for one stored node: always one definition
// signal for its own key, plus one reference signal addressed at its
// predecessor when it declares one.
//
// Emit is a pure function of the node, so redundant or out-of-order
// invocations during a parallel scan are harmless.
func Emit(n store.Node) []Signal {
	if !n.HasPrev {
		return []Signal{Def(n.Key)}
	}

	return []Signal{Def(n.Key), Ref(n.Prev, n.Key)}
}
