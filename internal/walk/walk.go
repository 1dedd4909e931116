// Package walk follows prev pointers through the stored lists, the
// spot-check counterpart to a full verification pass.
package walk

import (
	"context"
	"math/rand/v2"
	"time"

	"linklint/internal/logger"
	"linklint/internal/store"
)

// keyMask keeps drawn keys in the same non-negative range the generator
// uses.
const keyMask = 1<<63 - 1

// NodeReader is the lookup side of the node store.
type NodeReader interface {
	Get(key uint64) (store.Node, bool, error)
	SeekCeiling(key uint64) (store.Node, bool, error)
}

// Stats summarizes one walk.
type Stats struct {
	Steps   uint64 // Steps is the number of prev pointers followed
	Reseeds uint64 // Reseeds counts jumps to a fresh random node
	Holes   uint64 // Holes counts prev pointers whose target node was missing
}

// Walker walks chains from random starting points.
type Walker struct {
	src NodeReader
	rng *rand.Rand
}

// New creates a Walker. A zero seed picks a random one.
func New(src NodeReader, seed uint64) *Walker {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Walker{src: src, rng: rand.New(rand.NewPCG(seed, 0))}
}

// Walk performs up to steps iterations, each either following one prev
// pointer or reseeding at a random node when a chain ends. A prev pointing
// at a missing node is logged and counted as a hole, then the walk
// reseeds; holes are exactly what a full verification pass reports as
// undefined nodes.
func (w *Walker) Walk(ctx context.Context, steps uint64) (Stats, error) {
	var stats Stats

	node, ok, err := w.reseed()
	if err != nil || !ok {
		return stats, err
	}

	for i := uint64(0); i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !node.HasPrev {
			logger.Debug("chain head reached", "key", node.Key)

			stats.Reseeds++

			if node, ok, err = w.reseed(); err != nil || !ok {
				return stats, err
			}

			continue
		}

		start := time.Now()

		next, found, err := w.src.Get(node.Prev)
		if err != nil {
			return stats, err
		}

		stats.Steps++

		if !found {
			stats.Holes++
			logger.Warn("hole in chain",
				"missing", node.Prev,
				"referencedBy", node.Key,
			)

			stats.Reseeds++

			if node, ok, err = w.reseed(); err != nil || !ok {
				return stats, err
			}

			continue
		}

		logger.Debug("walked", "from", node.Key, "to", next.Key, logger.Timed(start))

		node = next
	}

	return stats, nil
}

// reseed picks a random key and jumps to the first node at or after it.
// ok is false only when the store is empty.
func (w *Walker) reseed() (store.Node, bool, error) {
	return w.src.SeekCeiling(w.rng.Uint64() & keyMask)
}
