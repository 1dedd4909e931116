// Package generate writes random linked lists into the node store.
//
// Nodes are written in loops of a fixed width: each node's prev points at
// the previously written one, and once a loop is full its head is rewritten
// to point at the loop's last node, closing the circle. A cleanly generated
// store therefore verifies with every node referenced. Open mode skips the
// closing rewrite, leaving one unreferenced tail per loop.
package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"linklint/internal/logger"
	"linklint/internal/store"
)

// keyMask keeps generated keys in the non-negative int64 range, since the
// stored prev field is a signed long with -1 meaning absent.
const keyMask = 1<<63 - 1

// Config controls one generation run.
type Config struct {
	Nodes     uint64 // Nodes is the total number of nodes to write
	Width     uint64 // Width is the loop length; the last loop may be shorter
	BatchSize uint64 // BatchSize is the number of nodes per store batch
	Client    string // Client tags every written node with the run's identity
	Seed      uint64 // Seed makes key generation reproducible; 0 picks a random seed
	Open      bool   // Open leaves loops unclosed, producing unreferenced tails
}

// NodeSink is the write side of the node store.
type NodeSink interface {
	Put(store.Node) error
	PutBatch([]store.Node) error
}

// Run generates cfg.Nodes nodes into the sink.
func Run(ctx context.Context, sink NodeSink, cfg Config) error {
	if cfg.Nodes == 0 {
		return nil
	}

	if cfg.Width == 0 || cfg.Width > cfg.Nodes {
		cfg.Width = cfg.Nodes
	}

	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1000
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	g := &generator{
		sink: sink,
		cfg:  cfg,
		rng:  rand.New(rand.NewPCG(seed, 0)),
		used: make(map[uint64]struct{}, cfg.Nodes),
	}

	start := time.Now()

	if err := g.run(ctx); err != nil {
		return err
	}

	logger.Info("generation complete",
		"nodes", cfg.Nodes,
		"width", cfg.Width,
		"loops", (cfg.Nodes+cfg.Width-1)/cfg.Width,
		"seed", seed,
		"open", cfg.Open,
		logger.Timed(start),
	)

	return nil
}

// generator holds the state of one generation run.
type generator struct {
	sink    NodeSink
	cfg     Config
	rng     *rand.Rand
	used    map[uint64]struct{} // used tracks keys issued this run
	written uint64
	batch   []store.Node
}

// run writes all loops.
func (g *generator) run(ctx context.Context) error {
	for g.written < g.cfg.Nodes {
		width := g.cfg.Width
		if left := g.cfg.Nodes - g.written; left < width {
			width = left
		}

		if err := g.writeLoop(ctx, width); err != nil {
			return err
		}
	}

	return g.flush()
}

// writeLoop writes one loop of the given width and, unless Open is set,
// rewrites the head to point at the last node.
func (g *generator) writeLoop(ctx context.Context, width uint64) error {
	head := store.Node{Key: g.nextKey(), Client: g.cfg.Client}

	prev := head.Key

	if err := g.add(ctx, head); err != nil {
		return err
	}

	for i := uint64(1); i < width; i++ {
		n := store.Node{
			Key:     g.nextKey(),
			Prev:    prev,
			HasPrev: true,
			Count:   g.written,
			Client:  g.cfg.Client,
		}

		prev = n.Key

		if err := g.add(ctx, n); err != nil {
			return err
		}
	}

	if g.cfg.Open || width == 1 {
		return nil
	}

	// Close the loop: the head now points at the last node written, so
	// every node in the loop ends up referenced exactly once.
	if err := g.flush(); err != nil {
		return err
	}

	head.Prev = prev
	head.HasPrev = true

	if err := g.sink.Put(head); err != nil {
		return fmt.Errorf("close loop:\n%w", err)
	}

	return nil
}

// add queues one node, flushing the batch when full.
func (g *generator) add(ctx context.Context, n store.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.batch = append(g.batch, n)
	g.written++

	if uint64(len(g.batch)) >= g.cfg.BatchSize {
		return g.flush()
	}

	return nil
}

// flush writes the queued batch.
func (g *generator) flush() error {
	if len(g.batch) == 0 {
		return nil
	}

	if err := g.sink.PutBatch(g.batch); err != nil {
		return fmt.Errorf("flush batch:\n%w", err)
	}

	g.batch = g.batch[:0]

	return nil
}

// nextKey draws a fresh random key, re-rolling the rare collision with a
// key already issued this run.
func (g *generator) nextKey() uint64 {
	for {
		key := g.rng.Uint64() & keyMask

		if _, dup := g.used[key]; dup {
			continue
		}

		g.used[key] = struct{}{}

		return key
	}
}
