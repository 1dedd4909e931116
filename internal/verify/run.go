package verify

import (
	"context"
	"fmt"
	"time"

	"linklint/internal/logger"
	"linklint/internal/report"
	"linklint/internal/shuffle"
	"linklint/internal/store"
)

// NodeSource is the read side of the node store.
type NodeSource interface {
	Scan(fn func(store.Node) error) error
}

// Summary is the outcome of one completed verification pass.
type Summary struct {
	Counters Counters // Counters are the merged per-class key counts
	Nodes    uint64   // Nodes is the number of stored nodes scanned
	complete bool
}

// Run performs one verification pass: scan every node, emit its signals,
// group them by key across the given number of reducers, classify every
// key, and write a diagnostic record for each undefined one.
//
// Data anomalies only move counters. Any returned error is an
// infrastructure failure (store scan or sink write); counters from a
// failed run are invalid and no Summary is returned.
func Run(ctx context.Context, src NodeSource, sink report.Sink, reducers int) (*Summary, error) {
	if reducers < 1 {
		reducers = 1
	}

	start := time.Now()

	locals := make([]Counters, reducers)

	var nodes uint64

	err := shuffle.GroupByKey(ctx, reducers,
		func(emit func(shuffle.KV) error) error {
			return src.Scan(func(n store.Node) error {
				if err := ctx.Err(); err != nil {
					return err
				}

				nodes++

				for _, s := range Emit(n) {
					if err := emit(shuffle.KV{Key: s.Key, Value: s.Payload}); err != nil {
						return err
					}
				}

				return nil
			})
		},
		func(worker int, key uint64, values []int64) error {
			res := Classify(key, values)

			if res.Class == ClassUndefined {
				if err := sink.Write(report.FormatKey(key), report.FormatRefs(res.Refs)); err != nil {
					return err
				}
			}

			locals[worker].add(res.Class)

			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("verification pass:\n%w", err)
	}

	summary := &Summary{Nodes: nodes, complete: true}
	for _, c := range locals {
		summary.Counters.Merge(c)
	}

	logger.Info("verification pass complete",
		"nodes", summary.Nodes,
		"keys", summary.Counters.Total(),
		"referenced", summary.Counters.Referenced,
		"unreferenced", summary.Counters.Unreferenced,
		"undefined", summary.Counters.Undefined,
		"reducers", reducers,
		logger.Timed(start),
	)

	return summary, nil
}
