// Package shuffle provides a hash-partitioned group-by-key primitive.
//
// Emitted pairs are routed to a fixed number of reducer goroutines by a
// blake3 hash of the key, so every value emitted for a key is reduced by
// exactly one worker with the key's complete value multiset. Values keep
// their arrival order within a key; no order is guaranteed across keys.
package shuffle

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/zeebo/blake3"
)

// channelBuffer is the buffer size for reducer input channels.
const channelBuffer = 1024

// KV is one emitted key-value pair.
type KV struct {
	Key   uint64 // Key is the grouping key
	Value int64  // Value is the payload grouped under Key
}

// Partition returns the reducer index responsible for a key.
// The mapping is deterministic for a given reducer count.
func Partition(key uint64, reducers int) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)

	sum := blake3.Sum256(buf[:])

	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(reducers))
}

// GroupByKey runs feed once, partitions everything it emits across
// reducers goroutines, and calls reduce exactly once per distinct key with
// all values emitted for it. reduce may run concurrently for keys on
// different workers but is sequential within one worker.
//
// An error from feed, reduce, or a canceled context aborts the run and is
// returned; in that case reduce may not have seen every key.
func GroupByKey(
	ctx context.Context,
	reducers int,
	feed func(emit func(KV) error) error,
	reduce func(worker int, key uint64, values []int64) error,
) error {
	if reducers < 1 {
		reducers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chans := make([]chan KV, reducers)
	for i := range chans {
		chans[i] = make(chan KV, channelBuffer)
	}

	errs := make([]error, reducers)

	var wg sync.WaitGroup

	for i := 0; i < reducers; i++ {
		wg.Add(1)

		go func(worker int) {
			defer wg.Done()

			errs[worker] = runReducer(ctx, worker, chans[worker], reduce)
			if errs[worker] != nil {
				cancel()
			}
		}(i)
	}

	feedErr := feed(func(kv KV) error {
		select {
		case chans[Partition(kv.Key, reducers)] <- kv:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	for _, ch := range chans {
		close(ch)
	}

	wg.Wait()

	// A reducer failure cancels the context, so feed and sibling reducers
	// observe context.Canceled; surface the root cause instead.
	var canceled error

	for _, err := range errs {
		if err == nil {
			continue
		}

		if !errors.Is(err, context.Canceled) {
			return err
		}

		canceled = err
	}

	if feedErr != nil {
		return feedErr
	}

	return canceled
}

// runReducer drains one partition, grouping values by key, then reduces
// every key once the partition's input is complete.
func runReducer(
	ctx context.Context,
	worker int,
	in <-chan KV,
	reduce func(worker int, key uint64, values []int64) error,
) error {
	groups := make(map[uint64][]int64)

	for {
		select {
		case kv, ok := <-in:
			if !ok {
				return reduceAll(worker, groups, reduce)
			}

			groups[kv.Key] = append(groups[kv.Key], kv.Value)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reduceAll calls reduce for every grouped key.
func reduceAll(
	worker int,
	groups map[uint64][]int64,
	reduce func(worker int, key uint64, values []int64) error,
) error {
	for key, values := range groups {
		if err := reduce(worker, key, values); err != nil {
			return err
		}
	}

	return nil
}
