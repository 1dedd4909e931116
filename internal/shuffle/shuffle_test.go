package shuffle

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
)

// collect runs GroupByKey over the given pairs and returns the grouped
// values per key.
func collect(t *testing.T, reducers int, pairs []KV) map[uint64][]int64 {
	t.Helper()

	var mu sync.Mutex
	got := make(map[uint64][]int64)

	err := GroupByKey(context.Background(), reducers,
		func(emit func(KV) error) error {
			for _, kv := range pairs {
				if err := emit(kv); err != nil {
					return err
				}
			}
			return nil
		},
		func(worker int, key uint64, values []int64) error {
			mu.Lock()
			defer mu.Unlock()

			if _, dup := got[key]; dup {
				t.Errorf("key %d reduced twice", key)
			}

			got[key] = values
			return nil
		},
	)
	if err != nil {
		t.Fatalf("GroupByKey failed: %v", err)
	}

	return got
}

func TestGroupByKey(t *testing.T) {
	pairs := []KV{
		{Key: 1, Value: -1},
		{Key: 2, Value: 1},
		{Key: 1, Value: 7},
		{Key: 3, Value: -1},
		{Key: 1, Value: 9},
	}

	got := collect(t, 2, pairs)

	want := map[uint64][]int64{
		1: {-1, 7, 9},
		2: {1},
		3: {-1},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("grouped = %v, want %v", got, want)
	}
}

func TestGroupByKeyPreservesWithinKeyOrder(t *testing.T) {
	var pairs []KV
	for i := int64(0); i < 100; i++ {
		pairs = append(pairs, KV{Key: 42, Value: i})
	}

	got := collect(t, 4, pairs)

	values := got[42]
	if !sort.SliceIsSorted(values, func(i, j int) bool { return values[i] < values[j] }) {
		t.Errorf("values for one key arrived out of order: %v", values)
	}
}

func TestGroupByKeyManyKeys(t *testing.T) {
	var pairs []KV
	for i := uint64(0); i < 1000; i++ {
		pairs = append(pairs, KV{Key: i, Value: int64(i)})
	}

	got := collect(t, 8, pairs)

	if len(got) != 1000 {
		t.Fatalf("got %d keys, want 1000", len(got))
	}

	for key, values := range got {
		if len(values) != 1 || values[0] != int64(key) {
			t.Errorf("key %d grouped %v", key, values)
		}
	}
}

func TestPartitionStable(t *testing.T) {
	for key := uint64(0); key < 100; key++ {
		p := Partition(key, 7)

		if p < 0 || p >= 7 {
			t.Fatalf("Partition(%d, 7) = %d, out of range", key, p)
		}

		if q := Partition(key, 7); q != p {
			t.Fatalf("Partition(%d, 7) not deterministic: %d vs %d", key, p, q)
		}
	}
}

func TestGroupByKeyFeedError(t *testing.T) {
	fail := errors.New("source failed")

	err := GroupByKey(context.Background(), 2,
		func(emit func(KV) error) error {
			if err := emit(KV{Key: 1, Value: 1}); err != nil {
				return err
			}
			return fail
		},
		func(int, uint64, []int64) error { return nil },
	)

	if !errors.Is(err, fail) {
		t.Errorf("GroupByKey returned %v, want feed error", err)
	}
}

func TestGroupByKeyReduceError(t *testing.T) {
	fail := errors.New("reduce failed")

	err := GroupByKey(context.Background(), 3,
		func(emit func(KV) error) error {
			for i := uint64(0); i < 50; i++ {
				if err := emit(KV{Key: i, Value: 1}); err != nil {
					return err
				}
			}
			return nil
		},
		func(int, uint64, []int64) error { return fail },
	)

	if !errors.Is(err, fail) {
		t.Errorf("GroupByKey returned %v, want reduce error", err)
	}
}

func TestGroupByKeyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := GroupByKey(ctx, 2,
		func(emit func(KV) error) error {
			for i := uint64(0); ; i++ {
				if err := emit(KV{Key: i, Value: 1}); err != nil {
					return err
				}
			}
		},
		func(int, uint64, []int64) error { return nil },
	)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("GroupByKey returned %v, want context.Canceled", err)
	}
}

func TestGroupByKeySingleReducerFloor(t *testing.T) {
	got := collect(t, 0, []KV{{Key: 5, Value: -1}})

	if !reflect.DeepEqual(got, map[uint64][]int64{5: {-1}}) {
		t.Errorf("grouped = %v", got)
	}
}
