package generate

import (
	"context"
	"path/filepath"
	"testing"

	"linklint/internal/report"
	"linklint/internal/store"
	"linklint/internal/verify"
)

// newTestStore creates a temporary store for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() { s.Close() })

	return s
}

// generateInto runs the generator with a fixed seed.
func generateInto(t *testing.T, s *store.Store, cfg Config) {
	t.Helper()

	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	if err := Run(context.Background(), s, cfg); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
}

// verifyStore runs a verification pass over the store.
func verifyStore(t *testing.T, s *store.Store) (*verify.Summary, *report.MemorySink) {
	t.Helper()

	sink := report.NewMemorySink()

	summary, err := verify.Run(context.Background(), s, sink, 4)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	return summary, sink
}

func TestClosedLoopsVerifyClean(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 100, Width: 25, BatchSize: 10, Client: "test"})

	summary, _ := verifyStore(t, s)

	want := verify.Counters{Referenced: 100}
	if summary.Counters != want {
		t.Fatalf("counters = %+v, want %+v", summary.Counters, want)
	}

	pass, failures, err := summary.Verdict(100)
	if err != nil {
		t.Fatalf("Verdict failed: %v", err)
	}

	if !pass {
		t.Errorf("clean store failed verification: %v", failures)
	}
}

func TestOpenLoopsLeaveTails(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 100, Width: 25, BatchSize: 10, Client: "test", Open: true})

	summary, _ := verifyStore(t, s)

	// One unreferenced tail per open loop: the last node written in each,
	// which nothing points back at.
	want := verify.Counters{Referenced: 96, Unreferenced: 4}
	if summary.Counters != want {
		t.Errorf("counters = %+v, want %+v", summary.Counters, want)
	}
}

func TestDeletedNodeDetected(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 50, Width: 50, BatchSize: 10, Client: "test"})

	// Find an interior node and delete it, leaving its referencer dangling.
	var victim store.Node

	err := s.Scan(func(n store.Node) error {
		if n.HasPrev {
			victim = n
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if err := s.Delete(victim.Key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	summary, sink := verifyStore(t, s)

	// The victim is now undefined (still referenced by its successor) and
	// its own predecessor lost its only referencer.
	want := verify.Counters{Referenced: 48, Unreferenced: 1, Undefined: 1}
	if summary.Counters != want {
		t.Errorf("counters = %+v, want %+v", summary.Counters, want)
	}

	if _, ok := sink.Records()[report.FormatKey(victim.Key)]; !ok {
		t.Errorf("no diagnostic for deleted key %016x: %v", victim.Key, sink.Records())
	}

	pass, failures, err := summary.Verdict(50)
	if err != nil {
		t.Fatalf("Verdict failed: %v", err)
	}

	if pass {
		t.Error("verification passed over a store with a hole")
	}

	if len(failures) != 3 {
		t.Errorf("got %d failure reports, want 3: %v", len(failures), failures)
	}
}

func TestSingleNodeLoopStaysOpen(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 1, Width: 1, BatchSize: 1, Client: "test"})

	summary, _ := verifyStore(t, s)

	// A loop of one is never closed onto itself.
	want := verify.Counters{Unreferenced: 1}
	if summary.Counters != want {
		t.Errorf("counters = %+v, want %+v", summary.Counters, want)
	}
}

func TestGenerateZeroNodes(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 0})

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if count != 0 {
		t.Errorf("store holds %d nodes, want 0", count)
	}
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
	keys := func() map[uint64]bool {
		s := newTestStore(t)
		generateInto(t, s, Config{Nodes: 40, Width: 10, BatchSize: 7, Client: "test", Seed: 99})

		got := make(map[uint64]bool)
		if err := s.Scan(func(n store.Node) error {
			got[n.Key] = true
			return nil
		}); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}

		return got
	}

	first := keys()
	second := keys()

	if len(first) != 40 || len(second) != 40 {
		t.Fatalf("key counts = %d and %d, want 40", len(first), len(second))
	}

	for k := range first {
		if !second[k] {
			t.Fatalf("key %016x missing from second run", k)
		}
	}
}

func TestGenerateNodeFields(t *testing.T) {
	s := newTestStore(t)

	generateInto(t, s, Config{Nodes: 10, Width: 5, BatchSize: 3, Client: "client-a"})

	err := s.Scan(func(n store.Node) error {
		if n.Client != "client-a" {
			t.Errorf("node %016x client = %q, want %q", n.Key, n.Client, "client-a")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
}
