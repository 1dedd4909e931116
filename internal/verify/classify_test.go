package verify

import (
	"reflect"
	"testing"

	"linklint/internal/store"
)

func TestEmitWithPrev(t *testing.T) {
	n := store.Node{Key: 7, Prev: 3, HasPrev: true}

	got := Emit(n)

	want := []Signal{
		{Key: 7, Payload: DefPayload},
		{Key: 3, Payload: 7},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emit returned %v, want %v", got, want)
	}
}

func TestEmitWithoutPrev(t *testing.T) {
	got := Emit(store.Node{Key: 7})

	want := []Signal{{Key: 7, Payload: DefPayload}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emit returned %v, want %v", got, want)
	}
}

func TestEmitIsPure(t *testing.T) {
	n := store.Node{Key: 42, Prev: 9, HasPrev: true}

	first := Emit(n)
	second := Emit(n)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Emit differed: %v vs %v", first, second)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		payloads []int64
		class    Class
		refs     []uint64
	}{
		{
			name:     "defined and referenced",
			payloads: []int64{DefPayload, 5},
			class:    ClassReferenced,
			refs:     []uint64{5},
		},
		{
			name:     "defined only",
			payloads: []int64{DefPayload},
			class:    ClassUnreferenced,
		},
		{
			name:     "referenced only",
			payloads: []int64{5, 9},
			class:    ClassUndefined,
			refs:     []uint64{5, 9},
		},
		{
			name:     "multiple references",
			payloads: []int64{3, DefPayload, 5},
			class:    ClassReferenced,
			refs:     []uint64{3, 5},
		},
		{
			// Known gap carried over from the original: more than one
			// definition is not flagged as corrupt.
			name:     "double definition falls through",
			payloads: []int64{DefPayload, DefPayload},
			class:    ClassUnreferenced,
		},
		{
			name:     "double definition with reference",
			payloads: []int64{DefPayload, 8, DefPayload},
			class:    ClassReferenced,
			refs:     []uint64{8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(1, tt.payloads)

			if res.Class != tt.class {
				t.Errorf("Classify class = %v, want %v", res.Class, tt.class)
			}

			if !reflect.DeepEqual(res.Refs, tt.refs) {
				t.Errorf("Classify refs = %v, want %v", res.Refs, tt.refs)
			}
		})
	}
}

// TestClassifyDuplicateSignals pins down that re-emitting the same node set
// and merging the signal multisets does not change any classification.
func TestClassifyDuplicateSignals(t *testing.T) {
	once := []int64{DefPayload, 5, 9}
	twice := append(append([]int64{}, once...), once...)

	if got, want := Classify(1, twice).Class, Classify(1, once).Class; got != want {
		t.Errorf("doubled signals classified as %v, single as %v", got, want)
	}
}

func TestCountersAddAndMerge(t *testing.T) {
	var a, b Counters

	a.add(ClassReferenced)
	a.add(ClassUndefined)
	b.add(ClassUnreferenced)
	b.add(ClassReferenced)

	a.Merge(b)

	want := Counters{Referenced: 2, Unreferenced: 1, Undefined: 1}
	if a != want {
		t.Errorf("merged counters = %+v, want %+v", a, want)
	}

	if a.Total() != 4 {
		t.Errorf("Total = %d, want 4", a.Total())
	}
}

func TestClassString(t *testing.T) {
	tests := []struct {
		class Class
		want  string
	}{
		{ClassReferenced, "referenced"},
		{ClassUnreferenced, "unreferenced"},
		{ClassUndefined, "undefined"},
		{Class(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("Class(%d).String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}
