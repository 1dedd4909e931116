package verify

// Class is the classification of one key after grouping.
type Class int

const (
	// ClassReferenced marks a key that is both defined and pointed to,
	// the steady state for interior chain nodes.
	ClassReferenced Class = iota

	// ClassUnreferenced marks a defined key nothing points to. Expected
	// only for chain tails; anything beyond that surfaces through the
	// final count comparison, not a separate counter.
	ClassUnreferenced

	// ClassUndefined marks a key that is referenced but was never
	// defined, an integrity violation.
	ClassUndefined
)

// String returns the lower-case name of the class.
func (c Class) String() string {
	switch c {
	case ClassReferenced:
		return "referenced"
	case ClassUnreferenced:
		return "unreferenced"
	case ClassUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Result is the classification of one key.
type Result struct {
	Key      uint64   // Key is the classified key
	Class    Class    // Class is the classification outcome
	DefCount int      // DefCount is the number of definition signals seen
	Refs     []uint64 // Refs are the referencing keys, in arrival order
}

// Classify decides the class of a key from the complete multiset of signal
// payloads grouped under it. It never fails: a single corrupt key must not
// abort the whole run, so every input gets a classification.
//
// Classification order: undefined (refs without a definition) wins, then
// unreferenced (definition without refs), then referenced.
func Classify(key uint64, payloads []int64) Result {
	res := Result{Key: key}

	for _, p := range payloads {
		if p == DefPayload {
			res.DefCount++
		} else {
			res.Refs = append(res.Refs, uint64(p))
		}
	}

	// TODO detect DefCount > 1 and classify it as corrupt instead of
	// letting it fall through below.

	switch {
	case res.DefCount == 0 && len(res.Refs) > 0:
		res.Class = ClassUndefined
	case res.DefCount > 0 && len(res.Refs) == 0:
		res.Class = ClassUnreferenced
	default:
		res.Class = ClassReferenced
	}

	return res
}
