package verify

// Counters holds the per-class key counts of one verification pass.
// Each worker accumulates its own Counters and the results are merged
// once at the end; increments are commutative so worker scheduling
// cannot change the final sums.
type Counters struct {
	Referenced   uint64 // Referenced counts keys both defined and pointed to
	Unreferenced uint64 // Unreferenced counts defined keys nothing points to
	Undefined    uint64 // Undefined counts referenced but never-defined keys
	Corrupt      uint64 // Corrupt is reserved for multi-definition detection and stays 0
}

// add increments the counter for one classified key.
func (c *Counters) add(class Class) {
	switch class {
	case ClassReferenced:
		c.Referenced++
	case ClassUnreferenced:
		c.Unreferenced++
	case ClassUndefined:
		c.Undefined++
	}
}

// Merge folds another worker's counts into c.
func (c *Counters) Merge(o Counters) {
	c.Referenced += o.Referenced
	c.Unreferenced += o.Unreferenced
	c.Undefined += o.Undefined
	c.Corrupt += o.Corrupt
}

// Total returns the number of keys classified, one per distinct key that
// appeared as a node's own key or as some node's predecessor.
func (c Counters) Total() uint64 {
	return c.Referenced + c.Unreferenced + c.Undefined + c.Corrupt
}
