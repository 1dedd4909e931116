package verify

import (
	"errors"
	"fmt"
)

// ErrNotRun is returned when a verdict is requested from a pass that never
// completed. That is a programming error, distinct from a verification FAIL.
var ErrNotRun = errors.New("verify: verdict requested before a completed run")

// Verdict decides pass/fail from the final counters. The pass succeeds only
// if the referenced count matches expectedReferenced exactly and no key was
// unreferenced or undefined. Every failing condition is reported, not just
// the first, so one run surfaces every category of anomaly.
//
// Corrupt is reserved and currently always zero, but a non-zero value still
// fails the run.
func (s *Summary) Verdict(expectedReferenced uint64) (bool, []string, error) {
	if s == nil || !s.complete {
		return false, nil, ErrNotRun
	}

	var failures []string

	if s.Counters.Referenced != expectedReferenced {
		failures = append(failures, fmt.Sprintf(
			"expected referenced count does not match actual referenced count: expected=%d actual=%d",
			expectedReferenced, s.Counters.Referenced))
	}

	if s.Counters.Unreferenced > 0 {
		failures = append(failures, fmt.Sprintf(
			"unreferenced nodes were not expected: count=%d", s.Counters.Unreferenced))
	}

	if s.Counters.Undefined > 0 {
		failures = append(failures, fmt.Sprintf(
			"found undefined nodes: count=%d", s.Counters.Undefined))
	}

	if s.Counters.Corrupt > 0 {
		failures = append(failures, fmt.Sprintf(
			"corrupt nodes were detected: count=%d", s.Counters.Corrupt))
	}

	return len(failures) == 0, failures, nil
}
