package vm

import "math/rand"

// randState wraps a dedicated *rand.Rand rather than the package-level
// source, so random.seed only affects this VM instance's own draws
// (spec.md §4.8 "random seeded via random.seed is deterministic per-runtime").
type randState struct {
	r *rand.Rand
}

func newRandState() *randState {
	return &randState{r: rand.New(rand.NewSource(1))}
}
