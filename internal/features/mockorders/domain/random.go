package domain

import (
	"math/rand"
	"sort"
	"time"
)

// Randomizer bundles the random draws the generation pipeline needs. It wraps
// a private rand source so concurrent runs never contend on a shared one.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a Randomizer seeded from the clock. Generation runs
// are intentionally not reproducible across invocations.
func NewRandomizer() *Randomizer {
	return NewSeededRandomizer(time.Now().UnixNano())
}

// NewSeededRandomizer returns a Randomizer with a fixed seed, for tests.
func NewSeededRandomizer(seed int64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly random element of items. It panics on an empty
// slice, matching the contract of indexing.
func Pick[T any](r *Randomizer, items []T) T {
	return items[r.rng.Intn(len(items))]
}

// IntBetween returns a uniform integer in [min, max] inclusive. When the
// bounds are inverted it returns min.
func (r *Randomizer) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

// Chance returns true with the given probability expressed as a percentage.
// Values at or below 0 never fire; values at or above 100 always fire.
func (r *Randomizer) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.rng.Intn(100) < percent
}

// TimeBetween returns a uniform timestamp in [start, end]. When the range is
// empty or inverted it returns start.
func (r *Randomizer) TimeBetween(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(r.rng.Int63n(int64(span) + 1)))
}

// WeightedIndex draws an index from weights proportionally to their values
// using a prefix-sum table and a binary search, so the draw is exact and
// immune to float drift. It returns -1 when no weight is positive.
func (r *Randomizer) WeightedIndex(weights []int) int {
	prefix := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		prefix[i] = total
	}
	if total == 0 {
		return -1
	}
	draw := r.rng.Intn(total)
	return sort.SearchInts(prefix, draw+1)
}
