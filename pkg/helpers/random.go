package helpers

import (
	"math/rand"
	"time"
)

// JitterDuration picks a uniform random duration in [min, max]. When the
// bounds are inverted or equal it returns min.
func JitterDuration(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)+1))
}
