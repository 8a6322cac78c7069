package helpers

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitterDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		d := JitterDuration(rng, time.Second, 2*time.Second)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 2*time.Second)
	}

	assert.Equal(t, time.Second, JitterDuration(rng, time.Second, time.Second))
	assert.Equal(t, 2*time.Second, JitterDuration(rng, 2*time.Second, time.Second))
}

func TestPtr(t *testing.T) {
	v := Ptr("hello")
	assert.Equal(t, "hello", *v)
}
