package surfacing

import (
	"context"
	"math/rand"
	"sync"
)

// Generator produces at most one candidate draft per invocation. A nil
// draft with a nil error means "no candidate this tick", which is the
// common case. Generators must not write to the store; the caller performs
// the append. The snapshot is opaque consumer state (mood, recent activity,
// ongoing topics) passed through uninterpreted.
type Generator interface {
	Category() string
	Generate(ctx context.Context, snapshot any) (*Draft, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc struct {
	Name string
	Fn   func(ctx context.Context, snapshot any) (*Draft, error)
}

func (g GeneratorFunc) Category() string {
	return g.Name
}

func (g GeneratorFunc) Generate(ctx context.Context, snapshot any) (*Draft, error) {
	return g.Fn(ctx, snapshot)
}

// StochasticGenerator gates an inner generator behind a per-invocation
// probability, sampled once per call from an injectable random source so
// tests can pin the outcome with a seeded source.
type StochasticGenerator struct {
	inner       Generator
	probability float64

	mu  sync.Mutex
	rng *rand.Rand
}

// WithProbability wraps gen so that each Generate call proceeds with the
// given probability and otherwise reports no candidate. Probabilities at or
// above 1 pass every call through; at or below 0, none.
func WithProbability(gen Generator, probability float64, rng *rand.Rand) *StochasticGenerator {
	return &StochasticGenerator{
		inner:       gen,
		probability: probability,
		rng:         rng,
	}
}

func (s *StochasticGenerator) Category() string {
	return s.inner.Category()
}

func (s *StochasticGenerator) Generate(ctx context.Context, snapshot any) (*Draft, error) {
	if !s.roll() {
		return nil, nil
	}
	return s.inner.Generate(ctx, snapshot)
}

func (s *StochasticGenerator) roll() bool {
	if s.probability >= 1 {
		return true
	}
	if s.probability <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.probability
}
