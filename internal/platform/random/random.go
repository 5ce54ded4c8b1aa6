// Package random provides the uniform randomness abstraction used by combat
// resolution, content generation and the daily shop.
//
// Production code seeds from crypto/rand; the shop seeds from the calendar
// date so every observer sees the same stock; tests seed with fixed values.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// Source is an injectable uniform random generator.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
	// Perm returns a uniform permutation of [0, n).
	Perm(n int) []int
}

type pcgSource struct {
	rng *rand.Rand
}

func (s *pcgSource) Float64() float64 { return s.rng.Float64() }
func (s *pcgSource) IntN(n int) int   { return s.rng.IntN(n) }

func (s *pcgSource) Perm(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}

// New returns a deterministic Source for the given seed.
func New(seed int64) Source {
	return &pcgSource{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))}
}

// NewCrypto returns a Source seeded from crypto/rand.
func NewCrypto() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// DateSeed derives the shared daily seed from a calendar date.
// The legacy formula is the integer value of the date formatted YYYYMMDD,
// preserved so independent processes generate identical shop stock.
func DateSeed(date time.Time) int64 {
	seed, err := strconv.ParseInt(date.UTC().Format("20060102"), 10, 64)
	if err != nil {
		// Format is fixed so this cannot happen.
		return 0
	}
	return seed
}
