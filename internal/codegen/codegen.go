// Package codegen produces the short codes clients use to pair up.
package codegen

import (
	"math/rand/v2"
	"sync"
)

// Alphabet is the set of characters a code is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of characters in a code.
const Length = 6

// Generator draws codes uniformly from Alphabet. Codes are not secret-grade
// and collisions are not detected.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator backed by the runtime's random source.
func New() *Generator {
	return &Generator{}
}

// NewWithSource returns a Generator driven by src, for reproducible codes in tests.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns a new Length-character code.
func (g *Generator) Generate() string {
	var buf [Length]byte
	if g.rng == nil {
		for i := range buf {
			buf[i] = Alphabet[rand.IntN(len(Alphabet))]
		}
		return string(buf[:])
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range buf {
		buf[i] = Alphabet[g.rng.IntN(len(Alphabet))]
	}
	return string(buf[:])
}

// Valid reports whether code has the shape of a generated code.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
