package codegen

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Shape(t *testing.T) {
	g := New()
	for i := 0; i < 1000; i++ {
		code := g.Generate()
		if len(code) != Length {
			t.Fatalf("expected length %d, got %d (%q)", Length, len(code), code)
		}
		for _, c := range code {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("unexpected character %q in %q", c, code)
			}
		}
		assert.True(t, Valid(code))
	}
}

func TestGenerate_SeededSourceIsReproducible(t *testing.T) {
	a := NewWithSource(rand.NewPCG(1, 2))
	b := NewWithSource(rand.NewPCG(1, 2))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestGenerate_CoversAlphabet(t *testing.T) {
	g := NewWithSource(rand.NewPCG(42, 7))
	seen := make(map[rune]bool)
	for i := 0; i < 2000; i++ {
		for _, c := range g.Generate() {
			seen[c] = true
		}
	}
	assert.Len(t, seen, len(Alphabet))
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AB12CD", true},
		{"ZZZZZZ", true},
		{"000000", true},
		{"ab12cd", false},
		{"AB12C", false},
		{"AB12CDE", false},
		{"AB-2CD", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.code))
		})
	}
}
