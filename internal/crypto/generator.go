package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrInvalidLength = errors.New("password length must be at least 1")
	ErrRandomSource  = errors.New("random source failed")
)

// Generator draws passwords from a character pool using an entropy source.
// It holds no mutable state and is safe for concurrent use whenever the
// source is.
type Generator struct {
	source io.Reader
}

// NewGenerator returns a Generator reading from source. A nil source selects
// the operating system CSPRNG.
func NewGenerator(source io.Reader) *Generator {
	if source == nil {
		source = rand.Reader
	}
	return &Generator{source: source}
}

// Generate creates a password from the OS CSPRNG.
func Generate(pool CharPool, length int) (string, error) {
	return NewGenerator(nil).Generate(pool, length)
}

// Generate returns length characters, each drawn independently and uniformly
// from pool. On error the returned string is always empty.
func (g *Generator) Generate(pool CharPool, length int) (string, error) {
	if pool.Len() == 0 {
		return "", ErrEmptyCharset
	}
	if length < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	result := make([]byte, length)
	for i := range result {
		idx, err := g.index(pool.Len())
		if err != nil {
			return "", err
		}
		result[i] = pool.chars[idx]
	}

	return string(result), nil
}

// index returns a uniform value in [0, n) by rejection sampling 32-bit draws.
// Values at or above the largest multiple of n are discarded so that the
// final modulo is unbiased.
func (g *Generator) index(n int) (int, error) {
	bound := uint64(n)
	limit := (uint64(math.MaxUint32) + 1) / bound * bound

	var buf [4]byte
	for {
		if _, err := io.ReadFull(g.source, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrRandomSource, err)
		}
		v := uint64(binary.BigEndian.Uint32(buf[:]))
		if v < limit {
			return int(v % bound), nil
		}
	}
}
