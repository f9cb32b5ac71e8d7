package services

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// LocatorAlphabet omits 0/O and 1/I so codes survive being read aloud.
	LocatorAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	LocatorLength   = 8
)

// LocatorGenerator produces short customer-facing order codes.
type LocatorGenerator interface {
	Generate() (string, error)
}

type randomLocatorGenerator struct {
	reader io.Reader
}

// NewLocatorGenerator returns a generator backed by crypto/rand. With 32
// symbols and 8 positions there are 2^40 possible codes.
func NewLocatorGenerator() LocatorGenerator {
	return &randomLocatorGenerator{reader: rand.Reader}
}

func (g *randomLocatorGenerator) Generate() (string, error) {
	buf := make([]byte, LocatorLength)
	if _, err := io.ReadFull(g.reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	// 256 is a multiple of 32, so the modulo is unbiased.
	for i, b := range buf {
		buf[i] = LocatorAlphabet[int(b)%len(LocatorAlphabet)]
	}
	return string(buf), nil
}
