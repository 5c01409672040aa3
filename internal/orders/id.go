package orders

import (
	"fmt"
	"math/rand/v2"
)

const (
	idPrefix        = "ORD-"
	shortIDAttempts = 32
)

// IDGenerator produces short order references such as ORD-0427.
type IDGenerator struct {
	intN func(n int) int
}

// NewIDGenerator returns a generator backed by the process-wide random source.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{intN: rand.IntN}
}

// Next returns an id not yet present in taken. Short four digit references
// are tried first; a crowded history falls back to eight digits.
func (g *IDGenerator) Next(taken func(id string) bool) string {
	for attempt := 0; attempt < shortIDAttempts; attempt++ {
		id := fmt.Sprintf("%s%04d", idPrefix, g.intN(10000))
		if taken == nil || !taken(id) {
			return id
		}
	}
	for {
		id := fmt.Sprintf("%s%08d", idPrefix, g.intN(100000000))
		if !taken(id) {
			return id
		}
	}
}
