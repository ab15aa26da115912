package catering

import (
	"fmt"
	"strconv"
	"sync"
)

// IDFloor is the value every counter starts from; the first issued id is IDFloor+1.
const IDFloor = 1000

// Kind identifies an entity family. Its value is the id prefix.
type Kind string

const (
	KindMenu    Kind = "M"
	KindSection Kind = "S"
	KindItem    Kind = "I"
	KindRecipe  Kind = "R"
	KindEvent   Kind = "E"
	KindClient  Kind = "C"
)

// IDGenerator hands out monotonically increasing ids per kind.
// Counters live in memory only and restart at IDFloor with the process.
type IDGenerator struct {
	mu       sync.Mutex
	counters map[Kind]uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		counters: make(map[Kind]uint64),
	}
}

// Next returns the next id for kind, formatted as <prefix><counter>.
func (g *IDGenerator) Next(kind Kind) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.counters[kind]
	if !ok {
		n = IDFloor
	}
	n++
	g.counters[kind] = n
	return fmt.Sprintf("%s%d", kind, n)
}

// Counter extracts the numeric part of an id issued for kind.
func Counter(kind Kind, id string) (uint64, error) {
	prefix := string(kind)
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0, fmt.Errorf("%w: id %q does not have prefix %q", ErrInvalidInput, id, prefix)
	}
	n, err := strconv.ParseUint(id[len(prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q: %v", ErrInvalidInput, id, err)
	}
	return n, nil
}
