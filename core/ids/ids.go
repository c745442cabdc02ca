// Package ids generates record identifiers. Generators draw their randomness
// from an injectable reader so that tests can produce stable ids.
package ids

import (
	"io"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a new unique identifier carrying the given prefix.
type Generator interface {
	New(prefix string) string
}

// UUIDGenerator produces prefixed version 4 UUIDs.
type UUIDGenerator struct {
	mu  sync.Mutex
	src io.Reader
}

// NewUUIDGenerator uses crypto-grade randomness from the uuid package.
func NewUUIDGenerator() *UUIDGenerator { return &UUIDGenerator{} }

// NewSeeded returns a generator whose sequence is fully determined by seed.
func NewSeeded(seed int64) *UUIDGenerator {
	return &UUIDGenerator{src: rand.New(rand.NewSource(seed))}
}

// New implements Generator.
func (g *UUIDGenerator) New(prefix string) string {
	var id uuid.UUID
	if g.src == nil {
		id = uuid.New()
	} else {
		g.mu.Lock()
		var err error
		id, err = uuid.NewRandomFromReader(g.src)
		g.mu.Unlock()
		if err != nil {
			id = uuid.New()
		}
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "-" + id.String()
}
