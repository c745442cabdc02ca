package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.New("match"), b.New("match"))
	}
}

func TestGeneratorPrefixAndUniqueness(t *testing.T) {
	g := NewUUIDGenerator()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := g.New("sched")
		assert.True(t, strings.HasPrefix(id, "sched-"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, g.New(""), 36)
}
