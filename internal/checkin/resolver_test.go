package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve_Substring(t *testing.T) {
	r := NewRegistry(1)
	seedRoster(r, "Emily Davis", "John Smith")
	resolver := NewResolver(r)

	match, ok := resolver.Resolve("Emily")
	require.True(t, ok)
	assert.Equal(t, "Emily Davis", match.Name)

	match, ok = resolver.Resolve("smith")
	require.True(t, ok)
	assert.Equal(t, "John Smith", match.Name)

	_, ok = resolver.Resolve("Zephyr Q. Nobody")
	assert.False(t, ok)

	_, ok = resolver.Resolve("   ")
	assert.False(t, ok)
}

func TestResolver_Resolve_ExactBeatsSubstring(t *testing.T) {
	r := NewRegistry(1)
	seedRoster(r, "Emily Davis", "Emily")
	resolver := NewResolver(r)

	match, ok := resolver.Resolve("emily")
	require.True(t, ok)
	assert.Equal(t, "Emily", match.Name)
}

func TestResolver_Resolve_RecencyBreaksTies(t *testing.T) {
	r := NewRegistry(1)
	seedRoster(r, "Emily Davis", "Emily Park")
	resolver := NewResolver(r)

	// Both are substring matches; the most recently added record wins.
	match, ok := resolver.Resolve("Emily")
	require.True(t, ok)
	assert.Equal(t, "Emily Park", match.Name)
}

func TestResolver_Resolve_Deterministic(t *testing.T) {
	r := NewRegistry(1)
	seedRoster(r, "Emily Davis", "Emily Park", "Emily")
	resolver := NewResolver(r)

	first, ok := resolver.Resolve("Emily")
	require.True(t, ok)

	for i := 0; i < 10; i++ {
		again, ok := resolver.Resolve("Emily")
		require.True(t, ok)
		assert.Equal(t, first.ID, again.ID)
	}
}
