package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := NewKey("coins", "1", "10", "usd")
		b := NewKey("coins", "1", "10", "usd")
		require.Equal(t, a.String(), b.String())
	})

	t.Run("parameter order matters", func(t *testing.T) {
		a := NewKey("coins", "1", "10")
		b := NewKey("coins", "10", "1")
		assert.NotEqual(t, a.String(), b.String())
	})

	t.Run("no collisions from joined digits", func(t *testing.T) {
		// naive concatenation would render both as "coins-1-10usd"
		a := NewKey("coins", "1", "10", "usd")
		b := NewKey("coins", "1", "1", "0usd")
		assert.NotEqual(t, a.String(), b.String())
	})

	t.Run("resource is part of the key", func(t *testing.T) {
		a := NewKey("coins", "bitcoin")
		b := NewKey("chart", "bitcoin")
		assert.NotEqual(t, a.String(), b.String())
	})
}
