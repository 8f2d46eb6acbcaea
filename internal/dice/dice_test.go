package dice

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollStaysInRange(t *testing.T) {
	roller := New(&Config{Seed: 42})
	seen := make(map[int]bool)
	for i := 0; i < 600; i++ {
		v := roller.Roll(6)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestRollDefaultsToSixSides(t *testing.T) {
	roller := New(nil)
	for i := 0; i < 100; i++ {
		v := roller.Roll(0)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	roller := New(&Config{Seed: 7})
	items := []int{1, 2, 3, 4, 5, 6}
	roller.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	sorted := append([]int(nil), items...)
	sort.Ints(sorted)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, sorted)
}

func TestSameSeedSameRolls(t *testing.T) {
	a := New(&Config{Seed: 99})
	b := New(&Config{Seed: 99})
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Roll(6), b.Roll(6))
	}
}
