package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/statforge/internal/game/dice"
)

// fixedSource returns a constant value, for deterministic RollN checks.
type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int { return f.v % n }

func TestRollN_CountAndRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 200; i++ {
		rolls := dice.RollN(src, 4, 6)
		assert.Len(t, rolls, 4)
		for _, r := range rolls {
			assert.GreaterOrEqual(t, r, 1)
			assert.LessOrEqual(t, r, 6)
		}
	}
}

func TestRollN_UsesSource(t *testing.T) {
	rolls := dice.RollN(fixedSource{v: 3}, 4, 6)
	assert.Equal(t, []int{4, 4, 4, 4}, rolls)
}

func TestRollN_PanicsOnBadArgs(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { dice.RollN(src, 0, 6) })
	assert.Panics(t, func() { dice.RollN(src, 4, 1) })
}

// Property: RollN always returns count values in [1, sides] for any valid shape.
func TestRollN_Property(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		rolls := dice.RollN(src, count, sides)
		if len(rolls) != count {
			rt.Fatalf("got %d rolls, want %d", len(rolls), count)
		}
		for _, r := range rolls {
			if r < 1 || r > sides {
				rt.Fatalf("roll %d out of range [1, %d]", r, sides)
			}
		}
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}
