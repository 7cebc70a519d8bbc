package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/statforge/internal/game/dice"
	"github.com/cory-johannsen/statforge/internal/game/score"
)

// queueSource replays a scripted sequence of die faces (1-based values).
type queueSource struct {
	faces []int
	pos   int
}

func (q *queueSource) Intn(n int) int {
	v := q.faces[q.pos%len(q.faces)]
	q.pos++
	return (v - 1) % n
}

func TestRoll_DropsExactlyOneLowest(t *testing.T) {
	src := &queueSource{faces: []int{3, 6, 3, 5}}
	e := score.Roll(src)

	assert.Equal(t, 14, e.Sum, "sum must keep one of the duplicate 3s")
	assert.Equal(t, 3, e.Lowest)
	assert.Equal(t, []int{3, 3, 5, 6}, e.Rolls)
	assert.False(t, e.Manual)
	assert.NotEmpty(t, e.ID)
}

func TestRoll_SumInRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 500; i++ {
		e := score.Roll(src)
		assert.GreaterOrEqual(t, e.Sum, 3)
		assert.LessOrEqual(t, e.Sum, 18)
	}
}

func TestRoll_UniqueIDs(t *testing.T) {
	src := dice.NewCryptoSource()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e := score.Roll(src)
		require.False(t, seen[e.ID], "duplicate entry ID %s", e.ID)
		seen[e.ID] = true
	}
}

// Property: Lowest equals the minimum of the four rolls and Sum equals the
// total of the four rolls minus the minimum.
func TestRoll_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		faces := rapid.SliceOfN(rapid.IntRange(1, 6), 4, 4).Draw(rt, "faces")
		e := score.Roll(&queueSource{faces: faces})

		min, total := faces[0], 0
		for _, f := range faces {
			if f < min {
				min = f
			}
			total += f
		}
		if e.Lowest != min {
			rt.Fatalf("Lowest = %d, want %d", e.Lowest, min)
		}
		if e.Sum != total-min {
			rt.Fatalf("Sum = %d, want %d", e.Sum, total-min)
		}
	})
}

func TestManual_Entry(t *testing.T) {
	e := score.Manual(15)
	assert.Equal(t, 15, e.Sum)
	assert.True(t, e.Manual)
	assert.Empty(t, e.Rolls)
	assert.Nil(t, e.Dice())
	assert.NotEmpty(t, e.ID)
}

func TestDice_DescendingWithSingleDiscard(t *testing.T) {
	src := &queueSource{faces: []int{2, 2, 6, 4}}
	e := score.Roll(src)

	d := e.Dice()
	require.Len(t, d, 4)
	assert.Equal(t, []score.Die{
		{Value: 6}, {Value: 4}, {Value: 2, Discarded: true}, {Value: 2},
	}, d, "exactly the first minimum in descending order is discarded")
}

func TestDice_AllEqual(t *testing.T) {
	src := &queueSource{faces: []int{5, 5, 5, 5}}
	e := score.Roll(src)

	assert.Equal(t, 15, e.Sum)
	discarded := 0
	for _, d := range e.Dice() {
		if d.Discarded {
			discarded++
		}
	}
	assert.Equal(t, 1, discarded, "all-equal rolls must still discard exactly one die")
}

func TestString_Formats(t *testing.T) {
	src := &queueSource{faces: []int{2, 6, 5, 3}}
	e := score.Roll(src)
	assert.Equal(t, "14 [6 5 3 (2)]", e.String())

	m := score.Manual(11)
	assert.Equal(t, "11 (manual)", m.String())
}
