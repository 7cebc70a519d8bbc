// Package score defines ability-score entries and the 4d6-drop-lowest
// generation method.
package score

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/statforge/internal/game/dice"
)

// RollCount is the number of dice rolled per ability score.
const RollCount = 4

// Sides is the number of faces on each die.
const Sides = 6

// Entry is a single ability-score result, generated by dice or entered
// manually. Entries are immutable after creation; the ID is stable for the
// entry's lifetime and is the only identity used for lookup.
type Entry struct {
	// ID is an opaque unique identifier allocated at creation.
	ID string
	// Rolls holds the four die values sorted ascending; empty for manual entries.
	Rolls []int
	// Sum is the ability score: the three highest dice for rolled entries,
	// or the caller-supplied value for manual entries.
	Sum int
	// Lowest is the die value excluded from Sum. Only meaningful when
	// Manual is false.
	Lowest int
	// Manual reports whether the entry was typed in rather than rolled.
	// It affects only how details are displayed, never scoring.
	Manual bool
}

// Roll generates a new entry using the 4d6-drop-lowest method: four
// independent d6 rolls, sorted ascending, with exactly one instance of the
// minimum discarded and the remaining three summed.
//
// Precondition: src must be non-nil.
// Postcondition: Sum is in [3, 18]; Lowest == min(Rolls); len(Rolls) == 4.
func Roll(src dice.Source) *Entry {
	rolls := dice.RollN(src, RollCount, Sides)
	sort.Ints(rolls)
	return &Entry{
		ID:     uuid.New().String(),
		Rolls:  rolls,
		Sum:    rolls[1] + rolls[2] + rolls[3],
		Lowest: rolls[0],
	}
}

// Manual creates an entry for a hand-typed score. Any integer is accepted;
// range enforcement is intentionally left to the caller's product rules.
//
// Postcondition: Rolls is empty; Manual is true; Sum == sum.
func Manual(sum int) *Entry {
	return &Entry{
		ID:     uuid.New().String(),
		Sum:    sum,
		Manual: true,
	}
}

// Die is one rolled die prepared for display.
type Die struct {
	Value     int
	Discarded bool
}

// Dice returns the four dice sorted descending with exactly one die marked
// as discarded (the first die equal to the minimum), so duplicate minimums
// keep all other copies. Returns nil for manual entries.
func (e *Entry) Dice() []Die {
	if e.Manual {
		return nil
	}
	values := make([]int, len(e.Rolls))
	copy(values, e.Rolls)
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	result := make([]Die, len(values))
	marked := false
	for i, v := range values {
		d := Die{Value: v}
		if v == e.Lowest && !marked {
			d.Discarded = true
			marked = true
		}
		result[i] = d
	}
	return result
}

// String returns a short audit string, e.g. "14 [6 5 3 (2)]" for rolled
// entries or "14 (manual)" for manual ones.
func (e *Entry) String() string {
	if e.Manual {
		return fmt.Sprintf("%d (manual)", e.Sum)
	}
	s := fmt.Sprintf("%d [", e.Sum)
	for i, d := range e.Dice() {
		if i > 0 {
			s += " "
		}
		if d.Discarded {
			s += fmt.Sprintf("(%d)", d.Value)
		} else {
			s += fmt.Sprintf("%d", d.Value)
		}
	}
	return s + "]"
}
