// Package dice provides the randomness abstraction used by the ability-score
// generator.
package dice

// Source is the randomness provider for die rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollN rolls count dice with the given number of sides using src and returns
// the individual results in roll order.
//
// Precondition: src must be non-nil; count >= 1; sides >= 2.
// Postcondition: len(result) == count; every value is in [1, sides].
func RollN(src Source, count, sides int) []int {
	if count < 1 {
		panic("dice: RollN called with count < 1")
	}
	if sides < 2 {
		panic("dice: RollN called with sides < 2")
	}
	rolled := make([]int, count)
	for i := range rolled {
		rolled[i] = src.Intn(sides) + 1
	}
	return rolled
}
