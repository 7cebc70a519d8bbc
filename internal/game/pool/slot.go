// Package pool owns the stat-generation session state: the tray of unassigned
// ability-score entries and the six named ability slots.
package pool

import "strings"

// Slot is one of the six fixed ability slot identifiers.
type Slot string

const (
	SlotStrength     Slot = "strength"
	SlotDexterity    Slot = "dexterity"
	SlotConstitution Slot = "constitution"
	SlotIntelligence Slot = "intelligence"
	SlotWisdom       Slot = "wisdom"
	SlotCharisma     Slot = "charisma"
)

// slotOrder is the canonical display order of the six slots.
var slotOrder = []Slot{
	SlotStrength,
	SlotDexterity,
	SlotConstitution,
	SlotIntelligence,
	SlotWisdom,
	SlotCharisma,
}

// slotAliases maps the conventional three-letter abbreviations to slots.
var slotAliases = map[string]Slot{
	"str": SlotStrength,
	"dex": SlotDexterity,
	"con": SlotConstitution,
	"int": SlotIntelligence,
	"wis": SlotWisdom,
	"cha": SlotCharisma,
}

// Slots returns the six slots in canonical order.
//
// Postcondition: the returned slice is a fresh copy; callers may mutate it.
func Slots() []Slot {
	out := make([]Slot, len(slotOrder))
	copy(out, slotOrder)
	return out
}

// ParseSlot resolves a user-typed slot name or abbreviation (case-insensitive)
// to a Slot.
//
// Postcondition: returns (slot, true) for a known name, or ("", false).
func ParseSlot(name string) (Slot, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if s, ok := slotAliases[lower]; ok {
		return s, true
	}
	for _, s := range slotOrder {
		if string(s) == lower {
			return s, true
		}
	}
	return "", false
}

// validSlot reports whether s is one of the six fixed slots.
func validSlot(s Slot) bool {
	for _, known := range slotOrder {
		if s == known {
			return true
		}
	}
	return false
}
