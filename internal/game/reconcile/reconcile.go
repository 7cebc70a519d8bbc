// Package reconcile translates drag-and-drop gestures into pool operations.
// It is the single owner of drop semantics: frontends report where an entry
// came from and where it was dropped, and never encode the transfer rules
// themselves.
package reconcile

import (
	"errors"

	"github.com/cory-johannsen/statforge/internal/game/pool"
)

// Location is either the unassigned tray or a specific ability slot.
// The zero value is the tray.
type Location struct {
	slot pool.Slot
}

// Tray returns the tray location.
func Tray() Location {
	return Location{}
}

// At returns the location of the given slot.
func At(slot pool.Slot) Location {
	return Location{slot: slot}
}

// IsTray reports whether the location is the unassigned tray.
func (l Location) IsTray() bool {
	return l.slot == ""
}

// Slot returns the slot for a non-tray location.
//
// Precondition: !l.IsTray().
func (l Location) Slot() pool.Slot {
	return l.slot
}

// Drop describes a single drag-and-drop gesture.
type Drop struct {
	// EntryID identifies the entry being moved.
	EntryID string
	// From is where the drag started.
	From Location
	// To is where the entry was released.
	To Location
}

// Outcome describes the effect a Drop had on the pool.
type Outcome int

const (
	// OutcomeNone means the drop changed nothing (same-place drops and
	// stale entry IDs both land here).
	OutcomeNone Outcome = iota
	// OutcomeAssigned means the entry moved from the tray into a slot,
	// displacing any previous occupant back to the tray.
	OutcomeAssigned
	// OutcomeReturned means the entry moved from a slot back to the tray.
	OutcomeReturned
	// OutcomeMoved means the entry moved between two slots, swapping with
	// the target occupant if there was one.
	OutcomeMoved
)

// Apply executes the drop against p.
//
// The transition table:
//
//	tray  → tray       no-op
//	tray  → slot       assign (swap semantics when occupied)
//	slot  → tray       remove back to tray
//	slot  → same slot  no-op
//	slot  → other slot swap (directed move when the target is empty)
//
// A Drop whose EntryID is stale (no longer present at From) is a no-op,
// not an error; the user dragged a ghost and nothing should change.
//
// Postcondition: pool invariants hold; the returned error is non-nil only
// for malformed slot names.
func Apply(p *pool.Pool, d Drop) (Outcome, error) {
	switch {
	case d.From.IsTray() && d.To.IsTray():
		return OutcomeNone, nil

	case d.From.IsTray():
		err := p.AssignToSlot(d.EntryID, d.To.Slot())
		if err == nil {
			return OutcomeAssigned, nil
		}
		if errors.Is(err, pool.ErrEntryNotFound) {
			return OutcomeNone, nil
		}
		return OutcomeNone, err

	case d.To.IsTray():
		if occupant := p.At(d.From.Slot()); occupant == nil || occupant.ID != d.EntryID {
			return OutcomeNone, nil
		}
		removed, err := p.RemoveFromSlot(d.From.Slot())
		if err != nil {
			return OutcomeNone, err
		}
		if removed == nil {
			return OutcomeNone, nil
		}
		return OutcomeReturned, nil

	default:
		if d.From.Slot() == d.To.Slot() {
			return OutcomeNone, nil
		}
		if occupant := p.At(d.From.Slot()); occupant == nil || occupant.ID != d.EntryID {
			return OutcomeNone, nil
		}
		if err := p.SwapSlots(d.From.Slot(), d.To.Slot()); err != nil {
			return OutcomeNone, err
		}
		return OutcomeMoved, nil
	}
}
