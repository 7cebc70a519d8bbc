package pool

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/game/score"
)

// Capacity is the maximum number of entries a session may hold, assigned and
// unassigned combined.
const Capacity = 6

// Error kinds for pool operations. Every operation either succeeds or fails
// with one of these; a rejected operation leaves the pool exactly as it was.
var (
	// ErrCapacityExceeded is returned when an add would push the total
	// entry count above Capacity.
	ErrCapacityExceeded = errors.New("pool: capacity of six entries reached")
	// ErrEntryNotFound is returned when an operation references an entry ID
	// that is not where the caller claimed it was.
	ErrEntryNotFound = errors.New("pool: entry not found")
	// ErrInvalidInput is returned for values that do not parse as integers
	// and for unknown slot names.
	ErrInvalidInput = errors.New("pool: invalid input")
)

// Snapshot is a point-in-time copy of the pool's two collections, handed to
// the render observer after each mutation. The entry pointers are shared
// (entries are immutable); the slice and map are fresh copies.
type Snapshot struct {
	Unassigned []*score.Entry
	Assigned   map[Slot]*score.Entry
}

// Pool holds a single session's stat-generation state.
//
// Invariant: every entry ID appears in exactly one of unassigned or assigned.
// Invariant: len(unassigned) + len(assigned) <= Capacity after every operation.
// All methods are safe for concurrent use.
type Pool struct {
	mu         sync.RWMutex
	unassigned []*score.Entry
	assigned   map[Slot]*score.Entry
	observer   func(Snapshot)
	logger     *zap.Logger
}

// New creates an empty Pool. A nil logger disables mutation logging.
func New(logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		assigned: make(map[Slot]*score.Entry, Capacity),
		logger:   logger,
	}
}

// SetObserver registers fn to be called with a fresh Snapshot after every
// successful mutation. The callback runs outside the pool's lock, so it may
// call read-only Pool methods but must not mutate the pool re-entrantly.
func (p *Pool) SetObserver(fn func(Snapshot)) {
	p.mu.Lock()
	p.observer = fn
	p.mu.Unlock()
}

// AddGenerated appends a rolled entry to the unassigned tray.
//
// Postcondition: entry is the last element of the tray, or ErrCapacityExceeded
// is returned with the pool unchanged.
func (p *Pool) AddGenerated(entry *score.Entry) error {
	p.mu.Lock()
	if p.totalLocked() >= Capacity {
		p.mu.Unlock()
		return ErrCapacityExceeded
	}
	p.unassigned = append(p.unassigned, entry)
	p.logger.Debug("entry added",
		zap.String("entry_id", entry.ID),
		zap.Int("sum", entry.Sum),
		zap.Ints("rolls", entry.Rolls),
	)
	p.notifyLocked()
	return nil
}

// AddManual creates a manual entry with the given sum and appends it to the
// unassigned tray. Any integer is accepted.
//
// Postcondition: returns the created entry, or ErrCapacityExceeded with the
// pool unchanged.
func (p *Pool) AddManual(sum int) (*score.Entry, error) {
	p.mu.Lock()
	if p.totalLocked() >= Capacity {
		p.mu.Unlock()
		return nil, ErrCapacityExceeded
	}
	entry := score.Manual(sum)
	p.unassigned = append(p.unassigned, entry)
	p.logger.Debug("manual entry added",
		zap.String("entry_id", entry.ID),
		zap.Int("sum", entry.Sum),
	)
	p.notifyLocked()
	return entry, nil
}

// ParseValue parses a hand-typed score value.
//
// Postcondition: returns the integer value, or an error wrapping
// ErrInvalidInput for non-numeric input.
func ParseValue(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, raw)
	}
	return v, nil
}

// RemoveFromSlot moves the entry in slot back to the end of the unassigned
// tray and clears the slot. Removing from an empty slot is a no-op.
//
// Postcondition: returns the displaced entry, or nil when the slot was empty.
func (p *Pool) RemoveFromSlot(slot Slot) (*score.Entry, error) {
	p.mu.Lock()
	if !validSlot(slot) {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, slot)
	}
	entry, ok := p.assigned[slot]
	if !ok {
		p.mu.Unlock()
		return nil, nil
	}
	delete(p.assigned, slot)
	p.unassigned = append(p.unassigned, entry)
	p.logger.Debug("entry unassigned",
		zap.String("entry_id", entry.ID),
		zap.String("slot", string(slot)),
	)
	p.notifyLocked()
	return entry, nil
}

// AssignToSlot moves the unassigned entry with the given ID into slot. If the
// slot is occupied the previous occupant is displaced to the end of the
// unassigned tray (swap semantics).
//
// Postcondition: on success the entry occupies slot and appears nowhere else;
// ErrEntryNotFound is returned if entryID is not in the unassigned tray.
func (p *Pool) AssignToSlot(entryID string, slot Slot) error {
	p.mu.Lock()
	if !validSlot(slot) {
		p.mu.Unlock()
		return fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, slot)
	}
	idx := -1
	for i, e := range p.unassigned {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s not in tray", ErrEntryNotFound, entryID)
	}

	entry := p.unassigned[idx]
	p.unassigned = append(p.unassigned[:idx], p.unassigned[idx+1:]...)
	if displaced, ok := p.assigned[slot]; ok {
		p.unassigned = append(p.unassigned, displaced)
		p.logger.Debug("entry displaced",
			zap.String("entry_id", displaced.ID),
			zap.String("slot", string(slot)),
		)
	}
	p.assigned[slot] = entry
	p.logger.Debug("entry assigned",
		zap.String("entry_id", entry.ID),
		zap.String("slot", string(slot)),
	)
	p.notifyLocked()
	return nil
}

// SwapSlots exchanges the entries in two slots. With exactly one side
// occupied this degrades to a directed move into the empty slot; this
// asymmetry is relied upon by the drop reconciler and must be preserved.
// Swapping a slot with itself, or two empty slots, is a no-op.
func (p *Pool) SwapSlots(a, b Slot) error {
	p.mu.Lock()
	if !validSlot(a) || !validSlot(b) {
		p.mu.Unlock()
		return fmt.Errorf("%w: unknown slot in swap %q/%q", ErrInvalidInput, a, b)
	}
	if a == b {
		p.mu.Unlock()
		return nil
	}
	ea, okA := p.assigned[a]
	eb, okB := p.assigned[b]
	if !okA && !okB {
		p.mu.Unlock()
		return nil
	}

	if okA {
		p.assigned[b] = ea
	} else {
		delete(p.assigned, b)
	}
	if okB {
		p.assigned[a] = eb
	} else {
		delete(p.assigned, a)
	}
	p.logger.Debug("slots swapped",
		zap.String("slot_a", string(a)),
		zap.String("slot_b", string(b)),
	)
	p.notifyLocked()
	return nil
}

// Reset clears both collections unconditionally.
//
// Postcondition: TotalCount() == 0.
func (p *Pool) Reset() {
	p.mu.Lock()
	p.unassigned = nil
	p.assigned = make(map[Slot]*score.Entry, Capacity)
	p.logger.Debug("pool reset")
	p.notifyLocked()
}

// TotalCount returns the number of entries in the session, assigned and
// unassigned combined.
func (p *Pool) TotalCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalLocked()
}

// Complete reports whether the tray is empty and all six slots are filled,
// the precondition for running the analysis engine.
func (p *Pool) Complete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.unassigned) == 0 && len(p.assigned) == Capacity
}

// Find returns the entry with the given ID wherever it lives.
//
// Postcondition: returns (entry, true) if the ID is in the tray or any slot.
func (p *Pool) Find(entryID string) (*score.Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.unassigned {
		if e.ID == entryID {
			return e, true
		}
	}
	for _, e := range p.assigned {
		if e.ID == entryID {
			return e, true
		}
	}
	return nil, false
}

// At returns the entry occupying slot, or nil.
func (p *Pool) At(slot Slot) *score.Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.assigned[slot]
}

// Snapshot returns a copy of the pool's current state.
func (p *Pool) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Pool) totalLocked() int {
	return len(p.unassigned) + len(p.assigned)
}

func (p *Pool) snapshotLocked() Snapshot {
	snap := Snapshot{
		Unassigned: make([]*score.Entry, len(p.unassigned)),
		Assigned:   make(map[Slot]*score.Entry, len(p.assigned)),
	}
	copy(snap.Unassigned, p.unassigned)
	for s, e := range p.assigned {
		snap.Assigned[s] = e
	}
	return snap
}

// notifyLocked snapshots under the held lock, releases it, and invokes the
// observer. Callers must hold p.mu and must not touch it afterwards.
func (p *Pool) notifyLocked() {
	observer := p.observer
	var snap Snapshot
	if observer != nil {
		snap = p.snapshotLocked()
	}
	p.mu.Unlock()
	if observer != nil {
		observer(snap)
	}
}
