package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/statforge/internal/game/pool"
	"github.com/cory-johannsen/statforge/internal/game/reconcile"
)

func seeded(t *testing.T, sums ...int) (*pool.Pool, []string) {
	t.Helper()
	p := pool.New(nil)
	ids := make([]string, 0, len(sums))
	for _, s := range sums {
		e, err := p.AddManual(s)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	return p, ids
}

func TestApply_TrayToTray_NoOp(t *testing.T) {
	p, ids := seeded(t, 12)
	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.Tray(),
		To:      reconcile.Tray(),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeNone, out)
	assert.Equal(t, 1, p.TotalCount())
}

func TestApply_TrayToEmptySlot(t *testing.T) {
	p, ids := seeded(t, 12)
	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.Tray(),
		To:      reconcile.At(pool.SlotStrength),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeAssigned, out)
	assert.Equal(t, ids[0], p.At(pool.SlotStrength).ID)
}

// Scenario from the drop table: dragging a tray entry onto an occupied slot
// swaps: the occupant returns to the tray.
func TestApply_TrayToOccupiedSlot_Swaps(t *testing.T) {
	p, ids := seeded(t, 14, 10)
	_, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0], From: reconcile.Tray(), To: reconcile.At(pool.SlotStrength),
	})
	require.NoError(t, err)

	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[1], From: reconcile.Tray(), To: reconcile.At(pool.SlotStrength),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeAssigned, out)

	assert.Equal(t, ids[1], p.At(pool.SlotStrength).ID, "strength now holds the 10")
	snap := p.Snapshot()
	require.Len(t, snap.Unassigned, 1)
	assert.Equal(t, ids[0], snap.Unassigned[0].ID, "the 14 is back in the tray")
}

func TestApply_SlotToTray_Removes(t *testing.T) {
	p, ids := seeded(t, 12)
	require.NoError(t, p.AssignToSlot(ids[0], pool.SlotWisdom))

	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.At(pool.SlotWisdom),
		To:      reconcile.Tray(),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeReturned, out)
	assert.Nil(t, p.At(pool.SlotWisdom))
	assert.Len(t, p.Snapshot().Unassigned, 1)
}

func TestApply_SameSlot_NoOp(t *testing.T) {
	p, ids := seeded(t, 12)
	require.NoError(t, p.AssignToSlot(ids[0], pool.SlotWisdom))

	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.At(pool.SlotWisdom),
		To:      reconcile.At(pool.SlotWisdom),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeNone, out)
	assert.Equal(t, ids[0], p.At(pool.SlotWisdom).ID)
}

func TestApply_SlotToSlot_SwapsOccupants(t *testing.T) {
	p, ids := seeded(t, 16, 8)
	require.NoError(t, p.AssignToSlot(ids[0], pool.SlotStrength))
	require.NoError(t, p.AssignToSlot(ids[1], pool.SlotDexterity))

	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.At(pool.SlotStrength),
		To:      reconcile.At(pool.SlotDexterity),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeMoved, out)
	assert.Equal(t, ids[1], p.At(pool.SlotStrength).ID)
	assert.Equal(t, ids[0], p.At(pool.SlotDexterity).ID)
}

func TestApply_SlotToEmptySlot_DirectedMove(t *testing.T) {
	p, ids := seeded(t, 16)
	require.NoError(t, p.AssignToSlot(ids[0], pool.SlotStrength))

	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[0],
		From:    reconcile.At(pool.SlotStrength),
		To:      reconcile.At(pool.SlotCharisma),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeMoved, out)
	assert.Nil(t, p.At(pool.SlotStrength))
	assert.Equal(t, ids[0], p.At(pool.SlotCharisma).ID)
}

func TestApply_StaleEntryID_IsNoOp(t *testing.T) {
	p, _ := seeded(t, 12)
	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: "stale-id",
		From:    reconcile.Tray(),
		To:      reconcile.At(pool.SlotStrength),
	})
	require.NoError(t, err, "stale drops are silent no-ops, not failures")
	assert.Equal(t, reconcile.OutcomeNone, out)
	assert.Equal(t, 1, p.TotalCount())
	assert.Nil(t, p.At(pool.SlotStrength))
}

func TestApply_StaleSlotOrigin_IsNoOp(t *testing.T) {
	p, ids := seeded(t, 12, 9)
	require.NoError(t, p.AssignToSlot(ids[0], pool.SlotStrength))

	// Claimed origin slot holds a different entry than the drag payload says.
	out, err := reconcile.Apply(p, reconcile.Drop{
		EntryID: ids[1],
		From:    reconcile.At(pool.SlotStrength),
		To:      reconcile.Tray(),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeNone, out)
	assert.Equal(t, ids[0], p.At(pool.SlotStrength).ID)
}
