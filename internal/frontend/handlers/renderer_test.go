package handlers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/statforge/internal/frontend/command"
	"github.com/cory-johannsen/statforge/internal/frontend/handlers"
	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/analysis"
	"github.com/cory-johannsen/statforge/internal/game/pool"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/game/score"
)

func plainText(lines []string) string {
	return telnet.StripANSI(strings.Join(lines, "\n"))
}

func TestBoard_Empty(t *testing.T) {
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.Board(pool.Snapshot{}))

	assert.Contains(t, text, "STR Strength")
	assert.Contains(t, text, "CHA Charisma")
	assert.Contains(t, text, "(empty)")
	assert.Contains(t, text, "Rolls remaining: 6")
}

func TestBoard_AssignedAndTray(t *testing.T) {
	str, ok := pool.ParseSlot("str")
	require.True(t, ok)

	snap := pool.Snapshot{
		Unassigned: []*score.Entry{score.Manual(11)},
		Assigned:   map[pool.Slot]*score.Entry{str: score.Manual(16)},
	}
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.Board(snap))

	assert.Contains(t, text, "16 (+3)")
	assert.Contains(t, text, "1. 11 (manual)")
	assert.Contains(t, text, "Rolls remaining: 4")
}

func TestBoard_NegativeModifier(t *testing.T) {
	dex, ok := pool.ParseSlot("dex")
	require.True(t, ok)

	snap := pool.Snapshot{Assigned: map[pool.Slot]*score.Entry{dex: score.Manual(7)}}
	r := handlers.NewRenderer(ruleset.DefaultAbilities())

	assert.Contains(t, plainText(r.Board(snap)), "7 (-2)")
}

func TestDiceDetail_Rolled(t *testing.T) {
	entry := &score.Entry{ID: "x", Rolls: []int{2, 3, 5, 6}, Sum: 14, Lowest: 2}
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.DiceDetail(entry))

	assert.Contains(t, text, "Rolled 14")
	assert.Contains(t, text, "(2)", "discarded die shown in parens")
}

func TestDiceDetail_Manual(t *testing.T) {
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.DiceDetail(score.Manual(11)))

	assert.Contains(t, text, "11 (manual entry)")
}

func TestReport(t *testing.T) {
	rep := analysis.Report{TotalSum: 78, AvgSuccess: 52.5, TierID: "standard", Message: "A solid, dependable set."}
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.Report(rep))

	assert.Contains(t, text, "Total of all scores: 78")
	assert.Contains(t, text, "53%")
	assert.Contains(t, text, "A solid, dependable set.")
}

func TestHelp_ListsAllCommands(t *testing.T) {
	r := handlers.NewRenderer(ruleset.DefaultAbilities())
	text := plainText(r.Help(command.DefaultRegistry()))

	for _, cmd := range command.BuiltinCommands() {
		assert.Contains(t, text, cmd.Name)
		assert.Contains(t, text, cmd.Help)
	}
	assert.Contains(t, text, "Rolling:")
	assert.Contains(t, text, "System:")
}
