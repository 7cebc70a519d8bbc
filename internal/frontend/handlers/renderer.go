package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/statforge/internal/frontend/command"
	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/analysis"
	"github.com/cory-johannsen/statforge/internal/game/pool"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/game/score"
)

// Renderer formats session state as lines of styled text for a Telnet client.
type Renderer struct {
	abilities []*ruleset.Ability
	nameWidth int
}

// NewRenderer creates a Renderer for the given ability set.
//
// Precondition: abilities passed ValidateAbilities.
func NewRenderer(abilities []*ruleset.Ability) *Renderer {
	width := 0
	for _, a := range abilities {
		if len(a.Name) > width {
			width = len(a.Name)
		}
	}
	return &Renderer{abilities: abilities, nameWidth: width}
}

// Welcome returns the session banner.
func (r *Renderer) Welcome() []string {
	return []string{
		telnet.Colorize(telnet.Bold+telnet.BrightCyan, "StatForge"),
		"Roll six ability scores (4d6, drop the lowest) and assign them as you like.",
		"Type 'help' for commands.",
		"",
	}
}

// Board renders the ability board and the unassigned score tray.
func (r *Renderer) Board(snap pool.Snapshot) []string {
	lines := []string{telnet.Colorize(telnet.Bold, "=== Abilities ===")}

	for _, a := range r.abilities {
		label := fmt.Sprintf("%s %-*s", telnet.Colorize(telnet.BrightCyan, a.Abbrev), r.nameWidth, a.Name)
		entry := snap.Assigned[a.Slot()]
		if entry == nil {
			lines = append(lines, fmt.Sprintf(" %s  %s", label, telnet.Colorize(telnet.Dim, "--")))
			continue
		}
		mod := analysis.Modifier(entry.Sum)
		lines = append(lines, fmt.Sprintf(" %s  %s (%s)",
			label,
			telnet.Colorf(telnet.BrightWhite, "%2d", entry.Sum),
			fmtMod(mod),
		))
	}

	lines = append(lines, telnet.Colorize(telnet.Bold, "=== Unassigned ==="))
	if len(snap.Unassigned) == 0 {
		lines = append(lines, telnet.Colorize(telnet.Dim, " (empty)"))
	} else {
		for i, e := range snap.Unassigned {
			lines = append(lines, fmt.Sprintf(" %d. %s", i+1, e.String()))
		}
	}

	total := len(snap.Unassigned) + len(snap.Assigned)
	if total < pool.Capacity {
		lines = append(lines, telnet.Colorf(telnet.Dim, "Rolls remaining: %d", pool.Capacity-total))
	}
	return lines
}

// DiceDetail renders the individual dice behind an entry.
func (r *Renderer) DiceDetail(e *score.Entry) []string {
	if e.Manual {
		return []string{fmt.Sprintf("%s (manual entry)", telnet.Colorf(telnet.BrightWhite, "%d", e.Sum))}
	}

	parts := make([]string, 0, score.RollCount)
	for _, d := range e.Dice() {
		if d.Discarded {
			parts = append(parts, telnet.Colorf(telnet.Dim, "(%d)", d.Value))
		} else {
			parts = append(parts, telnet.Colorf(telnet.BrightGreen, "%d", d.Value))
		}
	}
	return []string{fmt.Sprintf("Rolled %s: %s",
		telnet.Colorf(telnet.BrightWhite, "%d", e.Sum),
		strings.Join(parts, " "),
	)}
}

// Report renders the analysis of a completed score set.
func (r *Renderer) Report(rep analysis.Report) []string {
	return []string{
		telnet.Colorize(telnet.Bold, "=== Analysis ==="),
		fmt.Sprintf("Total of all scores: %s", telnet.Colorf(telnet.BrightWhite, "%d", rep.TotalSum)),
		fmt.Sprintf("Average success chance on a moderate check: %s",
			telnet.Colorf(telnet.BrightWhite, "%d%%", rep.AvgSuccessDisplay())),
		telnet.Colorize(tierColor(rep.TierID), rep.Message),
	}
}

// Help renders the command reference grouped by category.
func (r *Renderer) Help(reg *command.Registry) []string {
	lines := []string{telnet.Colorize(telnet.Bold, "=== Commands ===")}
	for _, group := range reg.CommandsByCategory() {
		lines = append(lines, telnet.Colorize(telnet.BrightCyan, capitalize(group.Category)+":"))
		for _, cmd := range group.Commands {
			invocation := cmd.Name
			if cmd.Usage != "" {
				invocation = cmd.Usage
			}
			if len(cmd.Aliases) > 0 {
				invocation += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			lines = append(lines, fmt.Sprintf("  %-34s %s", invocation, cmd.Help))
		}
	}
	return lines
}

// fmtMod formats a modifier with an explicit sign.
func fmtMod(m int) string {
	if m >= 0 {
		return fmt.Sprintf("+%d", m)
	}
	return fmt.Sprintf("%d", m)
}

// tierColor maps recommendation tiers to display colors.
func tierColor(tierID string) string {
	switch tierID {
	case "heroic":
		return telnet.BrightGreen
	case "strong":
		return telnet.Green
	case "standard":
		return telnet.Cyan
	case "challenging":
		return telnet.Yellow
	case "low":
		return telnet.Red
	default:
		return telnet.BrightWhite
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
