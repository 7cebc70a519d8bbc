// Package command provides the command parser, registry, and built-in
// command definitions for stat generation sessions.
package command

// Categories for organizing commands in help output.
const (
	CategoryRolling    = "rolling"
	CategoryAssignment = "assignment"
	CategoryView       = "view"
	CategorySystem     = "system"
)

// Command defines a session-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, or empty if the command takes none.
	Usage string
	// Help is the short help text displayed to the client.
	Help string
	// Category groups the command for help output.
	Category string
}

// BuiltinCommands returns all built-in commands for a session.
func BuiltinCommands() []Command {
	return []Command{
		// Rolling commands
		{Name: "roll", Aliases: []string{"r"}, Help: "Roll 4d6 and keep the best three", Category: CategoryRolling},
		{Name: "rollall", Aliases: []string{"ra"}, Help: "Roll until six scores exist", Category: CategoryRolling},
		{Name: "add", Aliases: []string{"a"}, Usage: "add <value>", Help: "Add a score with a value you choose", Category: CategoryRolling},

		// Assignment commands
		{Name: "assign", Aliases: []string{"as"}, Usage: "assign <score> <ability>", Help: "Place an unassigned score on an ability", Category: CategoryAssignment},
		{Name: "drop", Aliases: nil, Usage: "drop <ability>", Help: "Return an assigned score to the tray", Category: CategoryAssignment},
		{Name: "swap", Aliases: []string{"sw"}, Usage: "swap <ability> <ability>", Help: "Exchange the scores of two abilities", Category: CategoryAssignment},
		{Name: "reset", Aliases: nil, Help: "Discard all scores and start over", Category: CategoryAssignment},

		// View commands
		{Name: "board", Aliases: []string{"b", "look", "l"}, Help: "Show the ability board and score tray", Category: CategoryView},
		{Name: "show", Aliases: []string{"sh"}, Usage: "show <score|ability>", Help: "Show the dice behind a score", Category: CategoryView},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "End the session", Category: CategorySystem},
	}
}
