package command

import (
	"fmt"
	"sort"
)

// categoryOrder fixes the display order of categories in help output.
var categoryOrder = map[string]int{
	CategoryRolling:    0,
	CategoryAssignment: 1,
	CategoryView:       2,
	CategorySystem:     3,
}

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
	ordered  []*Command          // registration order
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.ordered = append(r.ordered, cmd)

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(name string) (*Command, bool) {
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, len(r.ordered))
	copy(result, r.ordered)
	return result
}

// CommandsByCategory returns commands grouped by category, with categories
// sorted in display order and commands in registration order within each.
func (r *Registry) CommandsByCategory() []CategoryGroup {
	byCategory := make(map[string][]*Command)
	for _, cmd := range r.ordered {
		byCategory[cmd.Category] = append(byCategory[cmd.Category], cmd)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for category, cmds := range byCategory {
		groups = append(groups, CategoryGroup{Category: category, Commands: cmds})
	}
	sort.Slice(groups, func(i, j int) bool {
		return categoryOrder[groups[i].Category] < categoryOrder[groups[j].Category]
	})
	return groups
}

// CategoryGroup holds the commands belonging to one category.
type CategoryGroup struct {
	Category string
	Commands []*Command
}
