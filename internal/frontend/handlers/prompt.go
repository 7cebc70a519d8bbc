// Package handlers implements the interactive stat-generation session that
// runs over a Telnet connection.
package handlers

import (
	"errors"
	"strings"

	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/pool"
)

// cancelWord aborts any interactive prompt.
const cancelWord = "cancel"

// Prompter runs small interactive prompts inside a session. Every prompt can
// be aborted by typing "cancel"; an aborted prompt leaves all previously
// committed state untouched.
type Prompter struct {
	conn *telnet.Conn
}

// NewPrompter creates a Prompter bound to the given connection.
func NewPrompter(conn *telnet.Conn) *Prompter {
	return &Prompter{conn: conn}
}

// Int prompts until the client enters an integer or cancels.
//
// Postcondition: returns (value, true, nil) on valid input, (0, false, nil)
// on cancel, or a non-nil error on connection failure.
func (p *Prompter) Int(prompt string) (int, bool, error) {
	for {
		if err := p.conn.WritePrompt(prompt); err != nil {
			return 0, false, err
		}
		line, err := p.conn.ReadLine()
		if err != nil {
			return 0, false, err
		}
		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, cancelWord) {
			return 0, false, nil
		}
		v, perr := pool.ParseValue(trimmed)
		if perr != nil {
			if errors.Is(perr, pool.ErrInvalidInput) {
				msg := telnet.Colorize(telnet.Yellow, "That is not a number. Enter an integer or 'cancel'.")
				if err := p.conn.WriteLine(msg); err != nil {
					return 0, false, err
				}
				continue
			}
			return 0, false, perr
		}
		return v, true, nil
	}
}

// Confirm asks a yes/no question. Empty input and anything other than
// y/yes counts as no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	if err := p.conn.WritePrompt(prompt); err != nil {
		return false, err
	}
	line, err := p.conn.ReadLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
