package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/config"
	"github.com/cory-johannsen/statforge/internal/frontend/command"
	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/analysis"
	"github.com/cory-johannsen/statforge/internal/game/dice"
	"github.com/cory-johannsen/statforge/internal/game/pool"
	"github.com/cory-johannsen/statforge/internal/game/reconcile"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/game/score"
)

// StatHandler runs stat-generation sessions. It is safe for concurrent use;
// each connection gets its own private pool and never sees another client's
// scores.
type StatHandler struct {
	game      config.GameConfig
	abilities []*ruleset.Ability
	engine    *analysis.Engine
	src       dice.Source
	registry  *command.Registry
	logger    *zap.Logger
}

// NewStatHandler creates a session handler.
//
// Precondition: abilities passed ValidateAbilities; engine and src are non-nil.
// A nil logger disables logging.
func NewStatHandler(game config.GameConfig, abilities []*ruleset.Ability, engine *analysis.Engine, src dice.Source, logger *zap.Logger) *StatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatHandler{
		game:      game,
		abilities: abilities,
		engine:    engine,
		src:       src,
		registry:  command.DefaultRegistry(),
		logger:    logger,
	}
}

// session holds the per-connection state of one client.
type session struct {
	*StatHandler
	conn   *telnet.Conn
	prompt *Prompter
	render *Renderer
	pool   *pool.Pool

	// dirty is set by the pool observer whenever a mutation lands, and
	// drives a board redraw after the command finishes.
	dirty bool
	// busy marks a multi-step flow in progress; roll-initiating commands
	// are silent no-ops while it is set.
	busy bool
}

// HandleSession runs the command loop for a single connection until the
// client quits, the connection drops, or ctx is cancelled.
func (h *StatHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	s := &session{
		StatHandler: h,
		conn:        conn,
		prompt:      NewPrompter(conn),
		render:      NewRenderer(h.abilities),
		pool:        pool.New(h.logger),
	}
	s.pool.SetObserver(func(pool.Snapshot) { s.dirty = true })

	if err := s.writeLines(s.render.Welcome()); err != nil {
		return err
	}
	if err := s.writeLines(s.render.Board(s.pool.Snapshot())); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightCyan, "> ")); err != nil {
			return err
		}
		line, err := conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		parsed := command.Parse(line)
		if parsed.Command == "" {
			continue
		}
		cmd, ok := h.registry.Resolve(parsed.Command)
		if !ok {
			msg := telnet.Colorf(telnet.Yellow, "Unknown command %q. Type 'help' for a list.", parsed.Command)
			if err := conn.WriteLine(msg); err != nil {
				return err
			}
			continue
		}

		s.dirty = false
		quit, err := s.dispatch(ctx, cmd, parsed.Args)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if s.dirty {
			if err := s.writeLines(s.render.Board(s.pool.Snapshot())); err != nil {
				return err
			}
			if s.pool.Complete() {
				if err := s.showAnalysis(ctx); err != nil {
					return err
				}
			}
		}
	}
}

// dispatch routes a resolved command to its handler. The returned bool is
// true when the session should end.
func (s *session) dispatch(ctx context.Context, cmd *command.Command, args []string) (bool, error) {
	switch cmd.Name {
	case "roll":
		return false, s.cmdRoll(ctx)
	case "rollall":
		return false, s.cmdRollAll(ctx)
	case "add":
		return false, s.cmdAdd(args)
	case "assign":
		return false, s.cmdAssign(args)
	case "drop":
		return false, s.cmdDrop(args)
	case "swap":
		return false, s.cmdSwap(args)
	case "reset":
		return false, s.cmdReset()
	case "board":
		return false, s.writeLines(s.render.Board(s.pool.Snapshot()))
	case "show":
		return false, s.cmdShow(args)
	case "help":
		return false, s.writeLines(s.render.Help(s.registry))
	case "quit":
		return true, s.conn.WriteLine("Goodbye.")
	default:
		return false, s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Command %q is not implemented.", cmd.Name))
	}
}

// cmdRoll performs one roll. Once all six scores exist the command turns
// into the reset flow, matching the roll control relabeling itself once the
// set is full.
func (s *session) cmdRoll(ctx context.Context) error {
	if s.busy {
		return nil
	}
	s.busy = true
	defer func() { s.busy = false }()

	if s.pool.TotalCount() >= pool.Capacity {
		if err := s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "All six scores already exist.")); err != nil {
			return err
		}
		_, err := s.confirmReset()
		return err
	}
	return s.rollOne(ctx)
}

// cmdRollAll fills the set up to six scores. When the set is already full it
// offers to start over with six fresh rolls.
func (s *session) cmdRollAll(ctx context.Context) error {
	if s.busy {
		return nil
	}
	s.busy = true
	defer func() { s.busy = false }()

	if s.pool.TotalCount() >= pool.Capacity {
		reset, err := s.confirmReset()
		if err != nil || !reset {
			return err
		}
	}
	for s.pool.TotalCount() < pool.Capacity {
		if err := s.rollOne(ctx); err != nil {
			return err
		}
	}
	return nil
}

// rollOne performs a single 4d6-drop-lowest roll with the configured
// presentation delay.
func (s *session) rollOne(ctx context.Context) error {
	if err := s.conn.WriteLine(telnet.Colorize(telnet.Dim, "Rolling 4d6...")); err != nil {
		return err
	}
	if err := sleepCtx(ctx, s.game.RollDelay); err != nil {
		return err
	}

	entry := score.Roll(s.src)
	if err := s.pool.AddGenerated(entry); err != nil {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%v", err))
	}
	return s.writeLines(s.render.DiceDetail(entry))
}

// cmdAdd adds manual scores. With an argument it adds once; without one it
// keeps prompting until the set is full or the client cancels. Cancelling
// keeps every value already committed.
func (s *session) cmdAdd(args []string) error {
	if s.busy {
		return nil
	}
	s.busy = true
	defer func() { s.busy = false }()

	if s.pool.TotalCount() >= pool.Capacity {
		return s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "All six scores already exist."))
	}

	if len(args) > 0 {
		v, err := pool.ParseValue(args[0])
		if err != nil {
			return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%q is not a number.", args[0]))
		}
		return s.addManual(v)
	}

	for {
		v, ok, err := s.prompt.Int("Score value (or 'cancel'): ")
		if err != nil {
			return err
		}
		if !ok {
			return s.conn.WriteLine("Cancelled.")
		}
		if err := s.addManual(v); err != nil {
			return err
		}
		if s.pool.TotalCount() >= pool.Capacity {
			return nil
		}
	}
}

func (s *session) addManual(value int) error {
	entry, err := s.pool.AddManual(value)
	if err != nil {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%v", err))
	}
	return s.conn.WriteLine(fmt.Sprintf("Added %s to the tray.", entry.String()))
}

func (s *session) cmdAssign(args []string) error {
	if len(args) != 2 {
		return s.usage("assign <score> <ability>")
	}
	entry, errMsg := s.resolveTrayRef(args[0])
	if entry == nil {
		return s.conn.WriteLine(telnet.Colorize(telnet.Yellow, errMsg))
	}
	slot, ok := pool.ParseSlot(args[1])
	if !ok {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Unknown ability %q.", args[1]))
	}

	displaced := s.pool.At(slot)
	outcome, err := reconcile.Apply(s.pool, reconcile.Drop{
		EntryID: entry.ID,
		From:    reconcile.Tray(),
		To:      reconcile.At(slot),
	})
	if err != nil {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%v", err))
	}
	if outcome != reconcile.OutcomeAssigned {
		return s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "That score is no longer in the tray."))
	}

	msg := fmt.Sprintf("Assigned %d to %s.", entry.Sum, s.abilityName(slot))
	if displaced != nil {
		msg += fmt.Sprintf(" %d returned to the tray.", displaced.Sum)
	}
	return s.conn.WriteLine(msg)
}

func (s *session) cmdDrop(args []string) error {
	if len(args) != 1 {
		return s.usage("drop <ability>")
	}
	slot, ok := pool.ParseSlot(args[0])
	if !ok {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Unknown ability %q.", args[0]))
	}
	occupant := s.pool.At(slot)
	if occupant == nil {
		return s.conn.WriteLine(fmt.Sprintf("%s has no score.", s.abilityName(slot)))
	}

	outcome, err := reconcile.Apply(s.pool, reconcile.Drop{
		EntryID: occupant.ID,
		From:    reconcile.At(slot),
		To:      reconcile.Tray(),
	})
	if err != nil {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%v", err))
	}
	if outcome != reconcile.OutcomeReturned {
		return s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Nothing changed."))
	}
	return s.conn.WriteLine(fmt.Sprintf("Returned %d from %s to the tray.", occupant.Sum, s.abilityName(slot)))
}

func (s *session) cmdSwap(args []string) error {
	if len(args) != 2 {
		return s.usage("swap <ability> <ability>")
	}
	a, okA := pool.ParseSlot(args[0])
	if !okA {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Unknown ability %q.", args[0]))
	}
	b, okB := pool.ParseSlot(args[1])
	if !okB {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Unknown ability %q.", args[1]))
	}
	if a == b {
		return s.conn.WriteLine("Those are the same ability.")
	}

	occA, occB := s.pool.At(a), s.pool.At(b)
	if occA == nil && occB == nil {
		return s.conn.WriteLine(fmt.Sprintf("Neither %s nor %s has a score.", s.abilityName(a), s.abilityName(b)))
	}
	if err := s.pool.SwapSlots(a, b); err != nil {
		return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "%v", err))
	}

	switch {
	case occA != nil && occB != nil:
		return s.conn.WriteLine(fmt.Sprintf("Swapped %s and %s.", s.abilityName(a), s.abilityName(b)))
	case occA != nil:
		return s.conn.WriteLine(fmt.Sprintf("Moved %d from %s to %s.", occA.Sum, s.abilityName(a), s.abilityName(b)))
	default:
		return s.conn.WriteLine(fmt.Sprintf("Moved %d from %s to %s.", occB.Sum, s.abilityName(b), s.abilityName(a)))
	}
}

func (s *session) cmdReset() error {
	if s.pool.TotalCount() == 0 {
		return s.conn.WriteLine("Nothing to reset.")
	}
	_, err := s.confirmReset()
	return err
}

// confirmReset asks before discarding everything. Returns whether the pool
// was actually reset.
func (s *session) confirmReset() (bool, error) {
	total := s.pool.TotalCount()
	yes, err := s.prompt.Confirm(fmt.Sprintf("This discards all %d scores. Continue? [y/N] ", total))
	if err != nil {
		return false, err
	}
	if !yes {
		return false, s.conn.WriteLine("Reset cancelled.")
	}
	s.pool.Reset()
	return true, s.conn.WriteLine("All scores discarded.")
}

func (s *session) cmdShow(args []string) error {
	if len(args) != 1 {
		return s.usage("show <score|ability>")
	}

	if slot, ok := pool.ParseSlot(args[0]); ok {
		occupant := s.pool.At(slot)
		if occupant == nil {
			return s.conn.WriteLine(fmt.Sprintf("%s has no score.", s.abilityName(slot)))
		}
		return s.writeLines(s.render.DiceDetail(occupant))
	}

	entry, errMsg := s.resolveTrayRef(args[0])
	if entry == nil {
		return s.conn.WriteLine(telnet.Colorize(telnet.Yellow, errMsg))
	}
	return s.writeLines(s.render.DiceDetail(entry))
}

// resolveTrayRef resolves a tray reference: a 1-based position first, then a
// score value match. Returns the entry, or nil and a user-facing message.
func (s *session) resolveTrayRef(ref string) (*score.Entry, string) {
	snap := s.pool.Snapshot()
	if len(snap.Unassigned) == 0 {
		return nil, "The tray is empty."
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Sprintf("%q is not a tray position or score value.", ref)
	}
	if n >= 1 && n <= len(snap.Unassigned) {
		return snap.Unassigned[n-1], ""
	}
	for _, e := range snap.Unassigned {
		if e.Sum == n {
			return e, ""
		}
	}
	return nil, fmt.Sprintf("No tray score matches %d.", n)
}

// showAnalysis runs the engine over the completed board and presents the
// report after the configured reveal delay.
func (s *session) showAnalysis(ctx context.Context) error {
	if err := sleepCtx(ctx, s.game.RevealDelay); err != nil {
		return err
	}
	report := s.engine.Analyze(s.assignedSums())
	return s.writeLines(s.render.Report(report))
}

// assignedSums collects the six assigned sums in ability display order.
//
// Precondition: the pool is Complete.
func (s *session) assignedSums() [pool.Capacity]int {
	var sums [pool.Capacity]int
	snap := s.pool.Snapshot()
	for i, a := range s.abilities {
		if e := snap.Assigned[a.Slot()]; e != nil {
			sums[i] = e.Sum
		}
	}
	return sums
}

func (s *session) abilityName(slot pool.Slot) string {
	for _, a := range s.abilities {
		if a.Slot() == slot {
			return a.Name
		}
	}
	return string(slot)
}

func (s *session) usage(usage string) error {
	return s.conn.WriteLine(telnet.Colorf(telnet.Yellow, "Usage: %s", usage))
}

func (s *session) writeLines(lines []string) error {
	for _, line := range lines {
		if err := s.conn.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// sleepCtx pauses for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
