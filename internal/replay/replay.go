// Package replay records player requests against an engine and re-issues them at
// the same ticks, so a match can be reproduced from its seed, map and command log.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
)

var (
	// ErrOutOfOrder is returned when a command log goes back in time
	ErrOutOfOrder = errors.New("command out of order")
	// ErrDiverged is returned when a replayed request gets a different status
	ErrDiverged = errors.New("replay diverged")
	// ErrUnknownCommand is returned for a command kind Apply does not know
	ErrUnknownCommand = errors.New("unknown command kind")
)

// Kind names the engine request a command re-issues
type Kind string

const (
	KindQueueTile Kind = "queue_tile"
	KindQueueUnit Kind = "queue_unit"
	KindCancel    Kind = "cancel"
	KindMove      Kind = "move"
	KindAttack    Kind = "attack"
	KindInteract  Kind = "interact"
)

// Command is one player request and the status it got
type Command struct {
	Tick   int64           `json:"tick"`
	Kind   Kind            `json:"kind"`
	Player models.PlayerID `json:"player"`
	Unit   engine.UnitID   `json:"unit,omitempty"`
	Target engine.UnitID   `json:"target,omitempty"`
	Cell   grid.Point      `json:"cell"`
	Dest   grid.Vec2       `json:"dest"`
	Action string          `json:"action,omitempty"`
	Work   engine.WorkID   `json:"work,omitempty"`
	Status engine.Status   `json:"status"`
}

// Apply issues the command's request on e
func (c Command) Apply(e *engine.Engine) (engine.Status, error) {
	switch c.Kind {
	case KindQueueTile:
		return e.QueueActionForTile(c.Player, c.Cell, c.Action), nil
	case KindQueueUnit:
		return e.QueueActionForUnit(c.Player, c.Unit, c.Cell, c.Action), nil
	case KindCancel:
		return e.CancelQueueElement(c.Player, c.Work), nil
	case KindMove:
		return e.MoveUnit(c.Player, c.Unit, c.Dest), nil
	case KindAttack:
		return e.AttackUnit(c.Player, c.Unit, c.Target), nil
	case KindInteract:
		return e.RequestInteractWithTile(c.Player, c.Unit, c.Cell), nil
	}
	return engine.FailUnspecified, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Kind)
}

// Recorder forwards requests to an engine and keeps a log of them
type Recorder struct {
	e        *engine.Engine
	commands []Command
}

// NewRecorder wraps e
func NewRecorder(e *engine.Engine) *Recorder {
	return &Recorder{e: e}
}

// Engine returns the wrapped engine
func (r *Recorder) Engine() *engine.Engine { return r.e }

// Commands returns a copy of the log
func (r *Recorder) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// Do applies c at the current tick and logs it with its status
func (r *Recorder) Do(c Command) (engine.Status, error) {
	c.Tick = r.e.Tick()
	status, err := c.Apply(r.e)
	if err != nil {
		return status, err
	}
	c.Status = status
	r.commands = append(r.commands, c)
	return status, nil
}

// QueueActionForTile records and forwards engine.QueueActionForTile
func (r *Recorder) QueueActionForTile(player models.PlayerID, cell grid.Point, action string) engine.Status {
	s, _ := r.Do(Command{Kind: KindQueueTile, Player: player, Cell: cell, Action: action})
	return s
}

// QueueActionForUnit records and forwards engine.QueueActionForUnit
func (r *Recorder) QueueActionForUnit(player models.PlayerID, unit engine.UnitID, cell grid.Point, action string) engine.Status {
	s, _ := r.Do(Command{Kind: KindQueueUnit, Player: player, Unit: unit, Cell: cell, Action: action})
	return s
}

// CancelQueueElement records and forwards engine.CancelQueueElement
func (r *Recorder) CancelQueueElement(player models.PlayerID, work engine.WorkID) engine.Status {
	s, _ := r.Do(Command{Kind: KindCancel, Player: player, Work: work})
	return s
}

// MoveUnit records and forwards engine.MoveUnit
func (r *Recorder) MoveUnit(player models.PlayerID, unit engine.UnitID, dest grid.Vec2) engine.Status {
	s, _ := r.Do(Command{Kind: KindMove, Player: player, Unit: unit, Dest: dest})
	return s
}

// AttackUnit records and forwards engine.AttackUnit
func (r *Recorder) AttackUnit(player models.PlayerID, unit, target engine.UnitID) engine.Status {
	s, _ := r.Do(Command{Kind: KindAttack, Player: player, Unit: unit, Target: target})
	return s
}

// RequestInteractWithTile records and forwards engine.RequestInteractWithTile
func (r *Recorder) RequestInteractWithTile(player models.PlayerID, unit engine.UnitID, cell grid.Point) engine.Status {
	s, _ := r.Do(Command{Kind: KindInteract, Player: player, Unit: unit, Cell: cell})
	return s
}

// Run re-issues commands on a fresh engine, each at the tick it was recorded at,
// then advances to untilTick. A command whose status differs from the recorded one
// stops the run with ErrDiverged.
func Run(e *engine.Engine, commands []Command, untilTick int64) error {
	for i, c := range commands {
		if c.Tick < e.Tick() {
			return fmt.Errorf("%w: command %d at tick %d, engine at %d", ErrOutOfOrder, i, c.Tick, e.Tick())
		}
		for e.Tick() < c.Tick {
			e.AdvanceTick()
		}
		status, err := c.Apply(e)
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		if status != c.Status {
			return fmt.Errorf("%w: command %d (%s at tick %d) got %s, recorded %s",
				ErrDiverged, i, c.Kind, c.Tick, status, c.Status)
		}
	}
	for e.Tick() < untilTick {
		e.AdvanceTick()
	}
	return nil
}

// Digest hashes the engine snapshot. Engines that took the same inputs have equal
// digests.
func Digest(e *engine.Engine) (uint64, error) {
	h := xxhash.New()
	if err := json.NewEncoder(h).Encode(e.Snapshot()); err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return h.Sum64(), nil
}

// FormatDigest renders a digest the way it is stored
func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}
