package engine

import (
	"slices"

	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/pathfind"
)

// UnitID identifies a unit for the lifetime of a match. IDs start at 1 and are never
// reused.
type UnitID int64

// NoUnit is the zero UnitID
const NoUnit UnitID = 0

// Task is the high level order a unit is carrying out
type Task int

const (
	TaskIdle Task = iota
	TaskGather
	TaskBuild
	TaskMove
	TaskAttackBuilding
	TaskAttackUnit
)

func (t Task) String() string {
	switch t {
	case TaskIdle:
		return "idle"
	case TaskGather:
		return "gather"
	case TaskBuild:
		return "build"
	case TaskMove:
		return "move"
	case TaskAttackBuilding:
		return "attack-building"
	case TaskAttackUnit:
		return "attack-unit"
	}
	return "unknown"
}

// GatherPhase is the step of the harvest/return loop a gathering unit is in
type GatherPhase int

const (
	PhaseToResource GatherPhase = iota
	PhaseHarvesting
	PhaseToStorage
	PhaseDepositing
)

// Unit is a mobile, owned game piece
type Unit struct {
	ID     UnitID           `json:"id"`
	Owner  models.PlayerID  `json:"owner"`
	Type   models.UnitType  `json:"type"`
	Pos    grid.Fixed       `json:"pos"`
	HP     int              `json:"hp"`
	Task   Task             `json:"task"`
	Phase  GatherPhase      `json:"phase"`
	Idle   int              `json:"idle"` // ticks spent idle
	Cargo  models.Resources `json:"cargo"`
	Inside WorkID           `json:"inside,omitempty"` // harvest or deposit the unit is hidden in
	Work   WorkID           `json:"work,omitempty"`   // construction being built

	TargetTile grid.Point      `json:"target_tile"`
	TargetUnit UnitID          `json:"target_unit,omitempty"`
	GatherTile grid.Point      `json:"gather_tile"`
	GatherKind models.TileKind `json:"gather_kind"`
	Cooldown   int             `json:"cooldown"`

	route     *pathfind.Route
	chaseTile grid.Point
}

// Position returns the unit position in tiles
func (u *Unit) Position() grid.Vec2 {
	return u.Pos.Vec()
}

// Carrying reports whether the unit holds harvested resources
func (u *Unit) Carrying() bool {
	return !u.Cargo.IsZero()
}

// Route returns a copy of the route the unit is following, if any
func (u *Unit) Route() (pathfind.Route, bool) {
	if u.route == nil {
		return pathfind.Route{}, false
	}
	r := *u.route
	r.Tiles = slices.Clone(r.Tiles)
	return r, true
}

func (e *Engine) spawnUnit(owner models.PlayerID, typ models.UnitType, at grid.Vec2) *Unit {
	props, _ := e.rules.Unit(typ)
	e.nextUnit++
	u := &Unit{
		ID:    e.nextUnit,
		Owner: owner,
		Type:  typ,
		Pos:   grid.ToFixed(at),
		HP:    props.HP,
	}
	e.units[u.ID] = u
	e.unitOrder = append(e.unitOrder, u.ID)
	e.emit(Event{Type: EventUnitSpawned, Player: owner, Cell: at.Tile(), Unit: u.ID, Name: typ.String()})
	return u
}

func (e *Engine) removeUnit(u *Unit) {
	if u.Inside != NoWork && e.queue.get(u.Inside) != nil {
		e.abortWork(u.Inside, false)
	}
	e.ledgers[u.Owner].ReleasePopulation(1)
	delete(e.units, u.ID)
	e.unitOrder = slices.DeleteFunc(e.unitOrder, func(id UnitID) bool { return id == u.ID })
	e.emit(Event{Type: EventUnitDied, Player: u.Owner, Cell: u.Pos.Tile(), Unit: u.ID, Name: u.Type.String()})
	e.log.Debug().Int64("unit", int64(u.ID)).Int("owner", int(u.Owner)).Msg("unit died")
}

// setTask switches the unit to a new task and clears the per-task state
func (e *Engine) setTask(u *Unit, t Task) {
	u.Task = t
	u.Idle = 0
	u.route = nil
	u.TargetUnit = NoUnit
	u.Work = NoWork
}

func (e *Engine) goIdle(u *Unit) {
	e.setTask(u, TaskIdle)
}

// routeTo asks the finder for a route to the nearest goal. It leaves the unit
// untouched and returns false when no goal is reachable.
func (e *Engine) routeTo(u *Unit, goals ...grid.Vec2) bool {
	r, ok := e.finder.FindRouteToNearest(u.Position(), goals...)
	if !ok {
		e.log.Debug().Int64("unit", int64(u.ID)).Stringer("from", u.Position()).Msg("no route")
		return false
	}
	u.route = r
	u.TargetTile = r.Target.Tile()
	return true
}

// walk moves the unit one tick along its route and reports arrival
func (e *Engine) walk(u *Unit) bool {
	if u.route == nil {
		return true
	}
	props, _ := e.rules.Unit(u.Type)
	step := float64(props.MoveSpeed(u.Carrying())) / grid.FixedOne / float64(e.opts.TickRate)
	u.route.Advance(step)
	u.Pos = grid.ToFixed(u.route.Current)
	return u.route.Done()
}

// release puts a unit that was inside a work item back on the map at the cell's exit
func (e *Engine) release(u *Unit, cell grid.Point) {
	u.Inside = NoWork
	u.Pos = grid.ToFixed(e.grid.ExitPoint(cell))
}

func (e *Engine) isOwnStorage(owner models.PlayerID, p grid.Point) bool {
	t := e.grid.At(p)
	return (t.Content == models.Storage || t.Content == models.Center) && t.Built() && t.OwnerID() == owner
}

// seekStorage sends a loaded unit to the nearest storage it can reach
func (e *Engine) seekStorage(u *Unit) bool {
	var goals []grid.Vec2
	for p := range e.grid.All() {
		if e.isOwnStorage(u.Owner, p) {
			goals = append(goals, e.grid.ExitPoint(p))
		}
	}
	if !e.routeTo(u, goals...) {
		return false
	}
	u.Task = TaskGather
	u.Phase = PhaseToStorage
	return true
}

func (e *Engine) harvestable(u *Unit, p grid.Point, kind models.TileKind) bool {
	t := e.grid.At(p)
	if t.Content != kind || t.Remaining() <= 0 {
		return false
	}
	_, ok := e.rules.Harvesting(kind, u.Type)
	return ok
}

// seekResource sends the unit to the nearest tile of the kind it last gathered
func (e *Engine) seekResource(u *Unit) bool {
	if !u.GatherKind.IsResource() {
		return false
	}
	var goals []grid.Vec2
	for p := range e.grid.All() {
		if e.harvestable(u, p, u.GatherKind) {
			goals = append(goals, e.grid.ExitPoint(p))
		}
	}
	return e.gatherAt(u, goals...)
}

func (e *Engine) gatherAt(u *Unit, goals ...grid.Vec2) bool {
	if !e.routeTo(u, goals...) {
		return false
	}
	u.Task = TaskGather
	u.Phase = PhaseToResource
	u.GatherTile = u.TargetTile
	return true
}

// inRange compares fixed-point distance against a range in 1/256 tiles
func inRange(a, b grid.Fixed, rng int) bool {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	r := int64(rng)
	return dx*dx+dy*dy <= r*r
}
