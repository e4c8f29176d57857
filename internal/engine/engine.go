// Package engine is the deterministic match simulation: the per-cell work queues,
// the unit task machine, the fixed-rate clock and the player request API. All state
// changes happen synchronously inside AdvanceTick or a request call; an Engine must
// be driven from one goroutine.
package engine

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"

	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/ledger"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/pathfind"
	"github.com/napolitain/rts-core/internal/ruleset"
)

// ErrMapMismatch is returned when the map does not hold one town center per player
var ErrMapMismatch = errors.New("map does not match player count")

// ErrInvalidOptions is returned for out-of-range engine options
var ErrInvalidOptions = errors.New("invalid engine options")

// Options configures a match
type Options struct {
	Players                  int
	Seed                     uint64
	TickRate                 int // ticks per second
	MaxQueueLength           int // stopped + active items per cell a player may queue
	RefundPercent            int // share of the cost returned on cancel, rounded up
	DepositTicks             int
	StartingWorkers          int
	ConstructionStartPercent int // HP share a building site starts with

	Logger   *zerolog.Logger
	Recorder Recorder
}

// DefaultOptions returns a two player match setup
func DefaultOptions() Options {
	return Options{
		Players:                  2,
		Seed:                     1,
		TickRate:                 30,
		MaxQueueLength:           3,
		RefundPercent:            50,
		DepositTicks:             15,
		StartingWorkers:          2,
		ConstructionStartPercent: 10,
	}
}

func (o Options) validate() error {
	var errs []error
	if o.Players < 1 || o.Players > 16 {
		errs = append(errs, fmt.Errorf("players %d not in 1..16", o.Players))
	}
	if o.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate %d must be positive", o.TickRate))
	}
	if o.MaxQueueLength <= 0 {
		errs = append(errs, fmt.Errorf("max queue length %d must be positive", o.MaxQueueLength))
	}
	if o.RefundPercent < 0 || o.RefundPercent > 100 {
		errs = append(errs, fmt.Errorf("refund percent %d not in 0..100", o.RefundPercent))
	}
	if o.DepositTicks <= 0 {
		errs = append(errs, fmt.Errorf("deposit ticks %d must be positive", o.DepositTicks))
	}
	if o.StartingWorkers < 0 {
		errs = append(errs, fmt.Errorf("starting workers %d is negative", o.StartingWorkers))
	}
	if o.ConstructionStartPercent < 1 || o.ConstructionStartPercent > 100 {
		errs = append(errs, fmt.Errorf("construction start percent %d not in 1..100", o.ConstructionStartPercent))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// Engine runs one match
type Engine struct {
	opts  Options
	log   zerolog.Logger
	rec   Recorder
	grid  *grid.Grid
	rules *ruleset.Ruleset

	ledgers  []ledger.Ledger
	research []map[string]bool
	queue    *workQueue

	units     map[UnitID]*Unit
	unitOrder []UnitID
	nextUnit  UnitID

	rng            *rand.Rand
	finder         *pathfind.Finder
	events         *EventQueue
	turretCooldown map[grid.Point]int

	tick   int64
	carry  int64
	camera grid.Vec2
}

// New prepares a match on g. The engine takes ownership of g.
func New(g *grid.Grid, rules *ruleset.Ruleset, opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "engine").Logger()
	}
	var rec Recorder = nopRecorder{}
	if opts.Recorder != nil {
		rec = opts.Recorder
	}
	rng := grid.NewRand(opts.Seed)
	e := &Engine{
		opts:           opts,
		log:            log,
		rec:            rec,
		grid:           g,
		rules:          rules,
		ledgers:        make([]ledger.Ledger, opts.Players),
		research:       make([]map[string]bool, opts.Players),
		queue:          newWorkQueue(),
		units:          make(map[UnitID]*Unit),
		rng:            rng,
		finder:         pathfind.NewFinder(g, rng),
		events:         NewEventQueue(),
		turretCooldown: make(map[grid.Point]int),
	}
	if err := e.prepareMap(); err != nil {
		return nil, err
	}
	return e, nil
}

// prepareMap gives the town centers to players in row-major order, builds them and
// spawns the starting workers at their exits
func (e *Engine) prepareMap() error {
	var centers []grid.Point
	for p := range e.grid.All() {
		if e.grid.At(p).Content == models.Center {
			centers = append(centers, p)
		}
	}
	if len(centers) != e.opts.Players {
		return fmt.Errorf("%w: %d town centers for %d players", ErrMapMismatch, len(centers), e.opts.Players)
	}

	for i := range e.ledgers {
		e.ledgers[i] = ledger.New(e.rules.InitialResources(), models.Resources{}, 0)
		e.research[i] = make(map[string]bool)
	}

	centerProps, _ := e.rules.Building(models.Center)
	for i, p := range centers {
		player := models.PlayerID(i)
		if i == 0 {
			e.camera = grid.CenterPoint(p)
		}
		tile := e.grid.At(p)
		tile.Content = models.Land
		tile.PlaceBuilt(models.Center, player, centerProps.HP)
		e.ledgers[player].Boost(centerProps.BoostPopulation, centerProps.BoostStockpile)
	}

	// other prebuilt structures count toward their owner
	for p := range e.grid.All() {
		tile := e.grid.At(p)
		if tile.Content == models.Center || !tile.Built() || int(tile.Owner) >= e.opts.Players {
			continue
		}
		if props, ok := e.rules.Building(tile.Content); ok {
			e.ledgers[tile.OwnerID()].Boost(props.BoostPopulation, props.BoostStockpile)
		}
	}

	for i, p := range centers {
		player := models.PlayerID(i)
		for range e.opts.StartingWorkers {
			if e.ledgers[player].ReservePopulation(1) != nil {
				break
			}
			e.spawnUnit(player, models.Worker, e.grid.ExitPoint(p))
		}
	}

	e.log.Info().
		Int("players", e.opts.Players).
		Int("width", e.grid.Width).
		Int("height", e.grid.Height).
		Int("units", len(e.units)).
		Msg("map prepared")
	return nil
}

func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	e.events.Push(ev)
}

// DrainEvents returns the events raised since the last drain, in order
func (e *Engine) DrainEvents() []Event {
	return e.events.Drain()
}

// Tick returns the number of ticks processed
func (e *Engine) Tick() int64 { return e.tick }

// TickRate returns ticks per second
func (e *Engine) TickRate() int { return e.opts.TickRate }

// Players returns the number of players
func (e *Engine) Players() int { return e.opts.Players }

// Options returns the options the engine was created with
func (e *Engine) Options() Options { return e.opts }

// Rules returns the shared ruleset
func (e *Engine) Rules() *ruleset.Ruleset { return e.rules }

// Grid returns the world. Callers must not mutate it.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// CameraStart is the center of player 0's town center
func (e *Engine) CameraStart() grid.Vec2 { return e.camera }

func (e *Engine) validPlayer(p models.PlayerID) bool {
	return p >= 0 && int(p) < e.opts.Players
}

// Resources returns a copy of a player's ledger
func (e *Engine) Resources(player models.PlayerID) (ledger.Ledger, bool) {
	if !e.validPlayer(player) {
		return ledger.Ledger{}, false
	}
	return e.ledgers[player], true
}

// HasResearch reports whether player completed the named research
func (e *Engine) HasResearch(player models.PlayerID, name string) bool {
	return e.validPlayer(player) && e.research[player][name]
}

// Unit returns a copy of a unit
func (e *Engine) Unit(id UnitID) (Unit, bool) {
	u, ok := e.units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Units returns copies of every unit in id order
func (e *Engine) Units() []Unit {
	out := make([]Unit, 0, len(e.unitOrder))
	for _, id := range e.unitOrder {
		c := *e.units[id]
		c.route = nil
		out = append(out, c)
	}
	return out
}

// QueueForTile lists the live work on a cell in queue order
func (e *Engine) QueueForTile(cell grid.Point) []WorkView {
	var out []WorkView
	for _, id := range e.queue.forCell(cell) {
		out = append(out, e.queue.get(id).view())
	}
	return out
}

// Work returns a copy of a live work item
func (e *Engine) Work(id WorkID) (WorkView, bool) {
	it := e.queue.get(id)
	if it == nil {
		return WorkView{}, false
	}
	return it.view(), true
}

// ActionsForTile lists the research and training a built structure offers
func (e *Engine) ActionsForTile(cell grid.Point) []ruleset.Action {
	if !e.grid.InBounds(cell) {
		return nil
	}
	tile := e.grid.At(cell)
	if !tile.Content.IsStructure() || !tile.Built() {
		return nil
	}
	return e.rules.ActionsForTile(tile.Content)
}

// ActionsForUnit lists the buildings a unit can construct
func (e *Engine) ActionsForUnit(id UnitID) []ruleset.Action {
	u, ok := e.units[id]
	if !ok {
		return nil
	}
	return e.rules.ActionsForUnit(u.Type)
}

// CheckInvariants verifies the work queue and unit bookkeeping. It is meant for
// tests and debug builds.
func (e *Engine) CheckInvariants() error {
	errs := []error{e.queue.check()}
	for _, id := range e.unitOrder {
		u := e.units[id]
		if u.Inside == NoWork {
			continue
		}
		it := e.queue.get(u.Inside)
		if it == nil || it.Unit != u.ID {
			errs = append(errs, fmt.Errorf("unit %d inside missing work %d", u.ID, u.Inside))
		}
	}
	for p, l := range e.ledgers {
		if !l.Stock.Covers(models.Resources{}) {
			errs = append(errs, fmt.Errorf("player %d has negative stock %s", p, l.Stock))
		}
	}
	return errors.Join(errs...)
}

// PlayerState is one player's part of a snapshot
type PlayerState struct {
	Player   models.PlayerID `json:"player"`
	Ledger   ledger.Ledger   `json:"ledger"`
	Research []string        `json:"research"`
}

// Snapshot is an immutable copy of the match state
type Snapshot struct {
	Tick    int64         `json:"tick"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Tiles   []grid.Tile   `json:"tiles"`
	Units   []Unit        `json:"units"`
	Work    []WorkView    `json:"work"`
	Players []PlayerState `json:"players"`
}

// Snapshot copies the full state for readers outside the simulation goroutine
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   e.tick,
		Width:  e.grid.Width,
		Height: e.grid.Height,
		Tiles:  e.grid.Tiles(),
		Units:  e.Units(),
	}
	for _, id := range e.queue.ids() {
		s.Work = append(s.Work, e.queue.get(id).view())
	}
	for i, l := range e.ledgers {
		s.Players = append(s.Players, PlayerState{
			Player:   models.PlayerID(i),
			Ledger:   l,
			Research: slices.Sorted(maps.Keys(e.research[i])),
		})
	}
	return s
}
