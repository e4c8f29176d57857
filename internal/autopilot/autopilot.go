// Package autopilot is a greedy computer player used by the CLI to drive matches
// without input. Each decision round it sends idle workers to the nearest
// resource or storage, keeps the town centers training workers while affordable,
// and lays out a house when a player runs out of population room.
package autopilot

import (
	"github.com/rs/zerolog"

	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
)

// Orders is the request surface the pilot drives. *engine.Engine and
// *replay.Recorder both satisfy it.
type Orders interface {
	QueueActionForTile(player models.PlayerID, cell grid.Point, action string) engine.Status
	QueueActionForUnit(player models.PlayerID, unit engine.UnitID, cell grid.Point, action string) engine.Status
	RequestInteractWithTile(player models.PlayerID, unit engine.UnitID, cell grid.Point) engine.Status
}

// Options tunes the pilot
type Options struct {
	Train      string // training action queued on town centers
	House      string // building action used when population is full
	Interval   int    // ticks between decision rounds
	MaxWorkers int    // stop training past this many units
}

// DefaultOptions returns the pilot setup used by the CLI
func DefaultOptions() Options {
	return Options{Train: "Worker", House: "House", Interval: 30, MaxWorkers: 12}
}

// Stats counts the orders a pilot issued
type Stats struct {
	Issued   int
	Rejected int
}

// Pilot plays the listed players
type Pilot struct {
	opts    Options
	players []models.PlayerID
	log     zerolog.Logger
	stats   Stats

	stepped bool
	last    int64
}

// New creates a pilot for players
func New(opts Options, log zerolog.Logger, players ...models.PlayerID) *Pilot {
	if opts.Interval <= 0 {
		opts.Interval = 1
	}
	return &Pilot{
		opts:    opts,
		players: players,
		log:     log.With().Str("component", "autopilot").Logger(),
	}
}

// Stats returns the order counters
func (p *Pilot) Stats() Stats { return p.stats }

// Step runs a decision round when at least Interval ticks passed since the last
// one. The first call always decides.
func (p *Pilot) Step(e *engine.Engine, o Orders) {
	if p.stepped && e.Tick()-p.last < int64(p.opts.Interval) {
		return
	}
	p.stepped, p.last = true, e.Tick()
	for _, player := range p.players {
		p.train(e, o, player)
		p.house(e, o, player)
		p.gather(e, o, player)
	}
}

func (p *Pilot) record(s engine.Status) bool {
	p.stats.Issued++
	if !s.OK() {
		p.stats.Rejected++
	}
	return s.OK()
}

// ownedBuilt lists the built structures of kind a player owns, in row-major order
func ownedBuilt(e *engine.Engine, player models.PlayerID, kind models.TileKind) []grid.Point {
	var out []grid.Point
	g := e.Grid()
	for pt := range g.All() {
		t := g.Get(pt)
		if t.Content == kind && t.Built() && t.OwnerID() == player {
			out = append(out, pt)
		}
	}
	return out
}

func (p *Pilot) train(e *engine.Engine, o Orders, player models.PlayerID) {
	desc, ok := e.Rules().Training(p.opts.Train)
	if !ok {
		return
	}
	l, _ := e.Resources(player)
	if l.Population >= p.opts.MaxWorkers {
		return
	}
	for _, cell := range ownedBuilt(e, player, desc.Origin) {
		if !l.HasRoom(1) || !l.Sufficient(desc.Costs()) {
			return
		}
		if trainingOn(e, cell) > 0 {
			continue
		}
		if p.record(o.QueueActionForTile(player, cell, desc.Name)) {
			l, _ = e.Resources(player)
		}
	}
}

func trainingOn(e *engine.Engine, cell grid.Point) int {
	n := 0
	for _, w := range e.QueueForTile(cell) {
		if w.Kind == engine.WorkTrain {
			n++
		}
	}
	return n
}

func (p *Pilot) house(e *engine.Engine, o Orders, player models.PlayerID) {
	desc, ok := e.Rules().BuildingAction(p.opts.House)
	if !ok {
		return
	}
	l, _ := e.Resources(player)
	if l.HasRoom(1) || !l.Sufficient(desc.Costs()) {
		return
	}
	var builder *engine.Unit
	units := e.Units()
	for i := range units {
		u := &units[i]
		if u.Owner != player {
			continue
		}
		if u.Task == engine.TaskBuild {
			return
		}
		if builder == nil && u.Type == desc.Origin && u.Inside == engine.NoWork {
			builder = u
		}
	}
	if builder == nil {
		return
	}
	centers := ownedBuilt(e, player, models.Center)
	if len(centers) == 0 {
		return
	}
	for _, cell := range buildSites(e.Grid(), centers[0], 4) {
		if p.record(o.QueueActionForUnit(player, builder.ID, cell, desc.Name)) {
			p.log.Debug().Int("player", int(player)).Stringer("cell", cell).Msg("house placed")
			return
		}
	}
}

// buildSites lists up to n land cells two to four tiles from c, nearest ring first
func buildSites(g *grid.Grid, c grid.Point, n int) []grid.Point {
	var out []grid.Point
	for r := 2; r <= 4; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				pt := grid.Pt(c.X+dx, c.Y+dy)
				if g.InBounds(pt) && g.Get(pt).Content == models.Land {
					out = append(out, pt)
					if len(out) == n {
						return out
					}
				}
			}
		}
	}
	return out
}

func (p *Pilot) gather(e *engine.Engine, o Orders, player models.PlayerID) {
	units := e.Units()
	for i := range units {
		u := &units[i]
		if u.Owner != player || u.Task != engine.TaskIdle || u.Inside != engine.NoWork {
			continue
		}
		if u.Carrying() {
			if cell, ok := nearestStorage(e, player, u.Position()); ok {
				p.record(o.RequestInteractWithTile(player, u.ID, cell))
			}
			continue
		}
		// alternate workers between wood and stone
		want := models.Forest
		if u.ID%2 == 0 {
			want = models.Mine
		}
		cell, ok := nearestResource(e, u, want)
		if !ok {
			if cell, ok = nearestResource(e, u, models.Land); !ok {
				continue
			}
		}
		p.record(o.RequestInteractWithTile(player, u.ID, cell))
	}
}

// nearestResource finds the closest harvestable tile of kind; Land matches any
// resource kind
func nearestResource(e *engine.Engine, u *engine.Unit, kind models.TileKind) (grid.Point, bool) {
	g := e.Grid()
	pos := u.Position()
	best, bestDist, found := grid.Point{}, 0.0, false
	for pt := range g.All() {
		t := g.Get(pt)
		if !t.Content.IsResource() || t.Remaining() <= 0 {
			continue
		}
		if kind != models.Land && t.Content != kind {
			continue
		}
		if _, ok := e.Rules().Harvesting(t.Content, u.Type); !ok {
			continue
		}
		if d := grid.CenterPoint(pt).Dist(pos); !found || d < bestDist {
			best, bestDist, found = pt, d, true
		}
	}
	return best, found
}

func nearestStorage(e *engine.Engine, player models.PlayerID, pos grid.Vec2) (grid.Point, bool) {
	best, bestDist, found := grid.Point{}, 0.0, false
	for _, kind := range []models.TileKind{models.Center, models.Storage} {
		for _, pt := range ownedBuilt(e, player, kind) {
			if d := grid.CenterPoint(pt).Dist(pos); !found || d < bestDist {
				best, bestDist, found = pt, d, true
			}
		}
	}
	return best, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
