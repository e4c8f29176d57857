package engine

import (
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
)

// halfTile in fixed point; buildings are hit from anywhere within their tile
const halfTile = grid.FixedOne / 2

func (e *Engine) updateUnits() {
	for _, id := range append([]UnitID(nil), e.unitOrder...) {
		u, ok := e.units[id]
		if !ok || u.HP <= 0 {
			continue
		}
		e.updateUnit(u)
	}
}

func (e *Engine) updateUnit(u *Unit) {
	if u.Inside != NoWork {
		return
	}
	if u.Cooldown > 0 {
		u.Cooldown--
	}
	switch u.Task {
	case TaskIdle:
		u.Idle++
	case TaskMove:
		if e.walk(u) {
			e.goIdle(u)
		}
	case TaskGather:
		e.updateGather(u)
	case TaskBuild:
		e.updateBuild(u)
	case TaskAttackUnit:
		e.updateAttackUnit(u)
	case TaskAttackBuilding:
		e.updateAttackBuilding(u)
	}
}

func (e *Engine) updateGather(u *Unit) {
	switch u.Phase {
	case PhaseToResource:
		if !e.walk(u) {
			return
		}
		cell := u.TargetTile
		tile := e.grid.At(cell)
		h, ok := e.rules.Harvesting(tile.Content, u.Type)
		if !ok || tile.Remaining() <= 0 {
			if !e.seekResource(u) {
				e.goIdle(u)
			}
			return
		}
		u.route = nil
		u.GatherTile = cell
		u.GatherKind = tile.Content
		u.Phase = PhaseHarvesting
		u.Inside = e.queue.add(WorkItem{
			Owner:    u.Owner,
			Kind:     WorkHarvest,
			Cell:     cell,
			Required: h.HarvestTicks,
			Harvest:  h,
			Unit:     u.ID,
		})
	case PhaseToStorage:
		if !e.walk(u) {
			return
		}
		cell := u.TargetTile
		if !e.isOwnStorage(u.Owner, cell) {
			if !e.seekStorage(u) {
				e.goIdle(u)
			}
			return
		}
		u.route = nil
		u.Phase = PhaseDepositing
		u.Inside = e.queue.add(WorkItem{
			Owner:    u.Owner,
			Kind:     WorkReturnResource,
			Cell:     cell,
			Required: e.opts.DepositTicks,
			Unit:     u.ID,
		})
	default:
		// harvesting and depositing units are inside a work item
		e.goIdle(u)
	}
}

func (e *Engine) updateBuild(u *Unit) {
	it := e.queue.get(u.Work)
	if it == nil || it.Kind != WorkConstruct {
		e.goIdle(u)
		return
	}
	if !e.walk(u) {
		return
	}
	u.route = nil
	if it.State != WorkActive {
		return
	}
	props, _ := e.rules.Unit(u.Type)
	it.Elapsed = min(it.Elapsed+props.BuildRate, it.Required)
	e.paintConstructionHP(it)
}

// paintConstructionHP grows the site's HP from its starting value toward full as
// construction progresses
func (e *Engine) paintConstructionHP(it *WorkItem) {
	tile := e.grid.At(it.Cell)
	props, ok := e.rules.Building(tile.Content)
	if !ok {
		return
	}
	start := e.constructionStartHP(props.HP)
	tile.SetHP(start + (props.HP-start)*it.Elapsed/it.Required)
}

func (e *Engine) constructionStartHP(full int) int {
	return max(1, full*e.opts.ConstructionStartPercent/100)
}

func (e *Engine) updateAttackUnit(u *Unit) {
	target, ok := e.units[u.TargetUnit]
	if !ok || target.HP <= 0 || target.Inside != NoWork {
		e.goIdle(u)
		return
	}
	props, _ := e.rules.Unit(u.Type)
	if inRange(u.Pos, target.Pos, props.Range) {
		u.route = nil
		if u.Cooldown == 0 {
			tprops, _ := e.rules.Unit(target.Type)
			target.HP -= max(1, props.Attack-tprops.Defense)
			u.Cooldown = props.AttackTicks
		}
		return
	}
	tt := target.Pos.Tile()
	if u.route == nil || u.route.Done() || u.chaseTile != tt {
		if !e.routeTo(u, target.Position()) {
			e.goIdle(u)
			return
		}
		u.chaseTile = tt
	}
	e.walk(u)
}

func (e *Engine) updateAttackBuilding(u *Unit) {
	cell := u.TargetTile
	tile := e.grid.At(cell)
	if !tile.Content.IsStructure() || tile.OwnerID() == u.Owner {
		e.goIdle(u)
		return
	}
	props, _ := e.rules.Unit(u.Type)
	if inRange(u.Pos, grid.ToFixed(grid.CenterPoint(cell)), props.Range+halfTile) {
		u.route = nil
		if u.Cooldown == 0 {
			u.Cooldown = props.AttackTicks
			e.damageBuilding(cell, max(1, props.Attack))
		}
		return
	}
	if u.route == nil || u.route.Done() {
		if !e.routeTo(u, grid.CenterPoint(cell)) {
			e.goIdle(u)
			return
		}
	}
	e.walk(u)
}

func (e *Engine) damageBuilding(cell grid.Point, damage int) {
	tile := e.grid.At(cell)
	tile.SetHP(tile.HP() - damage)
	if tile.HP() <= 0 {
		e.destroyBuilding(cell)
	}
}

// destroyBuilding removes a structure: boosts are withdrawn, queued work on the cell
// is dropped without refund and the terrain it was built on comes back
func (e *Engine) destroyBuilding(cell grid.Point) {
	tile := e.grid.At(cell)
	owner := tile.OwnerID()
	kind := tile.Content
	if tile.Built() {
		if props, ok := e.rules.Building(kind); ok {
			e.ledgers[owner].Unboost(props.BoostPopulation, props.BoostStockpile)
		}
	}
	for _, id := range e.queue.forCell(cell) {
		e.abortWork(id, false)
	}
	if t := e.grid.At(cell); t.Content.IsStructure() {
		t.Revert()
	}
	delete(e.turretCooldown, cell)
	e.emit(Event{Type: EventBuildingDestroyed, Player: owner, Cell: cell, Name: kind.String()})
	e.log.Info().Stringer("cell", cell).Str("kind", kind.String()).Int("owner", int(owner)).Msg("building destroyed")
}

// updateTurrets lets every built turret shoot the nearest enemy unit in range
func (e *Engine) updateTurrets() {
	for p := range e.grid.All() {
		tile := e.grid.At(p)
		if tile.Content != models.Turret || !tile.Built() {
			continue
		}
		if cd := e.turretCooldown[p]; cd > 0 {
			e.turretCooldown[p] = cd - 1
			continue
		}
		props, ok := e.rules.Building(models.Turret)
		if !ok || props.Attack <= 0 {
			continue
		}
		reach := props.Range + props.RangeBoost*int(tile.Level)
		from := grid.ToFixed(grid.CenterPoint(p))
		target := e.nearestEnemy(tile.OwnerID(), from, reach)
		if target == nil {
			continue
		}
		tprops, _ := e.rules.Unit(target.Type)
		target.HP -= max(1, props.Attack-tprops.Defense)
		e.turretCooldown[p] = props.AttackTicks
	}
}

func (e *Engine) nearestEnemy(owner models.PlayerID, from grid.Fixed, reach int) *Unit {
	var best *Unit
	var bestDist int64
	for _, id := range e.unitOrder {
		u := e.units[id]
		if u.Owner == owner || u.Inside != NoWork || u.HP <= 0 || !inRange(from, u.Pos, reach) {
			continue
		}
		dx, dy := int64(u.Pos.X-from.X), int64(u.Pos.Y-from.Y)
		if d := dx*dx + dy*dy; best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

// reapUnits removes units killed this tick
func (e *Engine) reapUnits() {
	for _, id := range append([]UnitID(nil), e.unitOrder...) {
		if u := e.units[id]; u.HP <= 0 {
			e.removeUnit(u)
		}
	}
}
