package engine

import (
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

// handled reports a request outcome to the recorder and logs rejections
func (e *Engine) handled(request string, player models.PlayerID, s Status) Status {
	e.rec.RequestHandled(request, s)
	if !s.OK() {
		e.log.Debug().
			Int64("tick", e.tick).
			Str("request", request).
			Int("player", int(player)).
			Stringer("status", s).
			Msg("request rejected")
	}
	return s
}

// QueueActionForTile pays for a research or training action on a built structure the
// player owns and queues it on that cell
func (e *Engine) QueueActionForTile(player models.PlayerID, cell grid.Point, action string) Status {
	return e.handled("queue_tile", player, e.queueActionForTile(player, cell, action))
}

func (e *Engine) queueActionForTile(player models.PlayerID, cell grid.Point, name string) Status {
	if !e.validPlayer(player) || !e.grid.InBounds(cell) {
		return FailUnspecified
	}
	tile := e.grid.At(cell)
	if !tile.Content.IsStructure() || !tile.Built() {
		return FailUnspecified
	}
	if tile.OwnerID() != player {
		return FailWrongPlayer
	}

	action, ok := e.rules.Action(name)
	if !ok {
		return FailUnspecified
	}
	var kind WorkKind
	switch a := action.(type) {
	case *ruleset.ResearchDescription:
		if a.Origin != tile.Content || e.researchPending(player, a.Name) {
			return FailUnspecified
		}
		kind = WorkResearch
	case *ruleset.TrainingDescription:
		if a.Origin != tile.Content {
			return FailUnspecified
		}
		kind = WorkTrain
	default:
		return FailUnspecified
	}
	if !e.researched(player, action.Prerequisites()) {
		return FailUnspecified
	}
	if e.playerWorkOn(cell) >= e.opts.MaxQueueLength {
		return FailQueueFull
	}

	l := &e.ledgers[player]
	if kind == WorkTrain && !l.HasRoom(1) {
		return FailNoResources
	}
	if err := l.Deduct(action.Costs()); err != nil {
		return FailNoResources
	}
	if kind == WorkTrain {
		_ = l.ReservePopulation(1)
	}
	id := e.queue.add(WorkItem{
		Owner:    player,
		Kind:     kind,
		Cell:     cell,
		Required: action.Duration(),
		Action:   action,
	})
	e.log.Debug().
		Int64("tick", e.tick).
		Uint64("work", uint64(id)).
		Str("action", name).
		Stringer("cell", cell).
		Msg("work queued")
	return Completed
}

// researchPending reports whether name is completed or already queued by player
func (e *Engine) researchPending(player models.PlayerID, name string) bool {
	if e.research[player][name] {
		return true
	}
	for _, id := range e.queue.ids() {
		it := e.queue.get(id)
		if it.Owner == player && it.Kind == WorkResearch && it.Action.ActionName() == name {
			return true
		}
	}
	return false
}

func (e *Engine) researched(player models.PlayerID, names []string) bool {
	for _, n := range names {
		if !e.research[player][n] {
			return false
		}
	}
	return true
}

// playerWorkOn counts the paid-for items queued on cell
func (e *Engine) playerWorkOn(cell grid.Point) int {
	n := 0
	for _, id := range e.queue.forCell(cell) {
		if e.queue.get(id).Kind.refundable() {
			n++
		}
	}
	return n
}

// QueueActionForUnit pays for a building, lays out the construction site on target
// and sends the unit to build it
func (e *Engine) QueueActionForUnit(player models.PlayerID, unit UnitID, target grid.Point, action string) Status {
	return e.handled("queue_unit", player, e.queueActionForUnit(player, unit, target, action))
}

func (e *Engine) queueActionForUnit(player models.PlayerID, unit UnitID, target grid.Point, name string) Status {
	u, status := e.ownUnit(player, unit)
	if status != Completed {
		return status
	}
	desc, ok := e.rules.BuildingAction(name)
	if !ok || desc.Origin != u.Type || !e.researched(player, desc.RequiredResearch) {
		return FailUnspecified
	}
	if !e.grid.InBounds(target) || e.grid.At(target).Content != models.Land {
		return FailUnspecified
	}
	props, ok := e.rules.Building(desc.CreatedBuilding)
	if !ok {
		return FailUnspecified
	}
	l := &e.ledgers[player]
	if !l.Sufficient(desc.Costs()) {
		return FailNoResources
	}
	if !e.order(u, TaskBuild, grid.CenterPoint(target)) {
		return FailUnspecified
	}

	_ = l.Deduct(desc.Costs())
	e.grid.At(target).BeginConstruction(desc.CreatedBuilding, player, e.constructionStartHP(props.HP))
	u.Work = e.queue.add(WorkItem{
		Owner:    player,
		Kind:     WorkConstruct,
		Cell:     target,
		Required: desc.Duration(),
		Action:   desc,
	})
	e.log.Debug().
		Int64("tick", e.tick).
		Uint64("work", uint64(u.Work)).
		Str("action", name).
		Stringer("cell", target).
		Msg("construction placed")
	return Completed
}

// CancelQueueElement cancels a paid-for item the player owns and refunds part of its
// cost
func (e *Engine) CancelQueueElement(player models.PlayerID, id WorkID) Status {
	return e.handled("cancel", player, e.cancelQueueElement(player, id))
}

func (e *Engine) cancelQueueElement(player models.PlayerID, id WorkID) Status {
	it := e.queue.get(id)
	if it == nil || !it.Kind.refundable() {
		return FailUnspecified
	}
	if it.Owner != player {
		return FailWrongPlayer
	}
	e.abortWork(id, true)
	return Completed
}

// MoveUnit walks a unit to dest
func (e *Engine) MoveUnit(player models.PlayerID, unit UnitID, dest grid.Vec2) Status {
	return e.handled("move", player, e.moveUnit(player, unit, dest))
}

func (e *Engine) moveUnit(player models.PlayerID, unit UnitID, dest grid.Vec2) Status {
	u, status := e.ownUnit(player, unit)
	if status != Completed {
		return status
	}
	if !e.grid.InBounds(dest.Tile()) || !e.order(u, TaskMove, dest) {
		return FailUnspecified
	}
	return Completed
}

// AttackUnit orders a unit to chase and attack an enemy unit
func (e *Engine) AttackUnit(player models.PlayerID, unit, target UnitID) Status {
	return e.handled("attack", player, e.attackUnit(player, unit, target))
}

func (e *Engine) attackUnit(player models.PlayerID, unit, target UnitID) Status {
	u, status := e.ownUnit(player, unit)
	if status != Completed {
		return status
	}
	t, ok := e.units[target]
	if !ok || t.Owner == player || t.Inside != NoWork || !e.canAttack(u) {
		return FailUnspecified
	}
	e.setTask(u, TaskAttackUnit)
	u.TargetUnit = target
	return Completed
}

// RequestInteractWithTile gives the unit the order that fits the tile: gather a
// resource, help build an own construction site, drop cargo at an own storage,
// attack an enemy structure, or otherwise walk there
func (e *Engine) RequestInteractWithTile(player models.PlayerID, unit UnitID, cell grid.Point) Status {
	return e.handled("interact", player, e.interactWithTile(player, unit, cell))
}

func (e *Engine) interactWithTile(player models.PlayerID, unit UnitID, cell grid.Point) Status {
	u, status := e.ownUnit(player, unit)
	if status != Completed {
		return status
	}
	if !e.grid.InBounds(cell) {
		return FailUnspecified
	}
	tile := e.grid.At(cell)

	switch {
	case tile.Content.IsResource():
		if !e.harvestable(u, cell, tile.Content) || !e.order(u, TaskGather, e.grid.ExitPoint(cell)) {
			return FailUnspecified
		}
		u.Phase = PhaseToResource
		u.GatherTile = cell
		u.GatherKind = tile.Content
		return Completed

	case tile.Content.IsStructure() && tile.OwnerID() != player:
		if !e.canAttack(u) || !e.order(u, TaskAttackBuilding, grid.CenterPoint(cell)) {
			return FailUnspecified
		}
		return Completed

	case tile.Content.IsStructure() && !tile.Built():
		site := e.constructionOn(cell)
		if site == NoWork || !e.canBuild(u) || !e.order(u, TaskBuild, grid.CenterPoint(cell)) {
			return FailUnspecified
		}
		u.Work = site
		return Completed

	case u.Carrying() && e.isOwnStorage(player, cell):
		if !e.order(u, TaskGather, e.grid.ExitPoint(cell)) {
			return FailUnspecified
		}
		u.Phase = PhaseToStorage
		return Completed
	}

	if !e.order(u, TaskMove, grid.CenterPoint(cell)) {
		return FailUnspecified
	}
	return Completed
}

// ownUnit resolves a unit the player may give orders to. Units hidden inside a
// resource or storage cannot take orders.
func (e *Engine) ownUnit(player models.PlayerID, id UnitID) (*Unit, Status) {
	u, ok := e.units[id]
	if !ok || !e.validPlayer(player) || u.Inside != NoWork {
		return nil, FailUnspecified
	}
	if u.Owner != player {
		return nil, FailWrongPlayer
	}
	return u, Completed
}

// order routes the unit toward the nearest goal and switches it to task t. The unit
// keeps its current task when no goal is reachable.
func (e *Engine) order(u *Unit, t Task, goals ...grid.Vec2) bool {
	r, ok := e.finder.FindRouteToNearest(u.Position(), goals...)
	if !ok {
		return false
	}
	e.setTask(u, t)
	u.route = r
	u.TargetTile = r.Target.Tile()
	return true
}

func (e *Engine) canAttack(u *Unit) bool {
	props, ok := e.rules.Unit(u.Type)
	return ok && props.Attack > 0
}

func (e *Engine) canBuild(u *Unit) bool {
	props, ok := e.rules.Unit(u.Type)
	return ok && props.BuildRate > 0
}

// constructionOn returns the construct item on cell, if any
func (e *Engine) constructionOn(cell grid.Point) WorkID {
	for _, id := range e.queue.forCell(cell) {
		if e.queue.get(id).Kind == WorkConstruct {
			return id
		}
	}
	return NoWork
}
