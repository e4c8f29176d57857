package engine

import (
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

// completeWork removes a finished item and applies its effect
func (e *Engine) completeWork(id WorkID) {
	it := e.queue.remove(id, WorkCompleted)
	switch it.Kind {
	case WorkTrain:
		e.completeTraining(it)
	case WorkResearch:
		e.completeResearch(it)
	case WorkConstruct:
		e.completeConstruction(it)
	case WorkHarvest:
		e.completeHarvest(it)
	case WorkReturnResource:
		e.completeReturn(it)
	}
	e.emit(Event{Type: EventWorkCompleted, Player: it.Owner, Cell: it.Cell, Unit: it.Unit, Work: id, Name: it.ActionName()})
	e.rec.WorkFinished(it.Kind, false)
	e.log.Debug().
		Int64("tick", e.tick).
		Uint64("work", uint64(id)).
		Str("kind", it.Kind.String()).
		Str("action", it.ActionName()).
		Msg("work completed")
}

func (e *Engine) completeTraining(it WorkItem) {
	desc := it.Action.(*ruleset.TrainingDescription)
	e.spawnUnit(it.Owner, desc.CreatedUnit, e.grid.ExitPoint(it.Cell))
}

func (e *Engine) completeResearch(it WorkItem) {
	name := it.Action.ActionName()
	e.research[it.Owner][name] = true
	e.emit(Event{Type: EventResearchCompleted, Player: it.Owner, Cell: it.Cell, Work: it.ID, Name: name})
}

func (e *Engine) completeConstruction(it WorkItem) {
	desc := it.Action.(*ruleset.BuildingDescription)
	props, _ := e.rules.Building(desc.CreatedBuilding)
	e.grid.At(it.Cell).FinishConstruction(props.HP)
	e.ledgers[it.Owner].Boost(props.BoostPopulation, props.BoostStockpile)
	e.emit(Event{Type: EventBuildingCompleted, Player: it.Owner, Cell: it.Cell, Work: it.ID, Name: desc.Name})
}

// completeHarvest pays one cycle into the unit's cargo and sends it to storage.
// The tile's harvest counter accumulates primary resources taken; every full
// scarcity threshold in it pays one scarce unit and the remainder carries over.
func (e *Engine) completeHarvest(it WorkItem) {
	u, ok := e.units[it.Unit]
	if !ok {
		return
	}
	e.release(u, it.Cell)

	tile := e.grid.At(it.Cell)
	h := it.Harvest
	if tile.Content != h.HarvestBuilding || tile.Remaining() <= 0 {
		if !e.seekResource(u) {
			e.goIdle(u)
		}
		return
	}

	amount := min(h.Yield, tile.Remaining())
	remaining := tile.Remaining() - amount
	count := tile.HarvestCount() + amount
	u.Cargo.Set(h.PrimaryResource, u.Cargo.Get(h.PrimaryResource)+amount)
	if threshold := h.ScarcityThreshold(remaining); count >= threshold {
		u.Cargo.Set(h.ScarceResource, u.Cargo.Get(h.ScarceResource)+count/threshold)
		count %= threshold
	}
	tile.ResourceValue = int32(remaining)
	tile.ResourceValue2 = int32(count)

	if remaining == 0 {
		e.depleteResource(it.Cell)
	}
	if !e.seekStorage(u) {
		e.log.Debug().Int64("unit", int64(u.ID)).Msg("no storage reachable, holding cargo")
		e.goIdle(u)
	}
}

// depleteResource turns an exhausted resource tile into land and sends anyone queued
// on it to look for another tile of the same kind
func (e *Engine) depleteResource(cell grid.Point) {
	tile := e.grid.At(cell)
	kind := tile.Content
	*tile = grid.Tile{Level: tile.Level, Rotation: tile.Rotation, Content: models.Land}
	for _, id := range e.queue.forCell(cell) {
		it := e.abortWork(id, false)
		if u, ok := e.units[it.Unit]; ok && it.Kind == WorkHarvest {
			u.GatherKind = kind
			e.seekResource(u)
		}
	}
	e.log.Debug().Stringer("cell", cell).Str("kind", kind.String()).Msg("resource depleted")
}

// completeReturn credits the cargo and resumes the gather loop
func (e *Engine) completeReturn(it WorkItem) {
	u, ok := e.units[it.Unit]
	if !ok {
		return
	}
	e.release(u, it.Cell)

	stored := e.ledgers[it.Owner].Credit(u.Cargo)
	u.Cargo = models.Resources{}
	e.rec.ResourcesCredited(it.Owner, stored)
	e.emit(Event{Type: EventResourcesDeposited, Player: it.Owner, Cell: it.Cell, Unit: u.ID, Work: it.ID, Amount: stored})

	if e.harvestable(u, u.GatherTile, u.GatherKind) {
		if e.gatherAt(u, e.grid.ExitPoint(u.GatherTile)) {
			return
		}
	}
	if !e.seekResource(u) {
		e.goIdle(u)
	}
}
