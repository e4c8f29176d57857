package engine

import "github.com/napolitain/rts-core/internal/grid"

// advanceQueue runs the two queue passes of a tick. Active items progress and
// complete first, so a cell they free is promoted into in the same tick.
func (e *Engine) advanceQueue() {
	for _, id := range e.queue.ids() {
		it := e.queue.get(id)
		if it == nil || it.State != WorkActive {
			continue
		}
		// construction only moves when builders contribute
		if it.Kind != WorkConstruct {
			it.Elapsed++
		}
		if it.Elapsed >= it.Required {
			e.completeWork(id)
		}
	}

	for _, id := range e.queue.ids() {
		it := e.queue.get(id)
		if it == nil || it.State != WorkStopped {
			continue
		}
		if _, busy := e.queue.busy[it.Cell]; busy {
			continue
		}
		e.queue.activate(it)
	}
}

// liveWorkOn counts stopped and active items on cell
func (e *Engine) liveWorkOn(cell grid.Point) int {
	return len(e.queue.forCell(cell))
}

// abortWork removes a stopped or active item. refund is true for player
// cancellations; buildings that are destroyed take their queue down without one.
func (e *Engine) abortWork(id WorkID, refund bool) WorkItem {
	it := e.queue.remove(id, WorkCancelled)
	l := &e.ledgers[it.Owner]

	var refunded bool
	if refund && it.Kind.refundable() {
		back := l.Refund(it.Action.Costs(), e.opts.RefundPercent)
		e.rec.ResourcesCredited(it.Owner, back)
		refunded = true
	}

	switch it.Kind {
	case WorkTrain:
		l.ReleasePopulation(1)
	case WorkConstruct:
		if tile := e.grid.At(it.Cell); tile.Content.IsStructure() && !tile.Built() {
			tile.Revert()
		}
	case WorkHarvest, WorkReturnResource:
		if u, ok := e.units[it.Unit]; ok && u.Inside == id {
			e.release(u, it.Cell)
			e.goIdle(u)
		}
	}

	e.emit(Event{Type: EventWorkCancelled, Player: it.Owner, Cell: it.Cell, Unit: it.Unit, Work: id, Name: it.ActionName()})
	e.rec.WorkFinished(it.Kind, true)
	e.log.Debug().
		Uint64("work", uint64(id)).
		Str("kind", it.Kind.String()).
		Str("action", it.ActionName()).
		Bool("refunded", refunded).
		Msg("work cancelled")
	return it
}
