package engine

import "time"

// UpdateTime feeds elapsed wall time into the clock and runs every whole tick that
// became due. The sub-tick remainder carries over, so splitting the same total time
// across calls yields the same ticks. It returns the number of ticks run.
func (e *Engine) UpdateTime(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	e.carry += elapsed.Nanoseconds() * int64(e.opts.TickRate)
	due := e.carry / int64(time.Second)
	e.carry %= int64(time.Second)
	for range due {
		e.AdvanceTick()
	}
	return int(due)
}

// AdvanceTick runs one simulation step: unit tasks in id order, turrets, casualties,
// then the work queue passes
func (e *Engine) AdvanceTick() {
	e.tick++
	e.updateUnits()
	e.updateTurrets()
	e.reapUnits()
	e.advanceQueue()
	e.rec.TickAdvanced(e.tick, len(e.units), e.queue.len())
}
