package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

// WorkKind is what a queued work item does when it completes
type WorkKind int

const (
	WorkTrain WorkKind = iota
	WorkHarvest
	WorkReturnResource
	WorkResearch
	WorkConstruct
)

func (k WorkKind) String() string {
	switch k {
	case WorkTrain:
		return "train"
	case WorkHarvest:
		return "harvest"
	case WorkReturnResource:
		return "return"
	case WorkResearch:
		return "research"
	case WorkConstruct:
		return "construct"
	}
	return "unknown"
}

// refundable kinds were paid for by the player
func (k WorkKind) refundable() bool {
	return k == WorkTrain || k == WorkResearch || k == WorkConstruct
}

// WorkState tags where an item is in its lifecycle
type WorkState int

const (
	WorkStopped WorkState = iota
	WorkActive
	WorkCompleted
	WorkCancelled
)

func (s WorkState) String() string {
	switch s {
	case WorkStopped:
		return "stopped"
	case WorkActive:
		return "active"
	case WorkCompleted:
		return "completed"
	case WorkCancelled:
		return "cancelled"
	}
	return "unknown"
}

// WorkID identifies a work item: arena slot in the low 32 bits, slot generation in
// the high 32 bits. A stale ID never resolves to a newer item in the same slot.
type WorkID uint64

// NoWork is the zero WorkID
const NoWork WorkID = 0

func makeWorkID(slot, gen uint32) WorkID { return WorkID(uint64(gen)<<32 | uint64(slot)) }

func (id WorkID) slot() uint32 { return uint32(id) }

func (id WorkID) gen() uint32 { return uint32(id >> 32) }

// WorkItem is one queued, tick-costed piece of production
type WorkItem struct {
	ID       WorkID
	Owner    models.PlayerID
	Kind     WorkKind
	Cell     grid.Point
	Elapsed  int
	Required int
	State    WorkState
	// Action is set for Train, Research and Construct items
	Action ruleset.Action
	// Harvest is set for Harvest items
	Harvest *ruleset.ResourceHarvestingDescription
	// Unit is the worker inside the resource or storage for Harvest and
	// ReturnResource items
	Unit UnitID
}

// ActionName returns the name of the linked action, or the work kind
func (w *WorkItem) ActionName() string {
	switch {
	case w.Action != nil:
		return w.Action.ActionName()
	case w.Harvest != nil:
		return w.Harvest.Name
	}
	return w.Kind.String()
}

// WorkView is a read-only copy of a work item for queries and snapshots
type WorkView struct {
	ID       WorkID          `json:"id"`
	Owner    models.PlayerID `json:"owner"`
	Kind     WorkKind        `json:"kind"`
	Cell     grid.Point      `json:"cell"`
	Elapsed  int             `json:"elapsed"`
	Required int             `json:"required"`
	State    WorkState       `json:"state"`
	Action   string          `json:"action"`
	Unit     UnitID          `json:"unit,omitempty"`
}

func (w *WorkItem) view() WorkView {
	return WorkView{
		ID: w.ID, Owner: w.Owner, Kind: w.Kind, Cell: w.Cell, Elapsed: w.Elapsed,
		Required: w.Required, State: w.State, Action: w.ActionName(), Unit: w.Unit,
	}
}

type workSlot struct {
	item WorkItem
	gen  uint32
	live bool
}

// workQueue is an arena of work items. Every live item is in order exactly once,
// tagged Stopped or Active; busy maps a cell to its single Active item.
type workQueue struct {
	slots []workSlot
	free  []uint32
	order []uint32
	busy  map[grid.Point]WorkID
}

func newWorkQueue() *workQueue {
	return &workQueue{busy: make(map[grid.Point]WorkID)}
}

// add stores item in the Stopped state and returns its id
func (q *workQueue) add(item WorkItem) WorkID {
	var slot uint32
	if n := len(q.free); n > 0 {
		slot = q.free[n-1]
		q.free = q.free[:n-1]
	} else {
		slot = uint32(len(q.slots))
		q.slots = append(q.slots, workSlot{})
	}
	s := &q.slots[slot]
	s.gen++
	s.live = true
	item.ID = makeWorkID(slot, s.gen)
	item.State = WorkStopped
	s.item = item
	q.order = append(q.order, slot)
	return item.ID
}

// get resolves id, or nil when the item is gone
func (q *workQueue) get(id WorkID) *WorkItem {
	slot := id.slot()
	if id == NoWork || int(slot) >= len(q.slots) {
		return nil
	}
	s := &q.slots[slot]
	if !s.live || s.gen != id.gen() {
		return nil
	}
	return &s.item
}

// remove drops the item from the arena and frees its busy marker. The returned copy
// carries the final state.
func (q *workQueue) remove(id WorkID, final WorkState) WorkItem {
	it := q.get(id)
	if it == nil {
		panic(fmt.Sprintf("engine: remove of unknown work %d", id))
	}
	if q.busy[it.Cell] == id {
		delete(q.busy, it.Cell)
	}
	out := *it
	out.State = final
	slot := id.slot()
	q.slots[slot].live = false
	q.slots[slot].item = WorkItem{}
	q.free = append(q.free, slot)
	q.order = slices.DeleteFunc(q.order, func(s uint32) bool { return s == slot })
	return out
}

// activate promotes a Stopped item and marks its cell busy
func (q *workQueue) activate(it *WorkItem) {
	if holder, ok := q.busy[it.Cell]; ok {
		panic(fmt.Sprintf("engine: cell %v already busy with work %d, cannot activate %d", it.Cell, holder, it.ID))
	}
	it.State = WorkActive
	q.busy[it.Cell] = it.ID
}

// ids returns the live item ids in insertion order. Resolve them with get: items
// may be removed, and slots reallocated, while the caller walks the list.
func (q *workQueue) ids() []WorkID {
	out := make([]WorkID, 0, len(q.order))
	for _, slot := range q.order {
		out = append(out, q.slots[slot].item.ID)
	}
	return out
}

// forCell returns the ids of the live items on cell in insertion order
func (q *workQueue) forCell(cell grid.Point) []WorkID {
	var out []WorkID
	for _, slot := range q.order {
		if it := &q.slots[slot].item; it.Cell == cell {
			out = append(out, it.ID)
		}
	}
	return out
}

func (q *workQueue) len() int { return len(q.order) }

// check verifies the arena invariants
func (q *workQueue) check() error {
	var errs []error
	seen := make(map[uint32]bool, len(q.order))
	active := make(map[grid.Point]WorkID)
	for _, slot := range q.order {
		if seen[slot] {
			errs = append(errs, fmt.Errorf("slot %d listed twice", slot))
			continue
		}
		seen[slot] = true
		s := q.slots[slot]
		if !s.live {
			errs = append(errs, fmt.Errorf("slot %d listed but not live", slot))
			continue
		}
		switch s.item.State {
		case WorkStopped:
		case WorkActive:
			if other, dup := active[s.item.Cell]; dup {
				errs = append(errs, fmt.Errorf("cell %v has two active items %d and %d", s.item.Cell, other, s.item.ID))
			}
			active[s.item.Cell] = s.item.ID
			if q.busy[s.item.Cell] != s.item.ID {
				errs = append(errs, fmt.Errorf("active item %d not marked busy on %v", s.item.ID, s.item.Cell))
			}
		default:
			errs = append(errs, fmt.Errorf("live item %d in state %s", s.item.ID, s.item.State))
		}
	}
	for i, s := range q.slots {
		if s.live && !seen[uint32(i)] {
			errs = append(errs, fmt.Errorf("live slot %d missing from order", i))
		}
	}
	for cell, id := range q.busy {
		if active[cell] != id {
			errs = append(errs, fmt.Errorf("busy marker on %v points at %d which is not active there", cell, id))
		}
	}
	return errors.Join(errs...)
}
