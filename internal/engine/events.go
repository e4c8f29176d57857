package engine

import (
	"container/heap"

	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
)

// EventType represents the type of simulation event
type EventType int

const (
	EventBuildingDestroyed EventType = iota
	EventWorkCancelled
	EventWorkCompleted
	EventBuildingCompleted
	EventResearchCompleted
	EventUnitSpawned
	EventResourcesDeposited
	EventUnitDied
)

// String returns a string representation of the event type
func (et EventType) String() string {
	switch et {
	case EventBuildingDestroyed:
		return "BuildingDestroyed"
	case EventWorkCancelled:
		return "WorkCancelled"
	case EventWorkCompleted:
		return "WorkCompleted"
	case EventBuildingCompleted:
		return "BuildingCompleted"
	case EventResearchCompleted:
		return "ResearchCompleted"
	case EventUnitSpawned:
		return "UnitSpawned"
	case EventResourcesDeposited:
		return "ResourcesDeposited"
	case EventUnitDied:
		return "UnitDied"
	default:
		return "Unknown"
	}
}

// Priority returns the ordering of events raised in the same tick.
// Lower priority = drained first.
func (et EventType) Priority() int {
	switch et {
	case EventBuildingDestroyed:
		return 0
	case EventWorkCancelled:
		return 1
	case EventWorkCompleted:
		return 2
	case EventBuildingCompleted, EventResearchCompleted:
		return 3
	case EventUnitSpawned, EventResourcesDeposited:
		return 4
	case EventUnitDied:
		return 5
	default:
		return 99
	}
}

// Event is something that happened during a tick, kept for UI feedback and replay checks
type Event struct {
	Tick     int64            `json:"tick"`
	Type     EventType        `json:"type"`
	Player   models.PlayerID  `json:"player"`
	Cell     grid.Point       `json:"cell"`
	Unit     UnitID           `json:"unit,omitempty"`
	Work     WorkID           `json:"work,omitempty"`
	Name     string           `json:"name,omitempty"`
	Amount   models.Resources `json:"amount"`
	Sequence int64            `json:"sequence"`
}

// eventHeap implements heap.Interface for min-heap of Events
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Tick != h[j].Tick {
		return h[i].Tick < h[j].Tick
	}
	if h[i].Type.Priority() != h[j].Type.Priority() {
		return h[i].Type.Priority() < h[j].Type.Priority()
	}
	return h[i].Sequence < h[j].Sequence
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// EventQueue orders events by (Tick, Priority, Sequence). Sequence numbers are per
// queue so two engines fed the same input produce the same event stream.
type EventQueue struct {
	h   eventHeap
	seq int64
}

// NewEventQueue creates a new empty event queue
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		h: make(eventHeap, 0),
	}
	heap.Init(&q.h)
	return q
}

// Push adds an event to the queue with automatic sequence assignment
func (q *EventQueue) Push(e Event) {
	q.seq++
	e.Sequence = q.seq
	heap.Push(&q.h, e)
}

// Pop removes and returns the minimum event
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.h).(Event), true
}

// Len returns the number of events in the queue
func (q *EventQueue) Len() int {
	return len(q.h)
}

// Drain pops every event in order
func (q *EventQueue) Drain() []Event {
	out := make([]Event, 0, len(q.h))
	for {
		e, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}
