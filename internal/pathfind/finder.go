// Package pathfind finds routes over the tile grid with a breadth-first search whose
// ties between nodes of equal depth are broken by a seeded random source.
package pathfind

import (
	"math/rand/v2"

	"github.com/napolitain/rts-core/internal/grid"
)

// Navigator is the part of the world the finder needs
type Navigator interface {
	InBounds(p grid.Point) bool
	PathableTiles(p grid.Point) []grid.Point
}

type node struct {
	at    grid.Point
	depth int
}

// Finder searches routes. It keeps scratch state between calls and is not safe for
// concurrent use.
type Finder struct {
	nav Navigator
	rng *rand.Rand

	buckets [][]node
	minimum int
	parent  map[grid.Point]grid.Point
	seen    map[grid.Point]bool
	goals   map[grid.Point]bool
	finish  *node
}

// NewFinder creates a finder over nav. rng must be the simulation's seeded source.
func NewFinder(nav Navigator, rng *rand.Rand) *Finder {
	return &Finder{
		nav:    nav,
		rng:    rng,
		parent: make(map[grid.Point]grid.Point),
		seen:   make(map[grid.Point]bool),
		goals:  make(map[grid.Point]bool),
	}
}

func (f *Finder) reset() {
	f.buckets = f.buckets[:0]
	f.minimum = 0
	clear(f.parent)
	clear(f.seen)
	clear(f.goals)
	f.finish = nil
}

func (f *Finder) enqueue(from, to grid.Point, depth int) {
	f.parent[to] = from
	f.seen[to] = true
	n := node{at: to, depth: depth}
	if f.goals[to] && f.finish == nil {
		f.finish = &n
	}
	for len(f.buckets) <= depth {
		f.buckets = append(f.buckets, nil)
	}
	f.buckets[depth] = append(f.buckets[depth], n)
}

// dequeue removes a random node of the smallest queued depth
func (f *Finder) dequeue() (node, bool) {
	for f.minimum < len(f.buckets) && len(f.buckets[f.minimum]) == 0 {
		f.minimum++
	}
	if f.minimum >= len(f.buckets) {
		return node{}, false
	}
	nodes := f.buckets[f.minimum]
	i := 0
	if len(nodes) > 1 {
		i = f.rng.IntN(len(nodes))
	}
	n := nodes[i]
	f.buckets[f.minimum] = append(nodes[:i], nodes[i+1:]...)
	return n, true
}

func (f *Finder) expand(n node) {
	for _, next := range f.nav.PathableTiles(n.at) {
		if f.seen[next] {
			continue
		}
		f.enqueue(n.at, next, n.depth+1)
		if f.finish != nil {
			return
		}
	}
}

// FindRouteToNearest returns a route from start to whichever goal tile the search
// reaches first. It returns false when no goal can be reached.
func (f *Finder) FindRouteToNearest(start grid.Vec2, goals ...grid.Vec2) (*Route, bool) {
	if len(goals) == 0 || !f.nav.InBounds(start.Tile()) {
		return nil, false
	}
	f.reset()
	for _, g := range goals {
		f.goals[g.Tile()] = true
	}

	from := start.Tile()
	f.seen[from] = true
	if f.goals[from] {
		for _, g := range goals {
			if g.Tile() == from {
				return singleTileRoute(start, g), true
			}
		}
	}

	f.expand(node{at: from})
	for f.finish == nil {
		n, ok := f.dequeue()
		if !ok {
			return nil, false
		}
		f.expand(n)
	}

	trace := []grid.Point{f.finish.at}
	for p := f.finish.at; p != from; {
		p = f.parent[p]
		trace = append(trace, p)
	}

	var target grid.Vec2
	for _, g := range goals {
		if g.Tile() == f.finish.at {
			target = g
			break
		}
	}

	r := &Route{Current: start, Target: target, Tiles: make([]RouteTile, len(trace))}
	for i := range trace {
		r.Tiles[i].Tile = trace[len(trace)-1-i]
	}
	r.Tiles[0].Steps = append(r.Tiles[0].Steps, start)
	for i := 1; i < len(r.Tiles); i++ {
		mid := grid.CenterPoint(r.Tiles[i-1].Tile).Add(grid.CenterPoint(r.Tiles[i].Tile)).Scale(0.5)
		r.Tiles[i-1].Steps = append(r.Tiles[i-1].Steps, mid)
		r.Tiles[i].Steps = append(r.Tiles[i].Steps, mid)
	}
	last := &r.Tiles[len(r.Tiles)-1]
	last.Steps = append(last.Steps, target)
	for i := range r.Tiles {
		r.Tiles[i].computeLength()
	}
	r.computeLength()
	return r, true
}

func singleTileRoute(start, end grid.Vec2) *Route {
	t := RouteTile{Tile: start.Tile(), Steps: []grid.Vec2{start, end}}
	t.computeLength()
	r := &Route{Current: start, Target: end, Tiles: []RouteTile{t}}
	r.computeLength()
	return r
}
