package pathfind

import (
	"fmt"

	"github.com/napolitain/rts-core/internal/grid"
)

// RouteTile is the part of a route inside one tile: the points a unit walks through
// while it is on Tile, and their total length
type RouteTile struct {
	Tile   grid.Point  `json:"tile"`
	Steps  []grid.Vec2 `json:"steps"`
	Length float64     `json:"length"`
}

func (t *RouteTile) computeLength() {
	t.Length = 0
	for i := 1; i < len(t.Steps); i++ {
		t.Length += t.Steps[i-1].Dist(t.Steps[i])
	}
}

// Advance moves the first step forward by length along the tile's polyline
func (t *RouteTile) Advance(length float64) {
	for length > 0 && len(t.Steps) >= 2 {
		seg := t.Steps[0].Dist(t.Steps[1])
		if length >= seg {
			length -= seg
			t.Steps = t.Steps[1:]
			continue
		}
		t.Steps[0] = t.Steps[0].Lerp(t.Steps[1], length/seg)
		break
	}
	t.computeLength()
}

// Route is an incrementally consumed path from Current to Target
type Route struct {
	Current grid.Vec2   `json:"current"`
	Target  grid.Vec2   `json:"target"`
	Length  float64     `json:"length"`
	Tiles   []RouteTile `json:"tiles"`
}

func (r *Route) computeLength() {
	r.Length = 0
	for _, t := range r.Tiles {
		r.Length += t.Length
	}
}

// Advance walks distance along the route, dropping the tiles that were fully crossed
func (r *Route) Advance(distance float64) {
	for distance > 0 && len(r.Tiles) > 0 {
		head := &r.Tiles[0]
		if head.Length <= distance {
			distance -= head.Length
			r.Tiles = r.Tiles[1:]
			if len(r.Tiles) > 0 && len(r.Tiles[0].Steps) > 0 {
				r.Current = r.Tiles[0].Steps[0]
			}
			continue
		}
		head.Advance(distance)
		r.Current = head.Steps[0]
		break
	}
	if len(r.Tiles) == 0 {
		r.Current = r.Target
	}
	r.computeLength()
}

// Done reports whether the route has been fully consumed
func (r *Route) Done() bool {
	return len(r.Tiles) == 0
}

// CurrentTile is the tile the walker is in
func (r *Route) CurrentTile() grid.Point {
	if len(r.Tiles) == 0 {
		return r.Target.Tile()
	}
	return r.Tiles[0].Tile
}

func (r *Route) String() string {
	return fmt.Sprintf("Route(%v => %v length %.3f)", r.Current, r.Target, r.Length)
}
