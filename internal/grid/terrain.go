package grid

import "github.com/napolitain/rts-core/internal/models"

// exitOffset keeps the exit point inside the structure tile
const exitOffset = 0.4

// TileInDirection returns the neighbour of p in direction d, or p itself when the
// neighbour would be off the map
func (g *Grid) TileInDirection(p Point, d Direction) Point {
	q := p.Step(d)
	if !g.InBounds(q) {
		return p
	}
	return q
}

// RampDirection returns which side of a ramp is the top. x has priority over y.
// Flat tiles and ramps without a valid lower/upper pair return DirNone.
func (g *Grid) RampDirection(p Point) Direction {
	t := g.At(p)
	if t.Content != models.Ramp {
		return DirNone
	}
	l := int(t.Level)
	if p.X > 0 && p.X+1 < g.Width {
		ln := int(g.At(Pt(p.X-1, p.Y)).Level)
		lp := int(g.At(Pt(p.X+1, p.Y)).Level)
		if ln == l-1 && g.RampDirection(Pt(p.X-1, p.Y)) == DirPosX {
			ln = l
		}
		if lp == l-1 && g.RampDirection(Pt(p.X+1, p.Y)) == DirNegX {
			lp = l
		}
		if ln == l && lp == l+1 {
			return DirPosX
		}
		if lp == l && ln == l+1 {
			return DirNegX
		}
	}
	if p.Y > 0 && p.Y+1 < g.Height {
		ln := int(g.At(Pt(p.X, p.Y-1)).Level)
		lp := int(g.At(Pt(p.X, p.Y+1)).Level)
		if ln == l-1 && g.RampDirection(Pt(p.X, p.Y-1)) == DirPosY {
			ln = l
		}
		if lp == l-1 && g.RampDirection(Pt(p.X, p.Y+1)) == DirNegY {
			lp = l
		}
		if ln == l && lp == l+1 {
			return DirPosY
		}
		if lp == l && ln == l+1 {
			return DirNegY
		}
	}
	return DirNone
}

// CliffDirection returns the first side whose neighbour stands higher than p
// (the cliff a mine is attached to)
func (g *Grid) CliffDirection(p Point) Direction {
	level := g.At(p).Level
	for _, d := range Directions {
		if g.At(g.TileInDirection(p, d)).Level > level {
			return d
		}
	}
	return DirNone
}

// HeightAt returns the elevation at the tile center. Ramps sit half a level up.
func (g *Grid) HeightAt(p Point) float64 {
	t := g.At(p)
	h := float64(t.Level)
	if t.Content == models.Ramp && g.RampDirection(p) != DirNone {
		h += 0.5
	}
	return h * LayerHeight
}

// ElevationAt interpolates the terrain height at a continuous position
func (g *Grid) ElevationAt(v Vec2) float64 {
	p := v.Tile()
	t := g.At(p)
	h := float64(t.Level)
	if t.Content == models.Ramp {
		fx := v.X - float64(p.X)
		fy := v.Y - float64(p.Y)
		switch g.RampDirection(p) {
		case DirPosX:
			h += fx
		case DirNegX:
			h += 1 - fx
		case DirPosY:
			h += fy
		case DirNegY:
			h += 1 - fy
		}
	}
	return h * LayerHeight
}

// CenterPoint returns the middle of tile p
func CenterPoint(p Point) Vec2 {
	return Vec2{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
}

// ExitPoint is where units appear when they leave the structure or resource at p:
// structures emit on their facing side, mines on the side away from their cliff.
func (g *Grid) ExitPoint(p Point) Vec2 {
	t := g.At(p)
	var d Direction
	switch {
	case t.Content == models.Mine:
		d = g.CliffDirection(p).Opposite()
	case t.Content.IsStructure():
		d = FacingFromRotation(t.Rotation)
	}
	dx, dy := d.Delta()
	return CenterPoint(p).Add(Vec2{X: float64(dx) * exitOffset, Y: float64(dy) * exitOffset})
}

// edgeHeight returns the height (in half levels) of the given side of tile p, or
// false when units cannot cross that side
func (g *Grid) edgeHeight(p Point, side Direction) (int, bool) {
	t := g.At(p)
	if !t.IsNavigable() {
		return 0, false
	}
	base := 2 * int(t.Level)
	if t.Content != models.Ramp {
		return base, true
	}
	top := g.RampDirection(p)
	switch side {
	case DirNone:
		return base, true
	case top:
		return base + 2, true
	case top.Opposite():
		return base, true
	}
	if top == DirNone {
		return base, true
	}
	return 0, false
}

// PathableTiles returns the neighbours of p a unit can step to, in Directions order
func (g *Grid) PathableTiles(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range Directions {
		q := p.Step(d)
		if !g.InBounds(q) {
			continue
		}
		ha, ok := g.edgeHeight(p, d)
		if !ok {
			continue
		}
		hb, ok := g.edgeHeight(q, d.Opposite())
		if !ok || ha != hb {
			continue
		}
		out = append(out, q)
	}
	return out
}
