// Package grid holds the fixed-size tile world and the geometry derived from it.
package grid

import (
	"fmt"
	"iter"

	"github.com/napolitain/rts-core/internal/models"
)

const (
	// MaxLayer is the highest terrain level
	MaxLayer = 7
	// LayerHeight is the world height of one level
	LayerHeight = 1.0
)

const (
	builtFlag    = 1
	priorShift   = 8
	priorMask    = 0xff
	ownerBits    = 4
	maxOwnerSlot = 1<<ownerBits - 1
)

// Tile is one map cell. ResourceValue and ResourceValue2 are packed payload slots
// whose meaning depends on Content (see Built, HP, Remaining, HarvestCount).
type Tile struct {
	Level          uint8           `json:"level"`
	Variation      uint8           `json:"variation"`
	Rotation       uint8           `json:"rotation"`
	Owner          uint8           `json:"owner"`
	Content        models.TileKind `json:"content"`
	ResourceValue  int32           `json:"resource_value"`
	ResourceValue2 int32           `json:"resource_value2"`
}

// IsFlat reports whether units and buildings can stand on the tile at a single level
func (t Tile) IsFlat() bool {
	switch t.Content {
	case models.Ramp, models.Water, models.Bridge:
		return false
	}
	return true
}

// IsNavigable reports whether units may cross the tile
func (t Tile) IsNavigable() bool {
	return t.Content != models.Water
}

// OwnerID returns the owning player of a structure tile
func (t Tile) OwnerID() models.PlayerID {
	return models.PlayerID(t.Owner)
}

// SetOwner assigns the owning player slot (0-15)
func (t *Tile) SetOwner(owner models.PlayerID) {
	if owner < 0 || owner > maxOwnerSlot {
		panic(fmt.Sprintf("grid: owner %d does not fit in %d bits", owner, ownerBits))
	}
	t.Owner = uint8(owner)
}

// Built reports whether a structure tile has finished construction
func (t Tile) Built() bool {
	return t.Content.IsStructure() && t.ResourceValue2&builtFlag != 0
}

// HP of a structure tile
func (t Tile) HP() int {
	return int(t.ResourceValue)
}

// SetHP stores the HP of a structure tile
func (t *Tile) SetHP(hp int) {
	t.ResourceValue = int32(hp)
}

// Remaining resource stock of a Forest or Mine
func (t Tile) Remaining() int {
	return int(t.ResourceValue)
}

// HarvestCount is the primary resources harvested since the last scarce payout
func (t Tile) HarvestCount() int {
	return int(t.ResourceValue2)
}

// PriorContent is the terrain a structure was built over
func (t Tile) PriorContent() models.TileKind {
	return models.TileKind((t.ResourceValue2 >> priorShift) & priorMask)
}

// BeginConstruction paints an unbuilt structure over the current terrain
func (t *Tile) BeginConstruction(kind models.TileKind, owner models.PlayerID, hp int) {
	prior := t.Content
	t.Content = kind
	t.SetOwner(owner)
	t.ResourceValue = int32(hp)
	t.ResourceValue2 = int32(prior) << priorShift
}

// FinishConstruction marks the structure built at full HP
func (t *Tile) FinishConstruction(hp int) {
	t.ResourceValue = int32(hp)
	t.ResourceValue2 |= builtFlag
}

// PlaceBuilt puts a completed structure on the tile (map setup)
func (t *Tile) PlaceBuilt(kind models.TileKind, owner models.PlayerID, hp int) {
	t.BeginConstruction(kind, owner, hp)
	t.FinishConstruction(hp)
}

// Revert restores the terrain that was there before construction
func (t *Tile) Revert() {
	t.Content = t.PriorContent()
	t.Owner = 0
	t.ResourceValue = 0
	t.ResourceValue2 = 0
}

// Grid is a fixed Width x Height array of tiles stored row-major
type Grid struct {
	Width  int
	Height int
	tiles  []Tile
}

// New creates a grid of plain level-0 land
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid size %dx%d", width, height)
	}
	return &Grid{Width: width, Height: height, tiles: make([]Tile, width*height)}, nil
}

// InBounds reports whether p addresses a tile
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

func (g *Grid) index(p Point) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: point %v outside %dx%d", p, g.Width, g.Height))
	}
	return p.Y*g.Width + p.X
}

// At returns the tile at p for in-place reads and writes. Out-of-range points panic.
func (g *Grid) At(p Point) *Tile {
	return &g.tiles[g.index(p)]
}

// Get returns a copy of the tile at p
func (g *Grid) Get(p Point) Tile {
	return g.tiles[g.index(p)]
}

// Set replaces the tile at p
func (g *Grid) Set(p Point, t Tile) {
	g.tiles[g.index(p)] = t
}

// All yields every coordinate in row-major order
func (g *Grid) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Tiles returns a copy of the tile array in row-major order
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{Width: g.Width, Height: g.Height, tiles: g.Tiles()}
}

// Equal reports whether both grids have the same size and tiles
func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height {
		return false
	}
	for i := range g.tiles {
		if g.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// AlternateCount is the number of visual variations available for a tile kind
func AlternateCount(k models.TileKind) int {
	if k == models.Water || k == models.Bridge {
		return 1
	}
	return 3
}
