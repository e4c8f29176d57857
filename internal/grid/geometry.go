package grid

import (
	"fmt"
	"math"
)

// Point addresses a tile
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Step returns the neighbouring point in direction d
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vec2 is a continuous position measured in tiles
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2             { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2             { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2        { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64                { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64         { return v.Sub(o).Len() }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Scale(1 - t).Add(o.Scale(t)) }

// Tile returns the tile containing v
func (v Vec2) Tile() Point {
	return Point{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f,%.3f)", v.X, v.Y)
}

// FixedOne is one tile in fixed-point units
const FixedOne = 256

// Fixed is a sub-tile position in 1/256 tile units. Unit positions are kept in
// fixed point so repeated movement does not accumulate float drift.
type Fixed struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// ToFixed rounds v to the nearest fixed-point position
func ToFixed(v Vec2) Fixed {
	return Fixed{
		X: int32(math.Round(v.X * FixedOne)),
		Y: int32(math.Round(v.Y * FixedOne)),
	}
}

// Vec converts back to tile units
func (f Fixed) Vec() Vec2 {
	return Vec2{X: float64(f.X) / FixedOne, Y: float64(f.Y) / FixedOne}
}

// Tile returns the tile containing f
func (f Fixed) Tile() Point {
	return Point{X: int(f.X >> 8), Y: int(f.Y >> 8)}
}

// Direction of a neighbouring tile. 0 = none, 1 = +x, 2 = +y, 3 = -x, 4 = -y.
type Direction uint8

const (
	DirNone Direction = iota
	DirPosX
	DirPosY
	DirNegX
	DirNegY
)

// Directions lists the four neighbour directions in a fixed order
var Directions = [4]Direction{DirPosX, DirPosY, DirNegX, DirNegY}

// Delta returns the coordinate offset of d
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirPosX:
		return 1, 0
	case DirPosY:
		return 0, 1
	case DirNegX:
		return -1, 0
	case DirNegY:
		return 0, -1
	}
	return 0, 0
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	if d == DirNone {
		return DirNone
	}
	return Direction((int(d)+1)%4 + 1)
}

// FacingFromRotation maps a tile rotation (0-3) to the direction a structure faces
func FacingFromRotation(rotation uint8) Direction {
	return Direction(rotation&3 + 1)
}

// RotationFromFacing is the inverse of FacingFromRotation
func RotationFromFacing(d Direction) uint8 {
	if d == DirNone {
		return 0
	}
	return uint8(d - 1)
}
