package grid

import (
	"fmt"
	"math/rand/v2"

	"github.com/napolitain/rts-core/internal/models"
)

// MaxPlayers is the number of town centers Generate can place (one per corner)
const MaxPlayers = 4

// GenerateOptions controls random map generation
type GenerateOptions struct {
	Width         int
	Height        int
	Players       int
	Plateaus      int
	Lakes         int
	Forests       int
	Mines         int
	ResourceStock int
}

// DefaultGenerateOptions returns a two player 32x32 map setup
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Width:         32,
		Height:        32,
		Players:       2,
		Plateaus:      4,
		Lakes:         3,
		Forests:       8,
		Mines:         4,
		ResourceStock: 200,
	}
}

// NewRand returns the seeded PCG source shared by map generation and the
// engine's path tie-breaks
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// centerInset is the distance of town centers from the map corners
const centerInset = 3

// Generate builds a random map: raised plateaus with ramps, lakes, forest clusters,
// cliff mines and one unowned, unbuilt town center per player
func Generate(opts GenerateOptions, rng *rand.Rand) (*Grid, error) {
	if opts.Players < 0 || opts.Players > MaxPlayers {
		return nil, fmt.Errorf("generate: %d players, want 0..%d", opts.Players, MaxPlayers)
	}
	minSide := 2*centerInset + 4
	if opts.Width < minSide || opts.Height < minSide {
		return nil, fmt.Errorf("generate: map %dx%d smaller than %dx%d", opts.Width, opts.Height, minSide, minSide)
	}
	g, err := New(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	for range opts.Plateaus {
		g.raisePlateau(rng)
	}

	centers := g.centerPoints(opts.Players)
	for _, c := range centers {
		g.flatten(c, 2)
	}

	for range opts.Lakes {
		g.digLake(rng, centers)
	}
	for range opts.Forests {
		g.plantForest(rng, centers, opts.ResourceStock)
	}
	g.placeMines(rng, centers, opts.Mines, opts.ResourceStock)

	for _, c := range centers {
		t := g.At(c)
		t.Content = models.Center
		t.Rotation = RotationFromFacing(g.facingTowardMiddle(c))
	}

	g.dropInvalidRamps()
	g.Randomize(rng)
	return g, nil
}

// Randomize picks a visual variation for every tile and a rotation for plain terrain
func (g *Grid) Randomize(rng *rand.Rand) {
	for p := range g.All() {
		t := g.At(p)
		t.Variation = uint8(rng.IntN(AlternateCount(t.Content)))
		switch t.Content {
		case models.Land, models.Forest, models.Water:
			t.Rotation = uint8(rng.IntN(4))
		}
	}
}

func (g *Grid) raisePlateau(rng *rand.Rand) {
	w := 3 + rng.IntN(5)
	h := 3 + rng.IntN(5)
	if w+4 > g.Width || h+4 > g.Height {
		return
	}
	x0 := 2 + rng.IntN(g.Width-w-3)
	y0 := 2 + rng.IntN(g.Height-h-3)
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			t := g.At(Pt(x, y))
			if t.Level < MaxLayer {
				t.Level++
			}
			if t.Content == models.Ramp {
				t.Content = models.Land
			}
		}
	}

	side := Directions[rng.IntN(len(Directions))]
	var edge Point
	switch side {
	case DirPosX:
		edge = Pt(x0+w-1, y0+h/2)
	case DirNegX:
		edge = Pt(x0, y0+h/2)
	case DirPosY:
		edge = Pt(x0+w/2, y0+h-1)
	case DirNegY:
		edge = Pt(x0+w/2, y0)
	}
	ramp := edge.Step(side)
	if g.InBounds(ramp) && g.At(ramp).Level+1 == g.At(edge).Level {
		g.At(ramp).Content = models.Ramp
	}
}

func (g *Grid) centerPoints(players int) []Point {
	corners := []Point{
		Pt(centerInset, centerInset),
		Pt(g.Width-1-centerInset, g.Height-1-centerInset),
		Pt(g.Width-1-centerInset, centerInset),
		Pt(centerInset, g.Height-1-centerInset),
	}
	return corners[:players]
}

func (g *Grid) flatten(c Point, radius int) {
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			p := Pt(x, y)
			if !g.InBounds(p) {
				continue
			}
			*g.At(p) = Tile{}
		}
	}
}

func (g *Grid) facingTowardMiddle(c Point) Direction {
	dx := g.Width/2 - c.X
	dy := g.Height/2 - c.Y
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return DirPosX
		}
		return DirNegX
	}
	if dy >= 0 {
		return DirPosY
	}
	return DirNegY
}

func nearAny(p Point, centers []Point, dist int) bool {
	for _, c := range centers {
		if abs(p.X-c.X) <= dist && abs(p.Y-c.Y) <= dist {
			return true
		}
	}
	return false
}

func (g *Grid) randomPoint(rng *rand.Rand) Point {
	return Pt(rng.IntN(g.Width), rng.IntN(g.Height))
}

func (g *Grid) digLake(rng *rand.Rand, centers []Point) {
	c := g.randomPoint(rng)
	radius := 1 + rng.IntN(2)
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			p := Pt(x, y)
			if !g.InBounds(p) || nearAny(p, centers, 4) {
				continue
			}
			t := g.At(p)
			if t.Content == models.Land && t.Level == 0 {
				t.Content = models.Water
			}
		}
	}
}

func (g *Grid) plantForest(rng *rand.Rand, centers []Point, stock int) {
	p := g.randomPoint(rng)
	size := 3 + rng.IntN(6)
	for range size {
		if g.InBounds(p) && !nearAny(p, centers, 2) {
			t := g.At(p)
			if t.Content == models.Land {
				t.Content = models.Forest
				t.ResourceValue = int32(stock)
				t.ResourceValue2 = 0
			}
		}
		p = p.Step(Directions[rng.IntN(len(Directions))])
	}
}

func (g *Grid) placeMines(rng *rand.Rand, centers []Point, n, stock int) {
	var candidates []Point
	for p := range g.All() {
		if g.At(p).Content != models.Land || nearAny(p, centers, 2) {
			continue
		}
		if g.CliffDirection(p) != DirNone {
			candidates = append(candidates, p)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, p := range candidates[:min(n, len(candidates))] {
		t := g.At(p)
		t.Content = models.Mine
		t.ResourceValue = int32(stock)
		t.ResourceValue2 = 0
	}
}

// dropInvalidRamps turns ramps without a valid top/foot pair back into land
func (g *Grid) dropInvalidRamps() {
	for {
		changed := false
		for p := range g.All() {
			if g.At(p).Content == models.Ramp && g.RampDirection(p) == DirNone {
				g.At(p).Content = models.Land
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
