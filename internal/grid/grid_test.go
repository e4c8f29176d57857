package grid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/models"
)

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := New(w, h)
	require.NoError(t, err)
	return g
}

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(0, 4)
	assert.Error(t, err)
	_, err = New(4, -1)
	assert.Error(t, err)
}

func TestOutOfBoundsPanics(t *testing.T) {
	g := mustGrid(t, 3, 2)

	assert.Panics(t, func() { g.At(Pt(3, 0)) })
	assert.Panics(t, func() { g.Get(Pt(0, -1)) })
	assert.Panics(t, func() { g.Set(Pt(0, 2), Tile{}) })
	assert.NotPanics(t, func() { g.At(Pt(2, 1)) })
}

func TestAllIsRowMajorAndRestartable(t *testing.T) {
	g := mustGrid(t, 3, 2)

	var first []Point
	for p := range g.All() {
		first = append(first, p)
	}
	assert.Equal(t, []Point{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(0, 1), Pt(1, 1), Pt(2, 1)}, first)

	var second []Point
	for p := range g.All() {
		second = append(second, p)
		if len(second) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], second)
}

func TestTilePayloadPacking(t *testing.T) {
	var tile Tile
	tile.Content = models.Forest

	tile.BeginConstruction(models.House, 2, 30)
	assert.False(t, tile.Built())
	assert.Equal(t, 30, tile.HP())
	assert.Equal(t, models.Forest, tile.PriorContent())
	assert.Equal(t, models.PlayerID(2), tile.OwnerID())

	tile.FinishConstruction(120)
	assert.True(t, tile.Built())
	assert.Equal(t, 120, tile.HP())

	tile.Revert()
	assert.Equal(t, models.Forest, tile.Content)
	assert.False(t, tile.Built())
}

func TestSetOwnerOutOfRangePanics(t *testing.T) {
	var tile Tile
	assert.Panics(t, func() { tile.SetOwner(16) })
}

// rampRow builds a 5x1 strip: level 0, 0, ramp at 0, 1, 1
func rampRow(t *testing.T) *Grid {
	g := mustGrid(t, 5, 3)
	for p := range g.All() {
		if p.X >= 3 {
			g.At(p).Level = 1
		}
	}
	g.At(Pt(2, 1)).Content = models.Ramp
	return g
}

func TestRampDirection(t *testing.T) {
	g := rampRow(t)

	assert.Equal(t, DirPosX, g.RampDirection(Pt(2, 1)))
	assert.Equal(t, DirNone, g.RampDirection(Pt(1, 1)), "land is not a ramp")

	assert.InDelta(t, 0.5, g.HeightAt(Pt(2, 1)), 1e-9)
	assert.InDelta(t, 1.0, g.HeightAt(Pt(3, 1)), 1e-9)
	assert.InDelta(t, 0.25, g.ElevationAt(Vec2{X: 2.25, Y: 1.5}), 1e-9)
}

func TestCliffDirectionAndExitPoint(t *testing.T) {
	g := rampRow(t)
	g.At(Pt(2, 0)).Content = models.Mine

	assert.Equal(t, DirPosX, g.CliffDirection(Pt(2, 0)))
	assert.Equal(t, Vec2{X: 2.1, Y: 0.5}, roundVec(g.ExitPoint(Pt(2, 0))))

	g.At(Pt(0, 2)).PlaceBuilt(models.Center, 0, 100)
	g.At(Pt(0, 2)).Rotation = RotationFromFacing(DirNegY)
	assert.Equal(t, Vec2{X: 0.5, Y: 2.1}, roundVec(g.ExitPoint(Pt(0, 2))))
}

func roundVec(v Vec2) Vec2 {
	r := func(f float64) float64 { return float64(int(f*1000+0.5)) / 1000 }
	return Vec2{X: r(v.X), Y: r(v.Y)}
}

func TestTileInDirectionClampsToSelf(t *testing.T) {
	g := mustGrid(t, 2, 2)
	assert.Equal(t, Pt(0, 0), g.TileInDirection(Pt(0, 0), DirNegX))
	assert.Equal(t, Pt(1, 0), g.TileInDirection(Pt(0, 0), DirPosX))
}

func TestPathableTiles(t *testing.T) {
	g := rampRow(t)

	assert.ElementsMatch(t, []Point{Pt(3, 1), Pt(1, 1)}, g.PathableTiles(Pt(2, 1)), "ramp connects foot and top only")
	assert.ElementsMatch(t, []Point{Pt(2, 1), Pt(1, 0), Pt(1, 2), Pt(0, 1)}, g.PathableTiles(Pt(1, 1)))
	assert.NotContains(t, g.PathableTiles(Pt(2, 0)), Pt(3, 0), "cliff")

	g.At(Pt(0, 1)).Content = models.Water
	assert.NotContains(t, g.PathableTiles(Pt(1, 1)), Pt(0, 1))
}

func TestMapPayloadRoundTrip(t *testing.T) {
	g, err := Generate(DefaultGenerateOptions(), rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)
	g.At(Pt(3, 3)).PlaceBuilt(models.Center, 1, 250)
	g.At(Pt(3, 3)).Rotation = 3

	data, err := g.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 20+g.Width*g.Height*12)

	var back Grid
	require.NoError(t, back.UnmarshalBinary(data))
	assert.True(t, g.Equal(&back))
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		header mapHeader
		target error
	}{
		{name: "bad magic", header: mapHeader{Magic: 1, Width: 2, Height: 2}, target: ErrBadMagic},
		{name: "zero width", header: mapHeader{Magic: MapMagic, Width: 0, Height: 2}},
		{name: "truncated tiles", header: mapHeader{Magic: MapMagic, Width: 2, Height: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, tt.header))

			_, err := Decode(&buf)

			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := DefaultGenerateOptions()
	a, err := Generate(opts, rand.New(rand.NewPCG(42, 1)))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		b, err := Generate(opts, rand.New(rand.NewPCG(42, 1)))
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "run %d differs", i)
	}
}

func TestNewRandIsSeeded(t *testing.T) {
	a, b, c := NewRand(42), NewRand(42), NewRand(43)
	same, differs := true, false
	for range 16 {
		x, y, z := a.Uint64(), b.Uint64(), c.Uint64()
		same = same && x == y
		differs = differs || x != z
	}
	assert.True(t, same)
	assert.True(t, differs)

	g1, err := Generate(DefaultGenerateOptions(), NewRand(5))
	require.NoError(t, err)
	g2, err := Generate(DefaultGenerateOptions(), NewRand(5))
	require.NoError(t, err)
	assert.True(t, g1.Equal(g2))
}

func TestGeneratePlacesCentersAndValidRamps(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Players = 3
	g, err := Generate(opts, rand.New(rand.NewPCG(3, 9)))
	require.NoError(t, err)

	centers := 0
	for p := range g.All() {
		switch g.At(p).Content {
		case models.Center:
			centers++
		case models.Ramp:
			assert.NotEqual(t, DirNone, g.RampDirection(p), "ramp at %v", p)
		}
	}
	assert.Equal(t, 3, centers)

	_, err = Generate(GenerateOptions{Width: 32, Height: 32, Players: 5}, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}
