package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

var (
	center = grid.Pt(2, 2)
	forest = grid.Pt(6, 3)
)

func matchMap(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(10, 10)
	require.NoError(t, err)
	g.At(center).Content = models.Center
	g.At(grid.Pt(8, 8)).Content = models.Center
	g.At(forest).Content = models.Forest
	g.At(forest).ResourceValue = 100
	return g
}

func newEngine(t *testing.T, g *grid.Grid) *engine.Engine {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Seed = 5
	e, err := engine.New(g, ruleset.Default(), opts)
	require.NoError(t, err)
	return e
}

func advance(e *engine.Engine, n int) {
	for range n {
		e.AdvanceTick()
	}
}

// recordMatch plays a short scripted match and returns its log and final digest
func recordMatch(t *testing.T, g *grid.Grid) ([]Command, uint64) {
	t.Helper()
	rec := NewRecorder(newEngine(t, g))
	e := rec.Engine()

	require.Equal(t, engine.Completed, rec.RequestInteractWithTile(0, 1, forest))
	require.Equal(t, engine.Completed, rec.QueueActionForTile(0, center, "Worker"))
	require.Equal(t, engine.Completed, rec.QueueActionForTile(0, center, "Worker"))
	advance(e, 40)
	require.Equal(t, engine.Completed, rec.MoveUnit(1, 3, grid.Vec2{X: 4.5, Y: 7.5}))
	require.Equal(t, engine.FailWrongPlayer, rec.MoveUnit(1, 2, grid.Vec2{X: 4.5, Y: 7.5}))
	advance(e, 25)

	queue := e.QueueForTile(center)
	require.Len(t, queue, 2)
	require.Equal(t, engine.Completed, rec.CancelQueueElement(0, queue[1].ID))
	require.Equal(t, engine.Completed, rec.QueueActionForUnit(0, 2, grid.Pt(4, 5), "House"))
	advance(e, 300)
	require.Equal(t, engine.Completed, rec.AttackUnit(1, 3, 2))
	advance(e, 235)

	require.Equal(t, int64(600), e.Tick())
	d, err := Digest(e)
	require.NoError(t, err)
	return rec.Commands(), d
}

func TestRecorderLogsTicksAndStatuses(t *testing.T) {
	commands, _ := recordMatch(t, matchMap(t))
	require.Len(t, commands, 8)

	assert.Equal(t, int64(0), commands[0].Tick)
	assert.Equal(t, KindInteract, commands[0].Kind)
	assert.Equal(t, int64(40), commands[3].Tick)
	assert.Equal(t, engine.FailWrongPlayer, commands[4].Status)
	assert.Equal(t, KindCancel, commands[5].Kind)
	assert.NotEqual(t, engine.NoWork, commands[5].Work)
	assert.Equal(t, int64(365), commands[7].Tick)
}

func TestRunReproducesDigest(t *testing.T) {
	g := matchMap(t)
	commands, want := recordMatch(t, g.Clone())

	e := newEngine(t, g)
	require.NoError(t, Run(e, commands, 600))
	assert.Equal(t, int64(600), e.Tick())

	got, err := Digest(e)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, FormatDigest(got), 16)
}

func TestRunDetectsDivergence(t *testing.T) {
	g := matchMap(t)
	commands, _ := recordMatch(t, g.Clone())
	commands[1].Status = engine.FailNoResources

	err := Run(newEngine(t, g), commands, 600)
	assert.ErrorIs(t, err, ErrDiverged)
}

func TestRunRejectsBadLogs(t *testing.T) {
	e := newEngine(t, matchMap(t))
	err := Run(e, []Command{
		{Tick: 10, Kind: KindMove, Player: 0, Unit: 1, Dest: grid.Vec2{X: 1.5, Y: 1.5}},
		{Tick: 5, Kind: KindMove, Player: 0, Unit: 1, Dest: grid.Vec2{X: 1.5, Y: 1.5}},
	}, 20)
	assert.ErrorIs(t, err, ErrOutOfOrder)

	err = Run(newEngine(t, matchMap(t)), []Command{{Kind: "teleport"}}, 0)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDigestTracksState(t *testing.T) {
	a, b := newEngine(t, matchMap(t)), newEngine(t, matchMap(t))
	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	b.AdvanceTick()
	db, err = Digest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}
