package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/config"
	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/replay"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepository(db)
}

func testMatch(t *testing.T) *Match {
	t.Helper()
	g, err := grid.New(8, 8)
	require.NoError(t, err)
	payload, err := g.MarshalBinary()
	require.NoError(t, err)

	settings := config.Default().Simulation
	settings.Seed = 1<<63 + 5
	return &Match{Settings: settings, Map: payload}
}

func TestCreateAndLoadMatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	m := testMatch(t)

	require.NoError(t, repo.CreateMatch(ctx, m))
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	first := []replay.Command{
		{Tick: 0, Kind: replay.KindInteract, Player: 0, Unit: 1, Cell: grid.Pt(5, 2)},
		{Tick: 3, Kind: replay.KindQueueTile, Player: 0, Cell: grid.Pt(2, 2), Action: "Worker"},
	}
	second := []replay.Command{
		{Tick: 90, Kind: replay.KindCancel, Player: 0, Work: engine.WorkID(1<<32 | 2), Status: engine.FailWrongPlayer},
		{Tick: 95, Kind: replay.KindMove, Player: 1, Unit: 3, Dest: grid.Vec2{X: 2.25, Y: 7.5}},
	}
	require.NoError(t, repo.AppendCommands(ctx, m.ID, first))
	require.NoError(t, repo.AppendCommands(ctx, m.ID, second))
	require.NoError(t, repo.AppendCommands(ctx, m.ID, nil))

	loaded, commands, err := repo.LoadMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, m.Settings, loaded.Settings)
	assert.Equal(t, m.Map, loaded.Map)
	assert.Nil(t, loaded.Rules)
	assert.WithinDuration(t, m.CreatedAt, loaded.CreatedAt, time.Second)
	assert.Equal(t, append(first, second...), commands)
}

func TestMissingMatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	id := uuid.New()

	_, _, err := repo.LoadMatch(ctx, id)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, repo.AppendCommands(ctx, id, []replay.Command{{Kind: replay.KindMove}}), ErrMatchNotFound)
	assert.ErrorIs(t, repo.SaveDigest(ctx, id, 10, "abc"), ErrMatchNotFound)
}

func TestListMatchesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	older, newer := testMatch(t), testMatch(t)
	older.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	newer.Rules = []byte("initial_resources: {}\n")
	require.NoError(t, repo.CreateMatch(ctx, older))
	require.NoError(t, repo.CreateMatch(ctx, newer))

	matches, err := repo.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer.ID, matches[0].ID)
	assert.Equal(t, older.ID, matches[1].ID)
	assert.Empty(t, matches[0].Map)
	assert.Empty(t, matches[0].Rules)
}

func TestSaveDigest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	m := testMatch(t)
	require.NoError(t, repo.CreateMatch(ctx, m))

	require.NoError(t, repo.SaveDigest(ctx, m.ID, 900, "00000000deadbeef"))
	loaded, _, err := repo.LoadMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), loaded.FinalTick)
	assert.Equal(t, "00000000deadbeef", loaded.Digest)
}
