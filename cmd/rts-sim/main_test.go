package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/autopilot"
	"github.com/napolitain/rts-core/internal/config"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/replay"
	"github.com/napolitain/rts-core/internal/storage"
)

// playMatch runs an autopiloted match for ticks and packages it the way simulate
// records it
func playMatch(t *testing.T, cfg *config.Config, rulesYAML []byte, ticks int64) (*storage.Match, []replay.Command) {
	t.Helper()
	rules, err := parseRules(rulesYAML)
	require.NoError(t, err)
	g, err := generateMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)
	e, payload, err := newMatch(cfg.Simulation, g, rules, zerolog.Nop(), nil)
	require.NoError(t, err)

	rec := replay.NewRecorder(e)
	pilot := autopilot.New(autopilot.DefaultOptions(), zerolog.Nop(), allPlayers(e.Players())...)
	for e.Tick() < ticks {
		pilot.Step(e, rec)
		e.AdvanceTick()
	}
	d, err := replay.Digest(e)
	require.NoError(t, err)
	return &storage.Match{
		Settings:  cfg.Simulation,
		Map:       payload,
		Rules:     rulesYAML,
		FinalTick: e.Tick(),
		Digest:    replay.FormatDigest(d),
	}, rec.Commands()
}

func TestGenerateMapIsSeeded(t *testing.T) {
	cfg := config.Default()
	a, err := generateMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)
	b, err := generateMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	cfg.Map.Seed++
	c, err := generateMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestRecordedMatchReplays(t *testing.T) {
	cfg := config.Default()
	m, commands := playMatch(t, cfg, nil, 600)
	require.NotEmpty(t, commands)

	digest, err := replayMatch(m, commands)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, digest)
}

func TestRecordedMatchWithRulesetFileReplays(t *testing.T) {
	_, data, err := loadRules(filepath.Join("..", "..", "data", "ruleset.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	cfg := config.Default()
	cfg.Simulation.Seed = 42
	m, commands := playMatch(t, cfg, data, 300)

	digest, err := replayMatch(m, commands)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, digest)
}

func TestReplayDetectsTamperedLog(t *testing.T) {
	cfg := config.Default()
	m, commands := playMatch(t, cfg, nil, 300)
	require.NotEmpty(t, commands)

	commands[0].Action = "Soldier"
	_, err := replayMatch(m, commands)
	assert.ErrorIs(t, err, replay.ErrDiverged)
}

func TestLoadMapFromFile(t *testing.T) {
	cfg := config.Default()
	g, err := generateMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "map.bin")
	require.NoError(t, writeMap(path, g))

	cfg.Map.Path = path
	loaded, err := loadMap(cfg.Map, cfg.Simulation.Players)
	require.NoError(t, err)
	assert.True(t, g.Equal(loaded))

	require.NoError(t, os.WriteFile(path, []byte("not a map"), 0o644))
	_, err = loadMap(cfg.Map, cfg.Simulation.Players)
	assert.Error(t, err)
}

func TestRenderMapGlyphs(t *testing.T) {
	g, err := grid.New(4, 2)
	require.NoError(t, err)
	g.At(grid.Pt(0, 0)).PlaceBuilt(models.Center, 0, 600)
	g.At(grid.Pt(1, 0)).BeginConstruction(models.House, 1, 15)
	g.At(grid.Pt(2, 0)).Content = models.Water
	g.At(grid.Pt(3, 1)).Level = 3

	out := renderMap(g)
	assert.Contains(t, out, "C")
	assert.Contains(t, out, "h")
	assert.Contains(t, out, "~")
	assert.Contains(t, out, "3")
	assert.Equal(t, 2+2, strings.Count(out, "\n")+1)
}
