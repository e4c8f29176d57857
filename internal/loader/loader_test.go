package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

func TestShippedRulesetMatchesDefaults(t *testing.T) {
	r, err := LoadRuleset(filepath.Join("..", "..", "data", "ruleset.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ruleset.DefaultTables(), r.Tables())
}

func TestMarshalThenLoad(t *testing.T) {
	data, err := MarshalTables(ruleset.DefaultTables())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := LoadRuleset(path)
	require.NoError(t, err)
	house, ok := r.BuildingAction("House")
	require.True(t, ok)
	assert.Equal(t, models.House, house.CreatedBuilding)
	assert.Equal(t, 600, house.Duration())
}

func TestParseTablesReportsUnknownNames(t *testing.T) {
	_, err := ParseTables([]byte(`
training:
  - name: Dragon
    origin: lair
    creates: dragon
    cost: {meat: 100, ticks: 30}
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tile kind "lair"`)
	assert.Contains(t, err.Error(), `unknown unit type "dragon"`)
}

func TestLoadRulesetMissingFile(t *testing.T) {
	_, err := LoadRuleset(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
