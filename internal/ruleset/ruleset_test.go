package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/models"
)

func TestDefaultLookups(t *testing.T) {
	r := Default()

	names := func(actions []Action) []string {
		var out []string
		for _, a := range actions {
			out = append(out, a.ActionName())
		}
		return out
	}
	assert.Equal(t, []string{"Archers", "Masonry", "Worker", "Soldier", "Archer"}, names(r.ActionsForTile(models.Center)))
	assert.Equal(t, []string{"Storage Yard", "House", "Turret"}, names(r.ActionsForUnit(models.Worker)))
	assert.Empty(t, r.ActionsForTile(models.House))

	archer, ok := r.Training("Archer")
	require.True(t, ok)
	assert.Equal(t, []string{"Archers"}, archer.Prerequisites())
	assert.Equal(t, 510, archer.Duration())

	_, ok = r.Research("Archer")
	assert.False(t, ok, "Archer is a training action")

	h, ok := r.Harvesting(models.Forest, models.Worker)
	require.True(t, ok)
	assert.Equal(t, models.Wood, h.PrimaryResource)
	_, ok = r.Harvesting(models.Forest, models.Soldier)
	assert.False(t, ok)

	center, ok := r.Building(models.Center)
	require.True(t, ok)
	assert.Equal(t, 5, center.BoostPopulation)
}

func TestActionSumType(t *testing.T) {
	r := Default()
	kinds := map[string]string{}
	for _, name := range []string{"Archers", "Worker", "House"} {
		a, ok := r.Action(name)
		require.True(t, ok)
		switch a.(type) {
		case *ResearchDescription:
			kinds[name] = "research"
		case *TrainingDescription:
			kinds[name] = "training"
		case *BuildingDescription:
			kinds[name] = "building"
		}
	}
	assert.Equal(t, map[string]string{"Archers": "research", "Worker": "training", "House": "building"}, kinds)
}

func TestNewRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
		want   string
	}{
		{
			name:   "training without unit properties",
			mutate: func(tb *Tables) { tb.Units = tb.Units[:1] },
			want:   "without unit properties",
		},
		{
			name:   "building without properties",
			mutate: func(tb *Tables) { tb.Structures = tb.Structures[:1] },
			want:   "without building properties",
		},
		{
			name:   "unknown research",
			mutate: func(tb *Tables) { tb.Training[0].RequiredResearch = []string{"Alchemy"} },
			want:   `unknown research "Alchemy"`,
		},
		{
			name:   "duplicate name",
			mutate: func(tb *Tables) { tb.Buildings[1].Name = "Storage Yard" },
			want:   "duplicate action",
		},
		{
			name:   "zero ticks",
			mutate: func(tb *Tables) { tb.Research[0].Cost.Ticks = 0 },
			want:   "ticks must be positive",
		},
		{
			name:   "harvest on land",
			mutate: func(tb *Tables) { tb.Harvesting[0].HarvestBuilding = models.Land },
			want:   "not a resource tile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := DefaultTables()
			tt.mutate(&tb)

			_, err := New(tb)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRulesetIsIsolatedFromInput(t *testing.T) {
	tb := DefaultTables()
	r, err := New(tb)
	require.NoError(t, err)

	tb.Training[0].Cost.Ticks = 1
	tb.Training[2].RequiredResearch[0] = "changed"

	worker, _ := r.Training("Worker")
	assert.Equal(t, 240, worker.Duration())
	archer, _ := r.Training("Archer")
	assert.Equal(t, []string{"Archers"}, archer.RequiredResearch)
}

func TestScarcityThreshold(t *testing.T) {
	h := &ResourceHarvestingDescription{ScarcityFactor: 200, MaxScarcity: 8}

	assert.Equal(t, 1, h.ScarcityThreshold(400))
	assert.Equal(t, 2, h.ScarcityThreshold(200))
	assert.Equal(t, 5, h.ScarcityThreshold(50))
	assert.Equal(t, 8, h.ScarcityThreshold(10))
	assert.Equal(t, 8, h.ScarcityThreshold(0))
}
