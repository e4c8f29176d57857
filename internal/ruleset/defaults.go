package ruleset

import "github.com/napolitain/rts-core/internal/models"

// TicksPerSecond is the tick rate the default tables are tuned for
const TicksPerSecond = 30

func seconds(s int) int { return s * TicksPerSecond }

// DefaultTables returns the stock game data
func DefaultTables() Tables {
	return Tables{
		InitialResources: models.Resources{Wood: 50, Meat: 10, Stone: 10, Metal: 0},
		Research: []ResearchDescription{
			{
				Name: "Archers", Description: "A ranged unit", ProgressText: "Constructing targets",
				Origin: models.Center,
				Cost:   models.Requirements{Resources: models.Resources{Wood: 20, Stone: 10}, Ticks: seconds(30)},
			},
			{
				Name: "Masonry", Description: "Stone walls that shoot back", ProgressText: "Stacking rocks",
				Origin: models.Center,
				Cost:   models.Requirements{Resources: models.Resources{Wood: 10, Stone: 25}, Ticks: seconds(40)},
			},
		},
		Training: []TrainingDescription{
			{
				Name: "Worker", Description: "Anything from resource harvesting to constructing buildings", ProgressText: "Brainwashing",
				Origin: models.Center, CreatedUnit: models.Worker,
				Cost: models.Requirements{Resources: models.Resources{Wood: 5, Meat: 1}, Ticks: seconds(8)},
			},
			{
				Name: "Soldier", Description: "Shiny sword not just for show", ProgressText: "Sharpening the blade",
				Origin: models.Center, CreatedUnit: models.Soldier,
				Cost: models.Requirements{Resources: models.Resources{Meat: 5, Metal: 3}, Ticks: seconds(15)},
			},
			{
				Name: "Archer", Description: "Precisely pelting pointy poles", ProgressText: "Trying to hit the target",
				Origin: models.Center, CreatedUnit: models.Archer, RequiredResearch: []string{"Archers"},
				Cost: models.Requirements{Resources: models.Resources{Wood: 5, Meat: 3, Metal: 1}, Ticks: seconds(17)},
			},
		},
		Buildings: []BuildingDescription{
			{
				Name: "Storage Yard", Description: "Store resources closer to where they're being harvested", ProgressText: "Laying out a perfect circle",
				Origin: models.Worker, CreatedBuilding: models.Storage,
				Cost: models.Requirements{Resources: models.Resources{Wood: 10, Stone: 10}, Ticks: seconds(25)},
			},
			{
				Name: "House", Description: "Home for your people", ProgressText: "Framing and squaring",
				Origin: models.Worker, CreatedBuilding: models.House,
				Cost: models.Requirements{Resources: models.Resources{Wood: 20, Stone: 10}, Ticks: seconds(20)},
			},
			{
				Name: "Turret", Description: "Keeps an eye on the neighbours", ProgressText: "Mortaring the parapet",
				Origin: models.Worker, CreatedBuilding: models.Turret, RequiredResearch: []string{"Masonry"},
				Cost: models.Requirements{Resources: models.Resources{Wood: 15, Stone: 30}, Ticks: seconds(35)},
			},
		},
		Harvesting: []ResourceHarvestingDescription{
			{
				Name: "Forest", ProgressText: "Chopping",
				HarvestUnit: models.Worker, HarvestBuilding: models.Forest, HarvestTicks: seconds(3),
				PrimaryResource: models.Wood, ScarceResource: models.Meat, Yield: 2,
				ScarcityFactor: 200, MaxScarcity: 8,
			},
			{
				Name: "Mine", ProgressText: "Digging",
				HarvestUnit: models.Worker, HarvestBuilding: models.Mine, HarvestTicks: seconds(4),
				PrimaryResource: models.Stone, ScarceResource: models.Metal, Yield: 2,
				ScarcityFactor: 300, MaxScarcity: 10,
			},
		},
		Units: []UnitProperties{
			{Name: "Worker", Unit: models.Worker, HP: 40, Range: 320, Attack: 3, Defense: 0, AttackTicks: 30, Speed: 384, LoadedSpeed: 256, BuildRate: 1},
			{Name: "Soldier", Unit: models.Soldier, HP: 100, Range: 320, Attack: 10, Defense: 3, AttackTicks: 30, Speed: 320},
			{Name: "Archer", Unit: models.Archer, HP: 60, Range: 1024, Attack: 7, Defense: 1, AttackTicks: 45, Speed: 352},
		},
		Structures: []BuildingProperties{
			{
				Name: "Town Center", Building: models.Center, HP: 600, BoostPopulation: 5,
				BoostStockpile: models.Resources{Wood: 200, Meat: 100, Stone: 200, Metal: 100},
			},
			{
				Name: "Storage Yard", Building: models.Storage, HP: 200,
				BoostStockpile: models.Resources{Wood: 150, Meat: 100, Stone: 150, Metal: 100},
			},
			{Name: "House", Building: models.House, HP: 150, BoostPopulation: 5},
			{Name: "Turret", Building: models.Turret, HP: 250, Range: 1280, RangeBoost: 256, Attack: 8, AttackTicks: 45},
		},
	}
}

// Default returns the stock ruleset
func Default() *Ruleset {
	r, err := New(DefaultTables())
	if err != nil {
		panic(err)
	}
	return r
}
