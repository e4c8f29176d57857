package loader

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

// RulesetYAML is the on-disk layout of a ruleset file
type RulesetYAML struct {
	InitialResources models.Resources `yaml:"initial_resources"`
	Research         []ResearchYAML   `yaml:"research"`
	Training         []TrainingYAML   `yaml:"training"`
	Buildings        []BuildingYAML   `yaml:"buildings"`
	Harvesting       []HarvestingYAML `yaml:"harvesting"`
	Units            []UnitYAML       `yaml:"units"`
	Structures       []StructureYAML  `yaml:"structures"`
}

// ResearchYAML represents one research entry
type ResearchYAML struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	ProgressText string              `yaml:"progress_text"`
	Origin       string              `yaml:"origin"`
	Cost         models.Requirements `yaml:"cost"`
	Requires     []string            `yaml:"requires,omitempty"`
}

// TrainingYAML represents one training entry
type TrainingYAML struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	ProgressText string              `yaml:"progress_text"`
	Origin       string              `yaml:"origin"`
	Creates      string              `yaml:"creates"`
	Cost         models.Requirements `yaml:"cost"`
	Requires     []string            `yaml:"requires,omitempty"`
}

// BuildingYAML represents one building entry
type BuildingYAML struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	ProgressText string              `yaml:"progress_text"`
	Origin       string              `yaml:"origin"`
	Creates      string              `yaml:"creates"`
	Cost         models.Requirements `yaml:"cost"`
	Requires     []string            `yaml:"requires,omitempty"`
}

// HarvestingYAML represents one harvesting entry
type HarvestingYAML struct {
	Name           string `yaml:"name"`
	ProgressText   string `yaml:"progress_text"`
	Unit           string `yaml:"unit"`
	Tile           string `yaml:"tile"`
	Ticks          int    `yaml:"ticks"`
	Primary        string `yaml:"primary"`
	Scarce         string `yaml:"scarce"`
	Yield          int    `yaml:"yield"`
	ScarcityFactor int    `yaml:"scarcity_factor"`
	MaxScarcity    int    `yaml:"max_scarcity"`
}

// UnitYAML represents the stats of one unit type
type UnitYAML struct {
	Name        string `yaml:"name"`
	Unit        string `yaml:"unit"`
	HP          int    `yaml:"hp"`
	Range       int    `yaml:"range,omitempty"`
	Attack      int    `yaml:"attack,omitempty"`
	Defense     int    `yaml:"defense,omitempty"`
	AttackTicks int    `yaml:"attack_ticks,omitempty"`
	Speed       int    `yaml:"speed"`
	LoadedSpeed int    `yaml:"loaded_speed,omitempty"`
	BuildRate   int    `yaml:"build_rate,omitempty"`
}

// StructureYAML represents the stats of one building tile kind
type StructureYAML struct {
	Name            string           `yaml:"name"`
	Tile            string           `yaml:"tile"`
	HP              int              `yaml:"hp"`
	Range           int              `yaml:"range,omitempty"`
	RangeBoost      int              `yaml:"range_boost,omitempty"`
	Attack          int              `yaml:"attack,omitempty"`
	AttackTicks     int              `yaml:"attack_ticks,omitempty"`
	BoostPopulation int              `yaml:"boost_population,omitempty"`
	BoostStockpile  models.Resources `yaml:"boost_stockpile,omitempty"`
}

// LoadRuleset reads and validates a ruleset file
func LoadRuleset(path string) (*ruleset.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	tables, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ruleset.New(tables)
}

// ParseTables decodes ruleset YAML into tables without validating references
func ParseTables(data []byte) (ruleset.Tables, error) {
	var raw RulesetYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return ruleset.Tables{}, err
	}
	return raw.toTables()
}

// MarshalTables encodes tables in the ruleset file layout
func MarshalTables(t ruleset.Tables) ([]byte, error) {
	raw := RulesetYAML{InitialResources: t.InitialResources}
	for _, r := range t.Research {
		raw.Research = append(raw.Research, ResearchYAML{
			Name: r.Name, Description: r.Description, ProgressText: r.ProgressText,
			Origin: r.Origin.String(), Cost: r.Cost, Requires: r.RequiredResearch,
		})
	}
	for _, tr := range t.Training {
		raw.Training = append(raw.Training, TrainingYAML{
			Name: tr.Name, Description: tr.Description, ProgressText: tr.ProgressText,
			Origin: tr.Origin.String(), Creates: tr.CreatedUnit.String(), Cost: tr.Cost, Requires: tr.RequiredResearch,
		})
	}
	for _, b := range t.Buildings {
		raw.Buildings = append(raw.Buildings, BuildingYAML{
			Name: b.Name, Description: b.Description, ProgressText: b.ProgressText,
			Origin: b.Origin.String(), Creates: b.CreatedBuilding.String(), Cost: b.Cost, Requires: b.RequiredResearch,
		})
	}
	for _, h := range t.Harvesting {
		raw.Harvesting = append(raw.Harvesting, HarvestingYAML{
			Name: h.Name, ProgressText: h.ProgressText, Unit: h.HarvestUnit.String(), Tile: h.HarvestBuilding.String(),
			Ticks: h.HarvestTicks, Primary: h.PrimaryResource.String(), Scarce: h.ScarceResource.String(),
			Yield: h.Yield, ScarcityFactor: h.ScarcityFactor, MaxScarcity: h.MaxScarcity,
		})
	}
	for _, u := range t.Units {
		raw.Units = append(raw.Units, UnitYAML{
			Name: u.Name, Unit: u.Unit.String(), HP: u.HP, Range: u.Range, Attack: u.Attack, Defense: u.Defense,
			AttackTicks: u.AttackTicks, Speed: u.Speed, LoadedSpeed: u.LoadedSpeed, BuildRate: u.BuildRate,
		})
	}
	for _, s := range t.Structures {
		raw.Structures = append(raw.Structures, StructureYAML{
			Name: s.Name, Tile: s.Building.String(), HP: s.HP, Range: s.Range, RangeBoost: s.RangeBoost,
			Attack: s.Attack, AttackTicks: s.AttackTicks, BoostPopulation: s.BoostPopulation, BoostStockpile: s.BoostStockpile,
		})
	}
	return yaml.Marshal(raw)
}

func (raw RulesetYAML) toTables() (ruleset.Tables, error) {
	t := ruleset.Tables{InitialResources: raw.InitialResources}
	var errs []error
	tile := func(where, s string) models.TileKind {
		k, err := models.ParseTileKind(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		return k
	}
	unit := func(where, s string) models.UnitType {
		u, err := models.ParseUnitType(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		return u
	}
	resource := func(where, s string) models.ResourceType {
		r, err := models.ParseResourceType(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		return r
	}

	for _, r := range raw.Research {
		t.Research = append(t.Research, ruleset.ResearchDescription{
			Name: r.Name, Description: r.Description, ProgressText: r.ProgressText,
			Origin: tile("research "+r.Name, r.Origin), Cost: r.Cost, RequiredResearch: r.Requires,
		})
	}
	for _, tr := range raw.Training {
		where := "training " + tr.Name
		t.Training = append(t.Training, ruleset.TrainingDescription{
			Name: tr.Name, Description: tr.Description, ProgressText: tr.ProgressText,
			Origin: tile(where, tr.Origin), CreatedUnit: unit(where, tr.Creates), Cost: tr.Cost, RequiredResearch: tr.Requires,
		})
	}
	for _, b := range raw.Buildings {
		where := "building " + b.Name
		t.Buildings = append(t.Buildings, ruleset.BuildingDescription{
			Name: b.Name, Description: b.Description, ProgressText: b.ProgressText,
			Origin: unit(where, b.Origin), CreatedBuilding: tile(where, b.Creates), Cost: b.Cost, RequiredResearch: b.Requires,
		})
	}
	for _, h := range raw.Harvesting {
		where := "harvesting " + h.Name
		t.Harvesting = append(t.Harvesting, ruleset.ResourceHarvestingDescription{
			Name: h.Name, ProgressText: h.ProgressText,
			HarvestUnit: unit(where, h.Unit), HarvestBuilding: tile(where, h.Tile), HarvestTicks: h.Ticks,
			PrimaryResource: resource(where, h.Primary), ScarceResource: resource(where, h.Scarce),
			Yield: h.Yield, ScarcityFactor: h.ScarcityFactor, MaxScarcity: h.MaxScarcity,
		})
	}
	for _, u := range raw.Units {
		t.Units = append(t.Units, ruleset.UnitProperties{
			Name: u.Name, Unit: unit("unit "+u.Name, u.Unit), HP: u.HP, Range: u.Range, Attack: u.Attack,
			Defense: u.Defense, AttackTicks: u.AttackTicks, Speed: u.Speed, LoadedSpeed: u.LoadedSpeed, BuildRate: u.BuildRate,
		})
	}
	for _, s := range raw.Structures {
		t.Structures = append(t.Structures, ruleset.BuildingProperties{
			Name: s.Name, Building: tile("structure "+s.Name, s.Tile), HP: s.HP, Range: s.Range, RangeBoost: s.RangeBoost,
			Attack: s.Attack, AttackTicks: s.AttackTicks, BoostPopulation: s.BoostPopulation, BoostStockpile: s.BoostStockpile,
		})
	}
	return t, errors.Join(errs...)
}
