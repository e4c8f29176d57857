package ruleset

import "github.com/napolitain/rts-core/internal/models"

// Action is one of *ResearchDescription, *TrainingDescription or *BuildingDescription.
// The set is closed; callers dispatch with a type switch.
type Action interface {
	ActionName() string
	Costs() models.Resources
	Duration() int
	Prerequisites() []string
	isAction()
}

// ResearchDescription unlocks other actions once completed at its origin structure
type ResearchDescription struct {
	Name             string
	Description      string
	ProgressText     string
	Origin           models.TileKind
	Cost             models.Requirements
	RequiredResearch []string
}

func (r *ResearchDescription) ActionName() string      { return r.Name }
func (r *ResearchDescription) Costs() models.Resources { return r.Cost.Resources }
func (r *ResearchDescription) Duration() int           { return r.Cost.Ticks }
func (r *ResearchDescription) Prerequisites() []string { return r.RequiredResearch }
func (r *ResearchDescription) isAction()               {}

// TrainingDescription produces a unit at its origin structure
type TrainingDescription struct {
	Name             string
	Description      string
	ProgressText     string
	Origin           models.TileKind
	CreatedUnit      models.UnitType
	Cost             models.Requirements
	RequiredResearch []string
}

func (t *TrainingDescription) ActionName() string      { return t.Name }
func (t *TrainingDescription) Costs() models.Resources { return t.Cost.Resources }
func (t *TrainingDescription) Duration() int           { return t.Cost.Ticks }
func (t *TrainingDescription) Prerequisites() []string { return t.RequiredResearch }
func (t *TrainingDescription) isAction()               {}

// BuildingDescription lets a unit of the origin type construct a structure
type BuildingDescription struct {
	Name             string
	Description      string
	ProgressText     string
	Origin           models.UnitType
	CreatedBuilding  models.TileKind
	Cost             models.Requirements
	RequiredResearch []string
}

func (b *BuildingDescription) ActionName() string      { return b.Name }
func (b *BuildingDescription) Costs() models.Resources { return b.Cost.Resources }
func (b *BuildingDescription) Duration() int           { return b.Cost.Ticks }
func (b *BuildingDescription) Prerequisites() []string { return b.RequiredResearch }
func (b *BuildingDescription) isAction()               {}

// ResourceHarvestingDescription describes one harvest cycle of a unit type on a
// resource tile
type ResourceHarvestingDescription struct {
	Name            string
	ProgressText    string
	HarvestUnit     models.UnitType
	HarvestBuilding models.TileKind
	HarvestTicks    int
	PrimaryResource models.ResourceType
	ScarceResource  models.ResourceType
	// Yield is the amount of PrimaryResource taken per cycle
	Yield int
	// A scarce unit is returned after 1 + ScarcityFactor/remaining primary
	// resources, at most MaxScarcity primary resources apart.
	ScarcityFactor int
	MaxScarcity    int
}

// ScarcityThreshold is the number of primary resources harvested per scarce unit
// when the tile has remaining stock left
func (h *ResourceHarvestingDescription) ScarcityThreshold(remaining int) int {
	if remaining <= 0 {
		return h.MaxScarcity
	}
	return min(1+h.ScarcityFactor/remaining, h.MaxScarcity)
}

// UnitProperties are the combat and movement stats of a unit type.
// Range and speeds are in 1/256 tile units.
type UnitProperties struct {
	Name        string
	Unit        models.UnitType
	HP          int
	Range       int
	Attack      int
	Defense     int
	AttackTicks int
	Speed       int // per second
	LoadedSpeed int // zero means same as Speed
	// BuildRate is construction ticks contributed per tick of building
	BuildRate int
}

// MoveSpeed returns the speed in 1/256 tiles per second, loaded or not
func (u *UnitProperties) MoveSpeed(loaded bool) int {
	if loaded && u.LoadedSpeed > 0 {
		return u.LoadedSpeed
	}
	return u.Speed
}

// BuildingProperties are the stats of a structure tile kind
type BuildingProperties struct {
	Name            string
	Building        models.TileKind
	HP              int
	Range           int
	RangeBoost      int
	Attack          int
	AttackTicks     int
	BoostPopulation int
	BoostStockpile  models.Resources
}
