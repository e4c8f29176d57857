// Package ruleset holds the static game tables: research, training, building and
// harvesting actions plus unit and building stats. A Ruleset is built once with New
// and never mutated afterwards, so one value can be shared by any number of engines.
package ruleset

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/napolitain/rts-core/internal/models"
)

// Tables is the raw data a Ruleset is built from
type Tables struct {
	InitialResources models.Resources
	Research         []ResearchDescription
	Training         []TrainingDescription
	Buildings        []BuildingDescription
	Harvesting       []ResourceHarvestingDescription
	Units            []UnitProperties
	Structures       []BuildingProperties
}

type harvestKey struct {
	tile models.TileKind
	unit models.UnitType
}

// Ruleset is the validated, indexed form of Tables
type Ruleset struct {
	tables Tables

	actions    map[string]Action
	byTile     map[models.TileKind][]Action
	byUnit     map[models.UnitType][]Action
	harvest    map[harvestKey]*ResourceHarvestingDescription
	units      map[models.UnitType]*UnitProperties
	structures map[models.TileKind]*BuildingProperties
}

// New copies t, validates it and builds the lookup indexes
func New(t Tables) (*Ruleset, error) {
	t = cloneTables(t)
	r := &Ruleset{
		tables:     t,
		actions:    make(map[string]Action),
		byTile:     make(map[models.TileKind][]Action),
		byUnit:     make(map[models.UnitType][]Action),
		harvest:    make(map[harvestKey]*ResourceHarvestingDescription),
		units:      make(map[models.UnitType]*UnitProperties),
		structures: make(map[models.TileKind]*BuildingProperties),
	}

	var errs []error
	addAction := func(a Action) {
		if a.ActionName() == "" {
			errs = append(errs, errors.New("action with empty name"))
			return
		}
		if _, dup := r.actions[a.ActionName()]; dup {
			errs = append(errs, fmt.Errorf("duplicate action %q", a.ActionName()))
			return
		}
		r.actions[a.ActionName()] = a
	}

	for i := range r.tables.Units {
		u := &r.tables.Units[i]
		if _, dup := r.units[u.Unit]; dup {
			errs = append(errs, fmt.Errorf("duplicate unit properties for %s", u.Unit))
		}
		r.units[u.Unit] = u
	}
	for i := range r.tables.Structures {
		b := &r.tables.Structures[i]
		if !b.Building.IsStructure() {
			errs = append(errs, fmt.Errorf("building properties for non-structure %s", b.Building))
		}
		if _, dup := r.structures[b.Building]; dup {
			errs = append(errs, fmt.Errorf("duplicate building properties for %s", b.Building))
		}
		r.structures[b.Building] = b
	}

	for i := range r.tables.Research {
		a := &r.tables.Research[i]
		addAction(a)
		r.byTile[a.Origin] = append(r.byTile[a.Origin], a)
	}
	for i := range r.tables.Training {
		a := &r.tables.Training[i]
		addAction(a)
		r.byTile[a.Origin] = append(r.byTile[a.Origin], a)
		if _, ok := r.units[a.CreatedUnit]; !ok {
			errs = append(errs, fmt.Errorf("training %q creates %s without unit properties", a.Name, a.CreatedUnit))
		}
	}
	for i := range r.tables.Buildings {
		a := &r.tables.Buildings[i]
		addAction(a)
		r.byUnit[a.Origin] = append(r.byUnit[a.Origin], a)
		if _, ok := r.structures[a.CreatedBuilding]; !ok {
			errs = append(errs, fmt.Errorf("building %q creates %s without building properties", a.Name, a.CreatedBuilding))
		}
	}
	for i := range r.tables.Harvesting {
		h := &r.tables.Harvesting[i]
		key := harvestKey{tile: h.HarvestBuilding, unit: h.HarvestUnit}
		if _, dup := r.harvest[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate harvesting of %s by %s", h.HarvestBuilding, h.HarvestUnit))
		}
		r.harvest[key] = h
	}

	errs = append(errs, r.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid ruleset: %w", err)
	}
	return r, nil
}

func (r *Ruleset) validate() []error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(r.actions)) {
		a := r.actions[name]
		if a.Duration() <= 0 {
			errs = append(errs, fmt.Errorf("action %q: ticks must be positive", name))
		}
		if !a.Costs().Covers(models.Resources{}) {
			errs = append(errs, fmt.Errorf("action %q: negative cost %s", name, a.Costs()))
		}
		for _, req := range a.Prerequisites() {
			if _, ok := r.actions[req].(*ResearchDescription); !ok {
				errs = append(errs, fmt.Errorf("action %q requires unknown research %q", name, req))
			}
		}
	}
	for _, h := range r.tables.Harvesting {
		if !h.HarvestBuilding.IsResource() {
			errs = append(errs, fmt.Errorf("harvesting %q: %s is not a resource tile", h.Name, h.HarvestBuilding))
		}
		if _, ok := r.units[h.HarvestUnit]; !ok {
			errs = append(errs, fmt.Errorf("harvesting %q: no unit properties for %s", h.Name, h.HarvestUnit))
		}
		if h.HarvestTicks <= 0 || h.Yield <= 0 || h.MaxScarcity <= 0 {
			errs = append(errs, fmt.Errorf("harvesting %q: ticks, yield and max scarcity must be positive", h.Name))
		}
	}
	for _, u := range r.tables.Units {
		if u.HP <= 0 || u.Speed <= 0 {
			errs = append(errs, fmt.Errorf("unit %s: hp and speed must be positive", u.Unit))
		}
	}
	for _, b := range r.tables.Structures {
		if b.HP <= 0 {
			errs = append(errs, fmt.Errorf("building %s: hp must be positive", b.Building))
		}
	}
	if _, ok := r.structures[models.Center]; !ok {
		errs = append(errs, errors.New("no building properties for the town center"))
	}
	return errs
}

// Tables returns a copy of the data the ruleset was built from
func (r *Ruleset) Tables() Tables {
	return cloneTables(r.tables)
}

// InitialResources is the stock every player starts with
func (r *Ruleset) InitialResources() models.Resources {
	return r.tables.InitialResources
}

// Action looks up any action by name
func (r *Ruleset) Action(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Research looks up a research action by name
func (r *Ruleset) Research(name string) (*ResearchDescription, bool) {
	a, ok := r.actions[name].(*ResearchDescription)
	return a, ok
}

// Training looks up a training action by name
func (r *Ruleset) Training(name string) (*TrainingDescription, bool) {
	a, ok := r.actions[name].(*TrainingDescription)
	return a, ok
}

// BuildingAction looks up a building action by name
func (r *Ruleset) BuildingAction(name string) (*BuildingDescription, bool) {
	a, ok := r.actions[name].(*BuildingDescription)
	return a, ok
}

// ActionsForTile returns the research and training actions a structure offers, in
// table order
func (r *Ruleset) ActionsForTile(kind models.TileKind) []Action {
	return slices.Clone(r.byTile[kind])
}

// ActionsForUnit returns the building actions a unit type offers, in table order
func (r *Ruleset) ActionsForUnit(unit models.UnitType) []Action {
	return slices.Clone(r.byUnit[unit])
}

// Harvesting returns how unit harvests the resource tile kind
func (r *Ruleset) Harvesting(tile models.TileKind, unit models.UnitType) (*ResourceHarvestingDescription, bool) {
	h, ok := r.harvest[harvestKey{tile: tile, unit: unit}]
	return h, ok
}

// Unit returns the stats of a unit type
func (r *Ruleset) Unit(unit models.UnitType) (*UnitProperties, bool) {
	u, ok := r.units[unit]
	return u, ok
}

// Building returns the stats of a structure tile kind
func (r *Ruleset) Building(kind models.TileKind) (*BuildingProperties, bool) {
	b, ok := r.structures[kind]
	return b, ok
}

func cloneTables(t Tables) Tables {
	out := t
	out.Research = slices.Clone(t.Research)
	for i := range out.Research {
		out.Research[i].RequiredResearch = slices.Clone(out.Research[i].RequiredResearch)
	}
	out.Training = slices.Clone(t.Training)
	for i := range out.Training {
		out.Training[i].RequiredResearch = slices.Clone(out.Training[i].RequiredResearch)
	}
	out.Buildings = slices.Clone(t.Buildings)
	for i := range out.Buildings {
		out.Buildings[i].RequiredResearch = slices.Clone(out.Buildings[i].RequiredResearch)
	}
	out.Harvesting = slices.Clone(t.Harvesting)
	out.Units = slices.Clone(t.Units)
	out.Structures = slices.Clone(t.Structures)
	return out
}
