package models

import "fmt"

// PlayerID identifies a player slot. Slots are numbered from 0 in the order their
// town centers appear on the map.
type PlayerID int

// NoPlayer marks tiles and work that belong to nobody.
const NoPlayer PlayerID = -1

// ResourceType represents the different resource types in the game
type ResourceType int

const (
	Wood ResourceType = iota
	Meat
	Stone
	Metal
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Wood, Meat, Stone, Metal}
}

func (rt ResourceType) String() string {
	switch rt {
	case Wood:
		return "wood"
	case Meat:
		return "meat"
	case Stone:
		return "stone"
	case Metal:
		return "metal"
	}
	return fmt.Sprintf("resource(%d)", int(rt))
}

// ParseResourceType converts a lower-case name back to a ResourceType
func ParseResourceType(s string) (ResourceType, error) {
	for _, rt := range AllResourceTypes() {
		if rt.String() == s {
			return rt, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

// TileKind is the content of a map cell. The numeric values are part of the map
// payload format and must not be reordered.
type TileKind uint8

const (
	Land    TileKind = iota // plain dirt
	Ramp                    // connects adjacent levels; Level is the lower side
	Water                   // impassable
	Bridge                  // water crossing
	Forest                  // wood/meat resource
	Mine                    // stone/metal resource, attached to a cliff
	Storage                 // storage yard
	Center                  // town center
	House                   // residential
	Turret                  // defensive turret
	Tech                    // part of a multi-tile building
)

// AllTileKinds returns all tile kinds in payload order
func AllTileKinds() []TileKind {
	return []TileKind{Land, Ramp, Water, Bridge, Forest, Mine, Storage, Center, House, Turret, Tech}
}

func (k TileKind) String() string {
	switch k {
	case Land:
		return "land"
	case Ramp:
		return "ramp"
	case Water:
		return "water"
	case Bridge:
		return "bridge"
	case Forest:
		return "forest"
	case Mine:
		return "mine"
	case Storage:
		return "storage"
	case Center:
		return "center"
	case House:
		return "house"
	case Turret:
		return "turret"
	case Tech:
		return "tech"
	}
	return fmt.Sprintf("tile(%d)", uint8(k))
}

// ParseTileKind converts a lower-case name back to a TileKind
func ParseTileKind(s string) (TileKind, error) {
	for _, k := range AllTileKinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tile kind %q", s)
}

// IsStructure reports whether the kind is a player-owned building
func (k TileKind) IsStructure() bool {
	switch k {
	case Storage, Center, House, Turret, Tech:
		return true
	}
	return false
}

// IsResource reports whether units can harvest the kind
func (k TileKind) IsResource() bool {
	return k == Forest || k == Mine
}

// UnitType represents the trainable unit kinds
type UnitType int

const (
	Worker UnitType = iota
	Soldier
	Archer
	Siege
)

// AllUnitTypes returns all unit types in deterministic order
func AllUnitTypes() []UnitType {
	return []UnitType{Worker, Soldier, Archer, Siege}
}

func (u UnitType) String() string {
	switch u {
	case Worker:
		return "worker"
	case Soldier:
		return "soldier"
	case Archer:
		return "archer"
	case Siege:
		return "siege"
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// ParseUnitType converts a lower-case name back to a UnitType
func ParseUnitType(s string) (UnitType, error) {
	for _, u := range AllUnitTypes() {
		if u.String() == s {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unknown unit type %q", s)
}
