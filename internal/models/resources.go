package models

import "fmt"

// Resources is a fixed vector of the four resource kinds (no maps, so iteration
// order never leaks into the simulation)
type Resources struct {
	Wood  int `yaml:"wood,omitempty" json:"wood"`
	Meat  int `yaml:"meat,omitempty" json:"meat"`
	Stone int `yaml:"stone,omitempty" json:"stone"`
	Metal int `yaml:"metal,omitempty" json:"metal"`
}

// Get returns the amount for a specific resource type
func (r Resources) Get(rt ResourceType) int {
	switch rt {
	case Wood:
		return r.Wood
	case Meat:
		return r.Meat
	case Stone:
		return r.Stone
	case Metal:
		return r.Metal
	}
	return 0
}

// Set sets the amount for a specific resource type
func (r *Resources) Set(rt ResourceType, amount int) {
	switch rt {
	case Wood:
		r.Wood = amount
	case Meat:
		r.Meat = amount
	case Stone:
		r.Stone = amount
	case Metal:
		r.Metal = amount
	}
}

// Add returns r + o
func (r Resources) Add(o Resources) Resources {
	return Resources{
		Wood:  r.Wood + o.Wood,
		Meat:  r.Meat + o.Meat,
		Stone: r.Stone + o.Stone,
		Metal: r.Metal + o.Metal,
	}
}

// Sub returns r - o. Callers check Covers first; Sub does not clamp.
func (r Resources) Sub(o Resources) Resources {
	return Resources{
		Wood:  r.Wood - o.Wood,
		Meat:  r.Meat - o.Meat,
		Stone: r.Stone - o.Stone,
		Metal: r.Metal - o.Metal,
	}
}

// Covers reports whether r holds at least o of every kind
func (r Resources) Covers(o Resources) bool {
	return r.Wood >= o.Wood && r.Meat >= o.Meat && r.Stone >= o.Stone && r.Metal >= o.Metal
}

// Discount returns percent% of every kind, rounded up
func (r Resources) Discount(percent int) Resources {
	return Resources{
		Wood:  ceilPercent(r.Wood, percent),
		Meat:  ceilPercent(r.Meat, percent),
		Stone: ceilPercent(r.Stone, percent),
		Metal: ceilPercent(r.Metal, percent),
	}
}

// IsZero reports whether every kind is zero
func (r Resources) IsZero() bool {
	return r == Resources{}
}

// Total returns the sum over all kinds
func (r Resources) Total() int {
	return r.Wood + r.Meat + r.Stone + r.Metal
}

func (r Resources) String() string {
	return fmt.Sprintf("W:%d M:%d S:%d Mt:%d", r.Wood, r.Meat, r.Stone, r.Metal)
}

func ceilPercent(v, percent int) int {
	if v <= 0 || percent <= 0 {
		return 0
	}
	return (v*percent + 99) / 100
}

// Requirements is a resource cost plus the number of ticks the work takes
type Requirements struct {
	Resources `yaml:",inline"`
	Ticks     int `yaml:"ticks" json:"ticks"`
}

// Cost returns the resource part of the requirements
func (r Requirements) Cost() Resources {
	return r.Resources
}
