package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountRoundsUp(t *testing.T) {
	tests := []struct {
		name    string
		in      Resources
		percent int
		want    Resources
	}{
		{name: "half of odd", in: Resources{Wood: 5, Meat: 1}, percent: 50, want: Resources{Wood: 3, Meat: 1}},
		{name: "exact", in: Resources{Stone: 10}, percent: 50, want: Resources{Stone: 5}},
		{name: "zero percent", in: Resources{Wood: 7}, percent: 0, want: Resources{}},
		{name: "full", in: Resources{Metal: 3}, percent: 100, want: Resources{Metal: 3}},
		{name: "small share", in: Resources{Wood: 20}, percent: 1, want: Resources{Wood: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Discount(tt.percent))
		})
	}
}

func TestResourcesArithmetic(t *testing.T) {
	a := Resources{Wood: 5, Meat: 2, Stone: 1}
	b := Resources{Wood: 3, Meat: 2}

	assert.True(t, a.Covers(b))
	assert.False(t, b.Covers(a))
	assert.Equal(t, Resources{Wood: 2, Stone: 1}, a.Sub(b))
	assert.Equal(t, Resources{Wood: 8, Meat: 4, Stone: 1}, a.Add(b))
	assert.Equal(t, 8, a.Total())
	assert.True(t, Resources{}.IsZero())

	var r Resources
	for i, rt := range AllResourceTypes() {
		r.Set(rt, i+1)
	}
	assert.Equal(t, Resources{Wood: 1, Meat: 2, Stone: 3, Metal: 4}, r)
	assert.Equal(t, 3, r.Get(Stone))
}

func TestParseNamesRoundTrip(t *testing.T) {
	for _, k := range AllTileKinds() {
		got, err := ParseTileKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for _, u := range AllUnitTypes() {
		got, err := ParseUnitType(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
	_, err := ParseResourceType("gold")
	assert.Error(t, err)
}
