// Package ledger keeps per-player resource counters, stockpile limits and population.
package ledger

import (
	"errors"
	"fmt"

	"github.com/napolitain/rts-core/internal/models"
)

// ErrInsufficient is returned when a deduction is attempted without enough stock
var ErrInsufficient = errors.New("insufficient resources")

// ErrPopulationFull is returned when no population slot is free
var ErrPopulationFull = errors.New("population limit reached")

// Ledger holds one player's stock and limits
type Ledger struct {
	Stock    models.Resources `json:"stock"`
	Capacity models.Resources `json:"capacity"`
	// Limited is set once any stockpile capacity was granted. Until then Credit
	// stores everything; afterwards a kind holds at most its Capacity, even when
	// that drops to zero.
	Limited bool `json:"limited"`

	Population    int `json:"population"` // units alive plus units in training
	PopulationCap int `json:"population_cap"`
}

// New creates a ledger with the given starting stock and limits
func New(stock, capacity models.Resources, populationCap int) Ledger {
	return Ledger{
		Stock:         stock,
		Capacity:      capacity,
		Limited:       capacity != models.Resources{},
		PopulationCap: populationCap,
	}
}

// Sufficient reports whether the stock covers cost
func (l *Ledger) Sufficient(cost models.Resources) bool {
	return l.Stock.Covers(cost)
}

// Deduct removes cost from the stock. The stock is left untouched when it does not
// cover the cost.
func (l *Ledger) Deduct(cost models.Resources) error {
	if !l.Sufficient(cost) {
		return fmt.Errorf("deduct %s from %s: %w", cost, l.Stock, ErrInsufficient)
	}
	l.Stock = l.Stock.Sub(cost)
	return nil
}

// Credit adds amount to the stock, limited per kind by the capacity once the
// ledger is Limited, and returns what was actually stored
func (l *Ledger) Credit(amount models.Resources) models.Resources {
	var stored models.Resources
	for _, rt := range models.AllResourceTypes() {
		add := amount.Get(rt)
		if add <= 0 {
			continue
		}
		have := l.Stock.Get(rt)
		if limit := l.Capacity.Get(rt); l.Limited && have+add > limit {
			add = max(0, limit-have)
		}
		l.Stock.Set(rt, have+add)
		stored.Set(rt, add)
	}
	return stored
}

// Refund credits percent% of cost (rounded up per kind) and returns the refund.
// The refund ignores the capacity and may leave the stock above it.
func (l *Ledger) Refund(cost models.Resources, percent int) models.Resources {
	back := cost.Discount(percent)
	l.Stock = l.Stock.Add(back)
	return back
}

// Boost raises the population cap and stockpile capacity (completed buildings)
func (l *Ledger) Boost(population int, stockpile models.Resources) {
	l.PopulationCap += population
	l.Capacity = l.Capacity.Add(stockpile)
	if stockpile != (models.Resources{}) {
		l.Limited = true
	}
}

// Unboost reverses Boost (destroyed buildings)
func (l *Ledger) Unboost(population int, stockpile models.Resources) {
	l.PopulationCap = max(0, l.PopulationCap-population)
	l.Capacity = l.Capacity.Sub(stockpile)
	for _, rt := range models.AllResourceTypes() {
		if l.Capacity.Get(rt) < 0 {
			l.Capacity.Set(rt, 0)
		}
	}
}

// HasRoom reports whether n more population slots are free
func (l *Ledger) HasRoom(n int) bool {
	return l.Population+n <= l.PopulationCap
}

// ReservePopulation takes n population slots
func (l *Ledger) ReservePopulation(n int) error {
	if !l.HasRoom(n) {
		return fmt.Errorf("reserve %d of %d/%d: %w", n, l.Population, l.PopulationCap, ErrPopulationFull)
	}
	l.Population += n
	return nil
}

// ReleasePopulation frees n population slots
func (l *Ledger) ReleasePopulation(n int) {
	l.Population = max(0, l.Population-n)
}
