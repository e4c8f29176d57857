package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/models"
)

func TestDeductInsufficientLeavesStock(t *testing.T) {
	l := New(models.Resources{Wood: 5, Meat: 1}, models.Resources{}, 10)

	err := l.Deduct(models.Resources{Wood: 6})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficient))
	assert.Equal(t, models.Resources{Wood: 5, Meat: 1}, l.Stock)
}

func TestDeductExact(t *testing.T) {
	l := New(models.Resources{Wood: 5, Meat: 1, Stone: 3}, models.Resources{}, 10)

	require.NoError(t, l.Deduct(models.Resources{Wood: 5, Meat: 1}))
	assert.Equal(t, models.Resources{Stone: 3}, l.Stock)
}

func TestCreditRespectsCapacity(t *testing.T) {
	l := New(models.Resources{Wood: 90}, models.Resources{Wood: 100, Meat: 10}, 0)

	stored := l.Credit(models.Resources{Wood: 25, Meat: 4, Stone: 7})

	assert.Equal(t, models.Resources{Wood: 10, Meat: 4}, stored)
	assert.Equal(t, models.Resources{Wood: 100, Meat: 4}, l.Stock)
}

func TestCreditUnlimitedUntilStockpileGranted(t *testing.T) {
	l := New(models.Resources{}, models.Resources{}, 0)
	assert.False(t, l.Limited)
	assert.Equal(t, models.Resources{Wood: 1000}, l.Credit(models.Resources{Wood: 1000}))

	l.Boost(5, models.Resources{})
	assert.False(t, l.Limited)

	l.Boost(0, models.Resources{Wood: 50})
	assert.True(t, l.Limited)
	assert.Equal(t, models.Resources{}, l.Credit(models.Resources{Wood: 1, Meat: 1}))
}

func TestCreditAfterLosingAllStorage(t *testing.T) {
	l := New(models.Resources{Wood: 10}, models.Resources{}, 0)
	l.Boost(5, models.Resources{Wood: 200, Meat: 100})
	l.Unboost(5, models.Resources{Wood: 200, Meat: 100})

	assert.True(t, l.Limited)
	assert.Equal(t, models.Resources{}, l.Capacity)
	assert.Equal(t, models.Resources{}, l.Credit(models.Resources{Wood: 100000}))
	assert.Equal(t, models.Resources{Wood: 10}, l.Stock)
}

func TestRefundRoundsUp(t *testing.T) {
	l := New(models.Resources{}, models.Resources{}, 0)

	refund := l.Refund(models.Resources{Wood: 5, Meat: 1, Stone: 0, Metal: 3}, 50)

	assert.Equal(t, models.Resources{Wood: 3, Meat: 1, Metal: 2}, refund)
	assert.Equal(t, refund, l.Stock)
}

func TestRefundIgnoresCapacity(t *testing.T) {
	l := New(models.Resources{Wood: 100}, models.Resources{Wood: 100}, 0)

	refund := l.Refund(models.Resources{Wood: 30}, 50)

	assert.Equal(t, models.Resources{Wood: 15}, refund)
	assert.Equal(t, 115, l.Stock.Wood)
	assert.Equal(t, models.Resources{}, l.Credit(models.Resources{Wood: 5}))
}

func TestPopulation(t *testing.T) {
	l := New(models.Resources{}, models.Resources{}, 2)

	require.NoError(t, l.ReservePopulation(2))
	err := l.ReservePopulation(1)
	assert.True(t, errors.Is(err, ErrPopulationFull))

	l.Boost(5, models.Resources{Wood: 50})
	assert.True(t, l.HasRoom(5))
	assert.Equal(t, 50, l.Capacity.Wood)

	l.Unboost(5, models.Resources{Wood: 80})
	assert.Equal(t, 2, l.PopulationCap)
	assert.Equal(t, 0, l.Capacity.Wood)

	l.ReleasePopulation(3)
	assert.Equal(t, 0, l.Population)
}
