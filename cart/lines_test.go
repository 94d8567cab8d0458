package cart

import (
	"testing"

	"kirana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddLineAppendsNewProduct(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	lines := addLine(nil, a, 2)
	lines = addLine(lines, b, 1)

	require.Len(t, lines, 2)
	assert.Equal(t, models.CartLine{Product: a, Quantity: 2}, lines[0])
	assert.Equal(t, models.CartLine{Product: b, Quantity: 1}, lines[1])
}

func TestAddLineMergesExistingProduct(t *testing.T) {
	a := primitive.NewObjectID()

	lines := addLine(nil, a, 2)
	lines = addLine(lines, a, 3)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestRemoveLineDecrements(t *testing.T) {
	a := primitive.NewObjectID()
	lines := []models.CartLine{{Product: a, Quantity: 3}}

	lines, found := removeLine(lines, a, 1)

	assert.True(t, found)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRemoveLineDropsAtZero(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	lines := []models.CartLine{{Product: a, Quantity: 1}, {Product: b, Quantity: 4}}

	lines, found := removeLine(lines, a, 1)

	assert.True(t, found)
	require.Len(t, lines, 1)
	assert.Equal(t, b, lines[0].Product)
}

func TestRemoveLineOverRemovalDrops(t *testing.T) {
	a := primitive.NewObjectID()
	lines := []models.CartLine{{Product: a, Quantity: 2}}

	lines, found := removeLine(lines, a, 5)

	assert.True(t, found)
	assert.Empty(t, lines)
}

func TestRemoveLineMissingProduct(t *testing.T) {
	a := primitive.NewObjectID()
	lines := []models.CartLine{{Product: a, Quantity: 2}}

	got, found := removeLine(lines, primitive.NewObjectID(), 1)

	assert.False(t, found)
	assert.Equal(t, lines, got)
}

func TestComputeTotals(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	prices := map[primitive.ObjectID]float64{a: 10, b: 5}

	lines := []models.CartLine{
		{Product: a, Quantity: 2},
		{Product: b, Quantity: 1},
	}

	amount, items := computeTotals(lines, prices)
	assert.Equal(t, 25.0, amount)
	assert.Equal(t, 3, items)

	lines, found := removeLine(lines, a, 1)
	require.True(t, found)

	amount, items = computeTotals(lines, prices)
	assert.Equal(t, 15.0, amount)
	assert.Equal(t, 2, items)
}

func TestComputeTotalsExactMoney(t *testing.T) {
	a := primitive.NewObjectID()
	prices := map[primitive.ObjectID]float64{a: 0.1}

	amount, items := computeTotals([]models.CartLine{{Product: a, Quantity: 3}}, prices)

	assert.Equal(t, 0.3, amount)
	assert.Equal(t, 3, items)
}

func TestComputeTotalsUnresolvedProductContributesZero(t *testing.T) {
	a := primitive.NewObjectID()
	missing := primitive.NewObjectID()
	prices := map[primitive.ObjectID]float64{a: 10}

	lines := []models.CartLine{
		{Product: a, Quantity: 1},
		{Product: missing, Quantity: 2},
	}

	amount, items := computeTotals(lines, prices)
	assert.Equal(t, 10.0, amount)
	assert.Equal(t, 3, items)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	amount, items := computeTotals(nil, nil)
	assert.Zero(t, amount)
	assert.Zero(t, items)
}
