package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAdd_NewItem(t *testing.T) {
	c, change := Add(Cart{}, 7, "Widget", price("9.99"), 1)

	assert.Equal(t, ItemAdded, change)
	require.Len(t, c, 1)
	assert.Equal(t, int64(7), c[0].ProductID)
	assert.Equal(t, "Widget", c[0].Name)
	assert.True(t, c[0].UnitPrice.Equal(price("9.99")))
	assert.Equal(t, 1, c[0].Quantity)
}

func TestAdd_MergeAccumulatesQuantity(t *testing.T) {
	c, _ := Add(Cart{}, 7, "X", price("10.00"), 2)
	c, change := Add(c, 7, "X", price("10.00"), 3)

	assert.Equal(t, ItemMerged, change)
	require.Len(t, c, 1)
	assert.Equal(t, 5, c[0].Quantity)
}

func TestAdd_MergeKeepsSnapshot(t *testing.T) {
	// First write wins for name and price, a merge only bumps the quantity.
	c, _ := Add(Cart{}, 7, "Widget", price("9.99"), 1)
	c, change := Add(c, 7, "Renamed Widget", price("14.99"), 1)

	assert.Equal(t, ItemMerged, change)
	require.Len(t, c, 1)
	assert.Equal(t, "Widget", c[0].Name)
	assert.True(t, c[0].UnitPrice.Equal(price("9.99")))
	assert.Equal(t, 2, c[0].Quantity)
}

func TestAdd_UniquePerProduct(t *testing.T) {
	var c Cart
	for i := 0; i < 4; i++ {
		c, _ = Add(c, 1, "A", price("1.00"), 1)
		c, _ = Add(c, 2, "B", price("2.00"), 1)
	}

	assert.Len(t, c, 2)
	seen := map[int64]int{}
	for _, li := range c {
		seen[li.ProductID]++
	}
	for id, n := range seen {
		assert.Equalf(t, 1, n, "product %d appears %d times", id, n)
	}
}

func TestAdd_NonPositiveQuantityIsNoOp(t *testing.T) {
	c, change := Add(Cart{}, 7, "Widget", price("9.99"), 0)
	assert.Equal(t, NoChange, change)
	assert.Empty(t, c)

	c, change = Add(c, 7, "Widget", price("9.99"), -3)
	assert.Equal(t, NoChange, change)
	assert.Empty(t, c)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	orig, _ := Add(Cart{}, 1, "A", price("1.00"), 1)

	next, _ := Add(orig, 1, "A", price("1.00"), 5)
	_, _ = Add(orig, 2, "B", price("2.00"), 1)

	assert.Equal(t, 1, orig[0].Quantity)
	assert.Equal(t, 6, next[0].Quantity)
	assert.Len(t, orig, 1)
}

func TestSetQuantity_Overwrites(t *testing.T) {
	c, _ := Add(Cart{}, 7, "Widget", price("9.99"), 2)

	c, change := SetQuantity(c, 7, 10)

	assert.Equal(t, ItemUpdated, change)
	assert.Equal(t, 10, c[0].Quantity)
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	c, _ := Add(Cart{}, 7, "Widget", price("9.99"), 2)

	c, change := SetQuantity(c, 7, 0)

	assert.Equal(t, ItemRemoved, change)
	assert.Empty(t, c)
}

func TestSetQuantity_NegativeRemoves(t *testing.T) {
	c, _ := Add(Cart{}, 7, "Widget", price("9.99"), 2)

	c, change := SetQuantity(c, 7, -5)

	assert.Equal(t, ItemRemoved, change)
	assert.Empty(t, c)
}

func TestSetQuantity_AbsentProductIsNoOp(t *testing.T) {
	c, _ := Add(Cart{}, 7, "Widget", price("9.99"), 2)

	next, change := SetQuantity(c, 99, 5)

	assert.Equal(t, NoChange, change)
	assert.Equal(t, c, next)
}

func TestRemove_Idempotent(t *testing.T) {
	c, _ := Add(Cart{}, 1, "A", price("1.00"), 1)
	c, _ = Add(c, 2, "B", price("2.00"), 1)

	once, change := Remove(c, 1)
	assert.Equal(t, ItemRemoved, change)

	twice, change := Remove(once, 1)
	assert.Equal(t, NoChange, change)
	assert.Equal(t, once, twice)
	require.Len(t, twice, 1)
	assert.Equal(t, int64(2), twice[0].ProductID)
}

func TestClear(t *testing.T) {
	c, _ := Add(Cart{}, 1, "A", price("1.00"), 3)
	assert.Empty(t, Clear(c))
	assert.Empty(t, Clear(Cart{}))
}

func TestCheckout_SummarizesAndEmpties(t *testing.T) {
	c, _ := Add(Cart{}, 1, "A", price("10.00"), 2)
	c, _ = Add(c, 2, "B", price("5.50"), 1)

	summary, next, err := Checkout(c)

	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(price("25.50")), "total was %s", summary.Total)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Empty(t, next)
	// the input cart value is untouched
	assert.Len(t, c, 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	summary, next, err := Checkout(Cart{})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, next)
	assert.True(t, summary.Total.IsZero())
	assert.Zero(t, summary.ItemCount)
}

func TestLineTotal(t *testing.T) {
	li := LineItem{ProductID: 1, Name: "A", UnitPrice: price("9.99"), Quantity: 3}
	assert.True(t, li.LineTotal().Equal(price("29.97")))
}

func TestCart_EndToEnd(t *testing.T) {
	// add Widget, add it again, zero it out, add Gadget, check out
	c, _ := Add(Cart{}, 1, "Widget", price("9.99"), 1)
	c, _ = Add(c, 1, "Widget", price("9.99"), 2)
	c, _ = SetQuantity(c, 1, 0)
	c, _ = Add(c, 2, "Gadget", price("20.00"), 1)

	summary, next, err := Checkout(c)

	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(price("20.00")), "total was %s", summary.Total)
	assert.Equal(t, 1, summary.ItemCount)
	assert.Empty(t, next)
}
