package catalog

import (
	"errors"
	"testing"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget() Product {
	return Product{ID: "P1", Name: "Widget", Quantity: 10, Price: decimal.RequireFromString("2.50")}
}

func TestAddAndLookup(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(widget()))
	require.NoError(t, c.Add(Product{ID: "P2", Name: "Gadget", Quantity: 1, Price: decimal.NewFromInt(5)}))

	p := c.Lookup("P2")
	require.NotNil(t, p)
	assert.Equal(t, "Gadget", p.Name)

	assert.Nil(t, c.Lookup("P3"))
	assert.Equal(t, 2, c.Len())
}

func TestLookup_FirstMatchWinsOnDuplicates(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Product{ID: "P1", Name: "First"}))
	require.NoError(t, c.Add(Product{ID: "P1", Name: "Second"}))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "First", c.Lookup("P1").Name)
}

func TestAdd_UniqueIDs(t *testing.T) {
	c := New(WithUniqueIDs(true))
	require.NoError(t, c.Add(widget()))

	err := c.Add(Product{ID: "P1", Name: "Other"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateID))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Widget", c.Lookup("P1").Name)
}

func TestAdjustStock(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(widget()))

	require.NoError(t, c.AdjustStock("P1", 5))
	assert.Equal(t, 15, c.Lookup("P1").Quantity)

	require.NoError(t, c.AdjustStock("P1", -20))
	assert.Equal(t, -5, c.Lookup("P1").Quantity, "AdjustStock does not clamp")
}

func TestAdjustStock_NotFound(t *testing.T) {
	c := New()
	err := c.AdjustStock("missing", 1)

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDelete_RemovesAllMatches(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Product{ID: "P1", Name: "A"}))
	require.NoError(t, c.Add(Product{ID: "P2", Name: "B"}))
	require.NoError(t, c.Add(Product{ID: "P1", Name: "C"}))

	assert.Equal(t, 2, c.Delete("P1"))
	assert.Equal(t, 0, c.Delete("P1"))

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "P2", list[0].ID)
}

func TestList_InsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, c.Add(Product{ID: id}))
	}

	var ids []string
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestList_SharesProducts(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(widget()))

	c.List()[0].Quantity = 3
	assert.Equal(t, 3, c.Lookup("P1").Quantity)
}
