package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	c := New()
	require.NoError(t, c.Add(widget()))
	require.NoError(t, c.Add(Product{ID: "P2", Name: "Bolt, small", Quantity: 0, Price: decimal.RequireFromString("0.05")}))

	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P1,Widget,10,2.5\nP2,\"Bolt, small\",0,0.05\n", string(data))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(widget()))

	require.NoError(t, c.Load(filepath.Join(t.TempDir(), "absent.csv")))
	assert.Equal(t, 0, c.Len())
}

func TestLoad_ReferenceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	content := "P1,Widget,10,2.5\r\nP2,Gadget,3,19.99\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	p := c.Lookup("P2")
	require.NotNil(t, p)
	assert.Equal(t, "Gadget", p.Name)
	assert.Equal(t, 3, p.Quantity)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestLoad_BareQuoteInName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("P1,12\" Pizza,5,9.5\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Lookup("P1"))
	assert.Equal(t, `12" Pizza`, c.Lookup("P1").Name)

	require.NoError(t, c.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P1,\"12\"\" Pizza\",5,9.5\n", string(data))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `12" Pizza`, reloaded.Lookup("P1").Name)
}

func TestLoad_CorruptRecordAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("P1,Widget,10,2.5\nP2,Gadget,many,1\n"), 0644))

	c := New()
	require.NoError(t, c.Add(Product{ID: "keep"}))

	err := c.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCorruptRecord))

	var recErr *apperr.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 2, recErr.Line)

	assert.Equal(t, 1, c.Len(), "catalog must be untouched on a failed load")
	assert.NotNil(t, c.Lookup("keep"))
}

func TestLoad_CorruptRecordSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	content := "P1,Widget,10,2.5\nP2,Gadget\nP3,Nut,4,abc\nP4,Bolt,1,0.10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := Load(path, WithSkipCorrupt(true))
	require.NoError(t, err)

	var ids []string
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P1", "P4"}, ids)
}

func TestLoad_DuplicateWithUniqueIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("P1,A,1,1\nP1,B,2,2\n"), 0644))

	_, err := Load(path, WithUniqueIDs(true))
	assert.True(t, errors.Is(err, apperr.ErrCorruptRecord))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func genProduct(t *rapid.T, label string) Product {
	return Product{
		ID:       rapid.StringMatching(`[A-Z][0-9]{0,3}`).Draw(t, label+"-id"),
		Name:     rapid.StringMatching(`[A-Za-z0-9 ,"'-]{0,16}`).Draw(t, label+"-name"),
		Quantity: rapid.IntRange(0, 100000).Draw(t, label+"-qty"),
		Price:    decimal.New(rapid.Int64Range(0, 10000000).Draw(t, label+"-cents"), -2),
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		c := New()
		for i := 0; i < n; i++ {
			if err := c.Add(genProduct(t, "p")); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}

		path := filepath.Join(dir, "inventory.csv")
		if err := c.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		before, after := c.List(), loaded.List()
		if len(before) != len(after) {
			t.Fatalf("expected %d products, got %d", len(before), len(after))
		}
		for i := range before {
			b, a := before[i], after[i]
			if b.ID != a.ID || b.Name != a.Name || b.Quantity != a.Quantity || !b.Price.Equal(a.Price) {
				t.Fatalf("product %d differs: %+v vs %+v", i, *b, *a)
			}
		}
	})
}
