package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopcart/internal/catalog"
)

var testCatalog = []catalog.Product{
	{ID: "PmInA797xJhMIPti", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4},
	{ID: "TwMM4OAhmK0VQ93S", Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: 50, Rating: 5},
	{ID: "upLK9JbQ4rMhTwt4", Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5},
}

// ============================================
// Merge Tests
// ============================================

func TestMerge_EmptyEntries(t *testing.T) {
	items, stale := Merge(nil, testCatalog)
	assert.Empty(t, items)
	assert.Empty(t, stale)

	items, stale = Merge([]Entry{}, testCatalog)
	assert.Empty(t, items)
	assert.Empty(t, stale)
}

func TestMerge_PreservesEntryOrder(t *testing.T) {
	entries := []Entry{
		{ProductID: "upLK9JbQ4rMhTwt4", Quantity: 1},
		{ProductID: "PmInA797xJhMIPti", Quantity: 2},
	}

	items, stale := Merge(entries, testCatalog)

	require.Len(t, items, 2)
	assert.Empty(t, stale)
	assert.Equal(t, "upLK9JbQ4rMhTwt4", items[0].Product.ID)
	assert.Equal(t, "PmInA797xJhMIPti", items[1].Product.ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestMerge_DropsUnresolvedEntries(t *testing.T) {
	entries := []Entry{
		{ProductID: "PmInA797xJhMIPti", Quantity: 2},
		{ProductID: "gone-from-catalog", Quantity: 5},
		{ProductID: "TwMM4OAhmK0VQ93S", Quantity: 1},
	}

	items, stale := Merge(entries, testCatalog)

	require.Len(t, items, 2)
	assert.LessOrEqual(t, len(items), len(entries))
	expected := []Entry{{ProductID: "gone-from-catalog", Quantity: 5}}
	if diff := cmp.Diff(expected, stale); diff != "" {
		t.Errorf("stale entries mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_EmptyCatalog(t *testing.T) {
	entries := []Entry{{ProductID: "PmInA797xJhMIPti", Quantity: 2}}

	items, stale := Merge(entries, nil)

	assert.Empty(t, items)
	assert.Equal(t, entries, stale)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	entries := []Entry{
		{ProductID: "PmInA797xJhMIPti", Quantity: 2},
		{ProductID: "TwMM4OAhmK0VQ93S", Quantity: 1},
	}
	entriesCopy := append([]Entry(nil), entries...)
	catalogCopy := append([]catalog.Product(nil), testCatalog...)

	_, _ = Merge(entries, testCatalog)

	assert.Equal(t, entriesCopy, entries)
	assert.Equal(t, catalogCopy, testCatalog)
}

// ============================================
// Aggregate Tests
// ============================================

func TestTotals_Empty(t *testing.T) {
	assert.Equal(t, 0, TotalValue(nil))
	assert.Equal(t, 0, TotalUnits(nil))
	assert.Equal(t, 0, TotalValue([]LineItem{}))
	assert.Equal(t, 0, TotalUnits([]LineItem{}))
}

func TestTotals_SumOverLines(t *testing.T) {
	items := []LineItem{
		{Product: catalog.Product{ID: "A", Cost: 10}, Quantity: 2},
		{Product: catalog.Product{ID: "B", Cost: 20}, Quantity: 1},
	}

	assert.Equal(t, 40, TotalValue(items))
	assert.Equal(t, 3, TotalUnits(items))
}

func TestTotals_MonotonicInQuantity(t *testing.T) {
	items := []LineItem{
		{Product: catalog.Product{ID: "A", Cost: 10}, Quantity: 1},
		{Product: catalog.Product{ID: "B", Cost: 20}, Quantity: 3},
	}
	valueBefore := TotalValue(items)
	unitsBefore := TotalUnits(items)

	items[1].Quantity++

	assert.GreaterOrEqual(t, TotalValue(items), valueBefore)
	assert.GreaterOrEqual(t, TotalUnits(items), unitsBefore)
}

// TotalUnits sums quantities, not distinct lines.
func TestTotalUnits_CountsQuantitiesNotLines(t *testing.T) {
	items := []LineItem{
		{Product: catalog.Product{ID: "A", Cost: 1}, Quantity: 7},
	}
	assert.Equal(t, 7, TotalUnits(items))
}

// ============================================
// IsPresent Tests
// ============================================

func TestIsPresent(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		productID string
		expected  bool
	}{
		{"nil entries", nil, "A", false},
		{"empty entries", []Entry{}, "A", false},
		{"present", []Entry{{ProductID: "A", Quantity: 1}}, "A", true},
		{"absent", []Entry{{ProductID: "B", Quantity: 1}}, "A", false},
		{"zero quantity is not present", []Entry{{ProductID: "A", Quantity: 0}}, "A", false},
		{"match among several", []Entry{{ProductID: "B", Quantity: 2}, {ProductID: "A", Quantity: 3}}, "A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPresent(tt.entries, tt.productID))
		})
	}
}

// ============================================
// End-to-End Merge + Aggregates
// ============================================

func TestMergeAndTotals_EndToEnd(t *testing.T) {
	products := []catalog.Product{
		{ID: "A", Cost: 10},
		{ID: "B", Cost: 20},
	}
	entries := []Entry{
		{ProductID: "A", Quantity: 2},
		{ProductID: "B", Quantity: 1},
	}

	items, stale := Merge(entries, products)

	require.Len(t, items, 2)
	assert.Empty(t, stale)
	assert.Equal(t, 10, items[0].Product.Cost)
	assert.Equal(t, 20, items[1].Product.Cost)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 40, TotalValue(items))
	assert.Equal(t, 3, TotalUnits(items))
}
