package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestTotals_SumsPerMarket(t *testing.T) {
	items := []CartItem{
		{ProductID: 1, Quantity: 2, Prices: prices(map[string]int64{"x": 10, "y": 8})},
		{ProductID: 2, Quantity: 1, Prices: prices(map[string]int64{"x": 5})},
	}

	totals := Totals(items)

	require.Len(t, totals, 2)
	assertDecimal(t, "25", totals["x"])
	assertDecimal(t, "16", totals["y"])
}

func TestTotals_NoRounding(t *testing.T) {
	items := []CartItem{
		{Quantity: 3, Prices: PriceMap{"x": decimal.RequireFromString("0.333")}},
		{Quantity: 1, Prices: PriceMap{"x": decimal.RequireFromString("1.005")}},
	}

	assertDecimal(t, "2.004", Totals(items)["x"])
}

func TestTotals_Empty(t *testing.T) {
	totals := Totals(nil)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestTotals_ZeroQuantityContributesZero(t *testing.T) {
	items := []CartItem{
		{Quantity: 0, Prices: prices(map[string]int64{"x": 10})},
		{Quantity: 1, Prices: prices(map[string]int64{"y": 4})},
	}

	totals := Totals(items)

	assertDecimal(t, "0", totals["x"])
	assertDecimal(t, "4", totals["y"])
}

func TestTotals_Idempotent(t *testing.T) {
	items := []CartItem{{Quantity: 2, Prices: prices(map[string]int64{"x": 3})}}

	first := Totals(items)
	second := Totals(items)

	assert.Equal(t, first, second)
	first["x"] = decimal.NewFromInt(100)
	assertDecimal(t, "6", second["x"])
	assertDecimal(t, "6", Totals(items)["x"])
}

func TestNewCartItem_SnapshotsPrices(t *testing.T) {
	p := NewProduct(7, "Milk", "dairy", "", prices(map[string]int64{"x": 2}), "")
	item := NewCartItem(p, 3)

	p.Prices["x"] = decimal.NewFromInt(99)
	p.Prices["z"] = decimal.NewFromInt(1)

	assertDecimal(t, "2", item.Prices["x"])
	assert.NotContains(t, item.Prices, "z")
	assert.Equal(t, "unit", item.Unit)
	assert.Equal(t, int64(7), item.ProductID)
}

func TestNewCart_DefaultName(t *testing.T) {
	now := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

	cart := NewCart(1, "  ", nil, now)
	assert.Equal(t, "Cart 2026-10-19 14:30", cart.Name)

	named := NewCart(1, "Weekly", nil, now)
	assert.Equal(t, "Weekly", named.Name)
}

func TestValidateItems(t *testing.T) {
	assert.Error(t, ValidateItems(nil))
	assert.Error(t, ValidateItems([]CartItem{{Quantity: 0}}))
	assert.NoError(t, ValidateItems([]CartItem{{Quantity: 1}}))
}

func TestBestMarket(t *testing.T) {
	tests := []struct {
		name       string
		items      []CartItem
		wantMarket string
		wantTotal  string
		wantOK     bool
	}{
		{
			name: "cheaper partial market is skipped",
			items: []CartItem{
				{ProductID: 1, Quantity: 2, Prices: prices(map[string]int64{"x": 10, "y": 8})},
				{ProductID: 2, Quantity: 1, Prices: prices(map[string]int64{"x": 5})},
			},
			wantMarket: "x",
			wantTotal:  "25",
			wantOK:     true,
		},
		{
			name: "lowest complete market wins",
			items: []CartItem{
				{ProductID: 1, Quantity: 1, Prices: prices(map[string]int64{"x": 10, "y": 8, "z": 1})},
				{ProductID: 2, Quantity: 3, Prices: prices(map[string]int64{"x": 5, "y": 6})},
			},
			wantMarket: "x",
			wantTotal:  "25",
			wantOK:     true,
		},
		{
			name: "tie goes to smaller name",
			items: []CartItem{
				{ProductID: 1, Quantity: 1, Prices: prices(map[string]int64{"y": 4, "x": 4})},
			},
			wantMarket: "x",
			wantTotal:  "4",
			wantOK:     true,
		},
		{
			name: "no market stocks everything",
			items: []CartItem{
				{ProductID: 1, Quantity: 1, Prices: prices(map[string]int64{"x": 1})},
				{ProductID: 2, Quantity: 1, Prices: prices(map[string]int64{"y": 1})},
			},
		},
		{
			name: "item without prices",
			items: []CartItem{
				{ProductID: 1, Quantity: 1, Prices: prices(map[string]int64{"x": 1})},
				{ProductID: 2, Quantity: 1},
			},
		},
		{
			name: "empty cart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market, total, ok := BestMarket(tt.items)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMarket, market)
			if tt.wantOK {
				assertDecimal(t, tt.wantTotal, total)
			}
		})
	}
}
