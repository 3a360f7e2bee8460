package domain

import (
	"encoding/json"
	"testing"

	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceMap_UnmarshalJSON(t *testing.T) {
	var m PriceMap
	require.NoError(t, json.Unmarshal([]byte(`{"lidl": 1.99, "aldi": "2.10", "free": 0}`), &m))

	require.Len(t, m, 3)
	assert.Equal(t, "1.99", m["lidl"].String())
	assert.Equal(t, "2.1", m["aldi"].String())
	assert.Contains(t, m, "free")
	assert.True(t, m["free"].IsZero())
}

func TestPriceMap_UnmarshalJSON_Malformed(t *testing.T) {
	cases := []string{
		`{"lidl": "cheap"}`,
		`{"lidl": true}`,
		`{"lidl": null}`,
		`{"lidl": {"v": 1}}`,
		`[1, 2]`,
	}
	for _, in := range cases {
		var m PriceMap
		err := json.Unmarshal([]byte(in), &m)
		assert.ErrorIs(t, err, e.ErrMalformedPrice, in)
	}
}

func TestPriceMap_Validate(t *testing.T) {
	assert.NoError(t, prices(map[string]int64{"x": 0, "y": 3}).Validate())
	assert.ErrorIs(t, PriceMap{"x": decimal.NewFromInt(-1)}.Validate(), e.ErrInvalidPrice)
	assert.ErrorIs(t, PriceMap{"": decimal.NewFromInt(1)}.Validate(), e.ErrInvalidPrice)
}

func TestPriceMap_MinMaxSpread(t *testing.T) {
	m := prices(map[string]int64{"b": 4, "a": 4, "c": 9})

	market, lowest, ok := m.MinMarket()
	require.True(t, ok)
	assert.Equal(t, "a", market)
	assert.Equal(t, "4", lowest.String())

	highest, _ := m.Max()
	assert.Equal(t, "9", highest.String())

	spread, _ := m.Spread()
	assert.Equal(t, "5", spread.String())

	_, ok = PriceMap{}.Min()
	assert.False(t, ok)
	_, ok = PriceMap(nil).Spread()
	assert.False(t, ok)
}

func TestPriceMap_Clone(t *testing.T) {
	orig := prices(map[string]int64{"x": 1})
	clone := orig.Clone()
	clone["x"] = decimal.NewFromInt(2)

	assert.Equal(t, "1", orig["x"].String())
	assert.Nil(t, PriceMap(nil).Clone())
}
