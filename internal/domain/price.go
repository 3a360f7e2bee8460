package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// PriceMap — цены продукта по супермаркетам.
// Отсутствующий ключ и нулевая цена различаются.
type PriceMap map[string]decimal.Decimal

// UnmarshalJSON принимает числа и числовые строки; на любое другое значение возвращает e.ErrMalformedPrice.
func (m *PriceMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return e.Wrap("prices", e.ErrMalformedPrice)
	}

	prices := make(PriceMap, len(raw))
	for market, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return e.Wrap(fmt.Sprintf("prices[%s]", market), e.ErrMalformedPrice)
		}

		var d decimal.Decimal
		if err := d.UnmarshalJSON(value); err != nil {
			return e.Wrap(fmt.Sprintf("prices[%s]", market), e.ErrMalformedPrice)
		}
		prices[market] = d
	}

	*m = prices
	return nil
}

// Validate проверяет, что все цены неотрицательны и имена супермаркетов не пусты.
func (m PriceMap) Validate() error {
	for market, price := range m {
		if market == "" {
			return e.Wrap("empty market name", e.ErrInvalidPrice)
		}
		if price.IsNegative() {
			return e.Wrap(fmt.Sprintf("prices[%s]", market), e.ErrInvalidPrice)
		}
	}
	return nil
}

// Clone возвращает независимую копию карты.
func (m PriceMap) Clone() PriceMap {
	if m == nil {
		return nil
	}
	out := make(PriceMap, len(m))
	for market, price := range m {
		out[market] = price
	}
	return out
}

// Min возвращает минимальную цену; ok=false для пустой карты.
func (m PriceMap) Min() (decimal.Decimal, bool) {
	_, price, ok := m.MinMarket()
	return price, ok
}

// Max возвращает максимальную цену; ok=false для пустой карты.
func (m PriceMap) Max() (decimal.Decimal, bool) {
	var (
		highest decimal.Decimal
		found   bool
	)
	for _, price := range m {
		if !found || price.GreaterThan(highest) {
			highest = price
			found = true
		}
	}
	return highest, found
}

// Spread — разница между максимальной и минимальной ценой.
func (m PriceMap) Spread() (decimal.Decimal, bool) {
	lowest, ok := m.Min()
	if !ok {
		return decimal.Zero, false
	}
	highest, _ := m.Max()
	return highest.Sub(lowest), true
}

// MinMarket возвращает супермаркет с минимальной ценой.
// При равенстве цен выбирается супермаркет с меньшим именем.
func (m PriceMap) MinMarket() (string, decimal.Decimal, bool) {
	var (
		market string
		lowest decimal.Decimal
		found  bool
	)
	for _, name := range m.Markets() {
		price := m[name]
		if !found || price.LessThan(lowest) {
			market, lowest, found = name, price, true
		}
	}
	return market, lowest, found
}

// Markets возвращает имена супермаркетов в лексикографическом порядке.
func (m PriceMap) Markets() []string {
	markets := make([]string, 0, len(m))
	for market := range m {
		markets = append(markets, market)
	}
	sort.Strings(markets)
	return markets
}
