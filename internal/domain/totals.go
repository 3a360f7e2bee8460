package domain

import "github.com/shopspring/decimal"

// Totals суммирует price × quantity по каждому супермаркету всех позиций.
// Супермаркет учитывается только по тем позициям, где он указан.
// Округление не выполняется. Каждый вызов возвращает новую карту.
func Totals(items []CartItem) PriceMap {
	totals := make(PriceMap)
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		for market, price := range item.Prices {
			totals[market] = totals[market].Add(price.Mul(qty))
		}
	}
	return totals
}

// BestMarket выбирает супермаркет с минимальной суммой среди тех, где есть все позиции корзины.
// Если ни в одном супермаркете нельзя купить корзину целиком, ok=false.
// При равенстве сумм выбирается супермаркет с меньшим именем.
func BestMarket(items []CartItem) (string, decimal.Decimal, bool) {
	if len(items) == 0 {
		return "", decimal.Zero, false
	}

	totals := Totals(items)
	complete := make(PriceMap, len(totals))
	for market, total := range totals {
		if stocksAll(items, market) {
			complete[market] = total
		}
	}

	return complete.MinMarket()
}

func stocksAll(items []CartItem, market string) bool {
	for _, item := range items {
		if _, ok := item.Prices[market]; !ok {
			return false
		}
	}
	return true
}
