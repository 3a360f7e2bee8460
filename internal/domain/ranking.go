package domain

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Criterion — правило ранжирования продуктов.
type Criterion string

const (
	CriterionCheapest         Criterion = "cheapest"
	CriterionHighestDifferent Criterion = "highest_different"
	CriterionMostSelected     Criterion = "most_selected"
	CriterionHighestRated     Criterion = "highest_rated"
)

// Known сообщает, является ли критерий одним из поддерживаемых.
// Rank не требует этой проверки: неизвестный критерий сортирует по имени.
func (c Criterion) Known() bool {
	switch c {
	case CriterionCheapest, CriterionHighestDifferent, CriterionMostSelected, CriterionHighestRated:
		return true
	default:
		return false
	}
}

type rankedProduct struct {
	product Product
	key     decimal.Decimal
}

// Rank возвращает не более limit продуктов, упорядоченных по criterion.
// Продукты с пустой картой цен не участвуют в ценовых критериях.
// Порядок равных элементов совпадает с порядком во входном срезе.
// Входной срез не изменяется.
func Rank(products []Product, criterion Criterion, limit int) []Product {
	if limit <= 0 || len(products) == 0 {
		return []Product{}
	}

	var ranked []Product
	switch criterion {
	case CriterionCheapest:
		ranked = rankByPrice(products, PriceMap.Min, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	case CriterionHighestDifferent:
		ranked = rankByPrice(products, PriceMap.Spread, func(a, b decimal.Decimal) int { return b.Cmp(a) })
	case CriterionMostSelected:
		ranked = slices.Clone(products)
		slices.SortStableFunc(ranked, func(a, b Product) int { return cmp.Compare(b.Popularity, a.Popularity) })
	case CriterionHighestRated:
		ranked = slices.Clone(products)
		slices.SortStableFunc(ranked, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	default:
		ranked = slices.Clone(products)
		slices.SortStableFunc(ranked, func(a, b Product) int { return strings.Compare(a.Name, b.Name) })
	}

	return ranked[:min(limit, len(ranked))]
}

func rankByPrice(
	products []Product,
	keyOf func(PriceMap) (decimal.Decimal, bool),
	compare func(a, b decimal.Decimal) int,
) []Product {
	candidates := make([]rankedProduct, 0, len(products))
	for _, p := range products {
		key, ok := keyOf(p.Prices)
		if !ok {
			continue
		}
		candidates = append(candidates, rankedProduct{product: p, key: key})
	}

	slices.SortStableFunc(candidates, func(a, b rankedProduct) int { return compare(a.key, b.key) })

	out := make([]Product, len(candidates))
	for i, c := range candidates {
		out[i] = c.product
	}
	return out
}
