package converter

import (
	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует Product между domain и моделью кэша.
type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) ProductRedisModel {
	prices := make(map[string]string, len(entity.Prices))
	for market, price := range entity.Prices {
		prices[market] = price.String()
	}

	return ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Category:    entity.Category,
		Description: entity.Description,
		Prices:      prices,
		Unit:        entity.Unit,
		Popularity:  entity.Popularity,
		Rating:      entity.Rating,
		RatingCount: entity.RatingCount,
		ImageKey:    entity.ImageKey,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	prices := make(domain.PriceMap, len(model.Prices))
	for market, raw := range model.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		prices[market] = price
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Category:    model.Category,
		Description: model.Description,
		Prices:      prices,
		Unit:        model.Unit,
		Popularity:  model.Popularity,
		Rating:      model.Rating,
		RatingCount: model.RatingCount,
		ImageKey:    model.ImageKey,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}

func (c ProductConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	out := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		out = append(out, c.ToRedisModel(&entities[i]))
	}
	return out
}

func (c ProductConverter) ToArrEntity(models []ProductRedisModel) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(models))
	for i := range models {
		p, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
