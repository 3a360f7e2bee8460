package converter

import (
	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartConverter преобразует Cart между domain и документом MongoDB.
// Цены хранятся как Decimal128, чтобы не терять точность.
type CartConverter struct{}

func (CartConverter) ToModel(entity *domain.Cart) (*CartModel, error) {
	const op = "CartConverter.ToModel"

	var id primitive.ObjectID
	if entity.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(entity.ID)
		if err != nil {
			return nil, e.Wrap(op, e.ErrInvalidCartID)
		}
		id = parsed
	}

	items := make([]CartItemModel, 0, len(entity.Items))
	for _, item := range entity.Items {
		prices := make(map[string]primitive.Decimal128, len(item.Prices))
		for market, price := range item.Prices {
			d, err := primitive.ParseDecimal128(price.String())
			if err != nil {
				return nil, e.Wrap(op, e.ErrPricePrecision)
			}
			prices[market] = d
		}

		items = append(items, CartItemModel{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Prices:    prices,
		})
	}

	return &CartModel{
		ID:        id,
		UserID:    entity.UserID,
		Name:      entity.Name,
		Items:     items,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}, nil
}

func (CartConverter) ToEntity(model *CartModel) (*domain.Cart, error) {
	const op = "CartConverter.ToEntity"

	items := make([]domain.CartItem, 0, len(model.Items))
	for _, item := range model.Items {
		prices := make(domain.PriceMap, len(item.Prices))
		for market, price := range item.Prices {
			d, err := decimal.NewFromString(price.String())
			if err != nil {
				return nil, e.Wrap(op, e.ErrMalformedPrice)
			}
			prices[market] = d
		}

		items = append(items, domain.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Prices:    prices,
		})
	}

	return &domain.Cart{
		ID:        model.ID.Hex(),
		UserID:    model.UserID,
		Name:      model.Name,
		Items:     items,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}, nil
}

func (c CartConverter) ToArrEntity(models []CartModel) ([]domain.Cart, error) {
	out := make([]domain.Cart, 0, len(models))
	for i := range models {
		cart, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *cart)
	}
	return out, nil
}
