package converter

import (
	"encoding/json"
	"strconv"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
)

// UserConverter преобразует User между domain и моделью PostgreSQL.
type UserConverter struct{}

func (UserConverter) ToModel(entity *domain.User) *UserModel {
	return &UserModel{
		ID:           entity.ID,
		Email:        entity.Email,
		Name:         entity.Name,
		PasswordHash: entity.PasswordHash,
		Role:         entity.Role,
		CreatedAt:    entity.CreatedAt,
	}
}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Email:        model.Email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		Role:         model.Role,
		CreatedAt:    model.CreatedAt,
	}
}

// CategoryConverter преобразует Category между domain и моделью PostgreSQL.
type CategoryConverter struct{}

func (CategoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:         model.ID,
		Name:       model.Name,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
		IsArchived: model.IsArchived,
	}
}

func (c CategoryConverter) ToArrEntity(models []CategoryModel) []domain.Category {
	out := make([]domain.Category, 0, len(models))
	for i := range models {
		out = append(out, *c.ToEntity(&models[i]))
	}
	return out
}

// ProductConverter преобразует Product между domain и моделью PostgreSQL.
// Цены сериализуются строками, чтобы jsonb не терял масштаб decimal.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) (*ProductModel, error) {
	prices, err := MarshalPrices(entity.Prices)
	if err != nil {
		return nil, err
	}

	return &ProductModel{
		ProductID:    entity.ID,
		Name:         entity.Name,
		CategoryName: entity.Category,
		Description:  entity.Description,
		Prices:       prices,
		Unit:         entity.Unit,
		Popularity:   entity.Popularity,
		Rating:       entity.Rating,
		RatingCount:  entity.RatingCount,
		ImageKey:     entity.ImageKey,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}, nil
}

func (ProductConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	var prices domain.PriceMap
	if len(model.Prices) > 0 {
		if err := json.Unmarshal(model.Prices, &prices); err != nil {
			return nil, e.Wrap("product_id "+strconv.FormatInt(model.ProductID, 10), err)
		}
	}
	if prices == nil {
		prices = domain.PriceMap{}
	}

	return &domain.Product{
		ID:          model.ProductID,
		Name:        model.Name,
		Category:    model.CategoryName,
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

func (c ProductConverter) ToArrEntity(models []ProductModel) ([]domain.Product, error) {
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

// MarshalPrices кодирует цены как {"market": "1.20"}.
func MarshalPrices(prices domain.PriceMap) ([]byte, error) {
	raw := make(map[string]string, len(prices))
	for market, price := range prices {
		raw[market] = price.String()
	}
	return json.Marshal(raw)
}

// OutboxEventConverter преобразует OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, c.ToEntity(m))
	}
	return out
}
