package http

import (
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// AUTH

type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PRODUCTS

type ProductRequest struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Description string          `json:"description" validate:"max=2000"`
	Prices      domain.PriceMap `json:"prices"`
	Unit        string          `json:"unit" validate:"max=20"`
}

type RatingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

type ProductResponse struct {
	ID          int64                      `json:"id"`
	Name        string                     `json:"name"`
	Category    string                     `json:"category"`
	Description string                     `json:"description"`
	Prices      map[string]decimal.Decimal `json:"prices"`
	Unit        string                     `json:"unit"`
	Popularity  int64                      `json:"popularity"`
	Rating      float64                    `json:"rating"`
	RatingCount int64                      `json:"rating_count"`
	HasImage    bool                       `json:"has_image"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductImageResponse struct {
	ProductID int64  `json:"product_id"`
	Key       string `json:"key"`
	URL       string `json:"url"`
}

// CARTS

type CartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

type CartRequest struct {
	Name  string            `json:"name" validate:"max=100"`
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type TotalsRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CartItemResponse struct {
	ProductID int64                      `json:"product_id"`
	Name      string                     `json:"name"`
	Unit      string                     `json:"unit"`
	Quantity  int                        `json:"quantity"`
	Prices    map[string]decimal.Decimal `json:"prices"`
}

type TotalsResponse struct {
	Totals     map[string]decimal.Decimal `json:"totals"`
	BestMarket string                     `json:"best_market,omitempty"`
	BestTotal  *decimal.Decimal           `json:"best_total,omitempty"`
}

type CartResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Items     []CartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	TotalsResponse
}

type ComputedTotalsResponse struct {
	Items []CartItemResponse `json:"items"`
	TotalsResponse
}

// MAPPERS

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Prices:      pricesOrEmpty(p.Prices),
		Unit:        p.Unit,
		Popularity:  p.Popularity,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		HasImage:    p.ImageKey != "",
	}
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = toProductResponse(&products[i])
	}
	return res
}

func toArrCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return res
}

func toProductImageResponse(img *usecase.ProductImageRes) ProductImageResponse {
	return ProductImageResponse{ProductID: img.ProductID, Key: img.Key, URL: img.URL}
}

func (r *ProductRequest) toUsecase(id int64) *usecase.UpsertProductReq {
	if id == 0 {
		id = r.ID
	}
	return &usecase.UpsertProductReq{
		ID:          id,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Prices:      r.Prices,
		Unit:        r.Unit,
	}
}

func toCartItemReqs(items []CartItemRequest) []usecase.CartItemReq {
	res := make([]usecase.CartItemReq, len(items))
	for i, it := range items {
		res[i] = usecase.CartItemReq{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return res
}

func toArrCartItemResponse(items []domain.CartItem) []CartItemResponse {
	res := make([]CartItemResponse, len(items))
	for i, it := range items {
		res[i] = CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Unit:      it.Unit,
			Quantity:  it.Quantity,
			Prices:    pricesOrEmpty(it.Prices),
		}
	}
	return res
}

func toTotalsResponse(totals domain.PriceMap, bestMarket string, bestTotal decimal.Decimal) TotalsResponse {
	res := TotalsResponse{Totals: pricesOrEmpty(totals)}
	if bestMarket != "" {
		res.BestMarket = bestMarket
		res.BestTotal = &bestTotal
	}
	return res
}

func toCartResponse(v *usecase.CartView) CartResponse {
	return CartResponse{
		ID:             v.Cart.ID,
		Name:           v.Cart.Name,
		Items:          toArrCartItemResponse(v.Cart.Items),
		CreatedAt:      v.Cart.CreatedAt,
		UpdatedAt:      v.Cart.UpdatedAt,
		TotalsResponse: toTotalsResponse(v.Totals, v.BestMarket, v.BestTotal),
	}
}

func toArrCartResponse(views []usecase.CartView) []CartResponse {
	res := make([]CartResponse, len(views))
	for i := range views {
		res[i] = toCartResponse(&views[i])
	}
	return res
}

func toComputedTotalsResponse(v *usecase.TotalsView) ComputedTotalsResponse {
	return ComputedTotalsResponse{
		Items:          toArrCartItemResponse(v.Items),
		TotalsResponse: toTotalsResponse(v.Totals, v.BestMarket, v.BestTotal),
	}
}

// pricesOrEmpty гарантирует {} вместо null в ответе.
func pricesOrEmpty(m domain.PriceMap) map[string]decimal.Decimal {
	if m == nil {
		return map[string]decimal.Decimal{}
	}
	return m
}
