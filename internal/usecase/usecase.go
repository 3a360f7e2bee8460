package usecase

import (
	"context"

	"github.com/DRSN-tech/basket-backend/internal/domain"
)

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *LoginReq) (*LoginRes, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type ProductUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	TopProducts(ctx context.Context, req *TopProductsReq) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateProduct(ctx context.Context, req *UpsertProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpsertProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	RateProduct(ctx context.Context, req *RateProductReq) (*domain.Product, error)
	UploadProductImage(ctx context.Context, req *UploadImageReq) (*ProductImageRes, error)
	ProductImageURL(ctx context.Context, id int64) (*ProductImageRes, error)
}

type CartUC interface {
	SaveCart(ctx context.Context, req *SaveCartReq) (*CartView, error)
	ListCarts(ctx context.Context, userID int64) ([]CartView, error)
	GetCart(ctx context.Context, userID int64, cartID string) (*CartView, error)
	UpdateCart(ctx context.Context, req *UpdateCartReq) (*CartView, error)
	DeleteCart(ctx context.Context, userID int64, cartID string) error
	ComputeTotals(ctx context.Context, items []CartItemReq) (*TotalsView, error)
}
