package usecase

import (
	"context"

	"github.com/DRSN-tech/basket-backend/internal/domain"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	SaveRating(ctx context.Context, id int64, rating float64, ratingCount int64) error
	IncrementPopularity(ctx context.Context, deltas map[int64]int64) error
	SetImageKey(ctx context.Context, id int64, key string) (string, error)
}

type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	GetByID(ctx context.Context, userID int64, cartID string) (*domain.Cart, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Cart, error)
	Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	Delete(ctx context.Context, userID int64, cartID string) error
}

type CacheRepository interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
	InvalidateCatalog(ctx context.Context) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
