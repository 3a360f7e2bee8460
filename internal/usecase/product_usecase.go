package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога продуктов.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	imageRepo    ImageRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	txManager    TxManager
	events       *eventRecorder
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	imageRepo ImageRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	txManager TxManager,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		txManager:    txManager,
		events:       &eventRecorder{outbox: outboxRepo, encoder: encoder},
		logger:       logger,
	}
}

// ListProducts возвращает продукты каталога, отфильтрованные по подстроке имени и категории.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	catalog, err := p.catalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]domain.Product, 0, len(catalog))
	for i := range catalog {
		if catalog[i].MatchesQuery(req.Query, req.Category) {
			result = append(result, catalog[i])
		}
	}

	return result, nil
}

func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// TopProducts ранжирует снимок каталога по критерию.
func (p *ProductUseCase) TopProducts(ctx context.Context, req *TopProductsReq) ([]domain.Product, error) {
	const op = "ProductUseCase.TopProducts"

	catalog, err := p.catalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.Rank(catalog, req.Criterion, req.Limit), nil
}

func (p *ProductUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "ProductUseCase.ListCategories"

	categories, err := p.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// CreateProduct создаёт продукт, идемпотентно создаёт категорию и пишет событие в outbox в одной транзакции.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *UpsertProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	product := domain.NewProduct(req.ID, req.Name, req.Category, req.Description, req.Prices, req.Unit)
	if err := product.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := p.categoryRepo.Create(ctx, domain.NewCategory(product.Category))
		if err != nil {
			return err
		}

		created, err = p.productRepo.Create(ctx, product, category.ID)
		if err != nil {
			return err
		}

		return p.events.record(ctx, ProductCreated, productAggregateID(created.ID), productEventData(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)
	return created, nil
}

// UpdateProduct полностью заменяет изменяемые поля продукта.
// Популярность, рейтинг и изображение не меняются.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpsertProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	product := domain.NewProduct(req.ID, req.Name, req.Category, req.Description, req.Prices, req.Unit)
	if err := product.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := p.categoryRepo.Create(ctx, domain.NewCategory(product.Category))
		if err != nil {
			return err
		}

		updated, err = p.productRepo.Update(ctx, product, category.ID)
		if err != nil {
			return err
		}

		return p.events.record(ctx, ProductUpdated, productAggregateID(updated.ID), productEventData(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)
	return updated, nil
}

// DeleteProduct удаляет продукт. Сохранённые корзины не затрагиваются: в них хранится снимок цен.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	var imageKey string
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		imageKey = product.ImageKey

		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return p.events.record(ctx, ProductDeleted, productAggregateID(id), map[string]any{"id": id})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	if imageKey != "" {
		p.imagesInfra.CleanupImages([]string{imageKey})
	}

	p.invalidateCatalog(ctx, op)
	return nil
}

// RateProduct добавляет оценку пользователя к рейтингу продукта.
func (p *ProductUseCase) RateProduct(ctx context.Context, req *RateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.RateProduct"

	if req.Rating < 0 || req.Rating > domain.MaxRating {
		return nil, e.Wrap(op, e.ErrInvalidRating)
	}

	var rated *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		if err := product.ApplyRating(req.Rating); err != nil {
			return err
		}

		if err := p.productRepo.SaveRating(ctx, product.ID, product.Rating, product.RatingCount); err != nil {
			return err
		}
		rated = product

		return p.events.record(ctx, ProductRated, productAggregateID(product.ID), map[string]any{
			"id":           product.ID,
			"rating":       product.Rating,
			"rating_count": product.RatingCount,
		})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)
	return rated, nil
}

// UploadProductImage загружает изображение в объектное хранилище и привязывает ключ к продукту.
// Если привязка не удалась, загруженный объект удаляется в фоне.
func (p *ProductUseCase) UploadProductImage(ctx context.Context, req *UploadImageReq) (*ProductImageRes, error) {
	const op = "ProductUseCase.UploadProductImage"

	if _, err := p.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := p.imagesInfra.UploadImage(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	oldKey, err := p.productRepo.SetImageKey(ctx, req.ProductID, key)
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned image after failed update. product_id: %d, error: %v", req.ProductID, e.Wrap(op, err))
		p.imagesInfra.CleanupImages([]string{key})
		return nil, e.Wrap(op, err)
	}

	if oldKey != "" && oldKey != key {
		p.imagesInfra.CleanupImages([]string{oldKey})
	}

	p.invalidateCatalog(ctx, op)
	return p.imageRes(ctx, req.ProductID, key), nil
}

// ProductImageURL возвращает временную ссылку на изображение продукта.
func (p *ProductUseCase) ProductImageURL(ctx context.Context, id int64) (*ProductImageRes, error) {
	const op = "ProductUseCase.ProductImageURL"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if product.ImageKey == "" {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	return p.imageRes(ctx, id, product.ImageKey), nil
}

func (p *ProductUseCase) imageRes(ctx context.Context, productID int64, key string) *ProductImageRes {
	url, err := p.imageRepo.PresignedURL(ctx, key)
	if err != nil {
		p.logger.Warnf("Failed to presign image url. key: %s, error: %v", key, err)
	}

	return &ProductImageRes{ProductID: productID, Key: key, URL: url}
}

// catalog возвращает снимок каталога из кэша, а при промахе читает БД и кэширует результат.
func (p *ProductUseCase) catalog(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.catalog"

	products, err := p.cacheRepo.GetCatalog(ctx)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, e.ErrCacheMiss) {
		p.logger.Warnf("Catalog cache read failed: %v", e.Wrap(op, err))
	}

	products, err = p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.cacheRepo.SetCatalog(ctx, products); err != nil {
		p.logger.Warnf("Failed to cache catalog: %v", e.Wrap(op, err))
	}

	return products, nil
}

func (p *ProductUseCase) invalidateCatalog(ctx context.Context, op string) {
	if err := p.cacheRepo.InvalidateCatalog(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}
}

func productAggregateID(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}
