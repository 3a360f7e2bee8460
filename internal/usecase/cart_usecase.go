package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
)

// CartUseCase реализует сохранение корзин и подсчёт сумм по супермаркетам.
type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	cache       CacheRepository
	txManager   TxManager
	events      *eventRecorder
	logger      logger.Logger
	now         func() time.Time
}

func NewCartUC(
	cartRepo CartRepository,
	productRepo ProductRepository,
	cache CacheRepository,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	txManager TxManager,
	logger logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cache:       cache,
		txManager:   txManager,
		events:      &eventRecorder{outbox: outboxRepo, encoder: encoder},
		logger:      logger,
		now:         time.Now,
	}
}

// SaveCart фиксирует текущие цены выбранных продуктов и сохраняет корзину.
func (c *CartUseCase) SaveCart(ctx context.Context, req *SaveCartReq) (*CartView, error) {
	const op = "CartUseCase.SaveCart"

	items, err := c.resolveItems(ctx, req.Items, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	cart, err := c.cartRepo.Create(ctx, domain.NewCart(req.UserID, req.Name, items, c.now().UTC()))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.afterWrite(ctx, op, CartSaved, cart, popularityDeltas(nil, cart.Items))
	return NewCartView(cart), nil
}

func (c *CartUseCase) ListCarts(ctx context.Context, userID int64) ([]CartView, error) {
	const op = "CartUseCase.ListCarts"

	carts, err := c.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	views := make([]CartView, 0, len(carts))
	for i := range carts {
		views = append(views, *NewCartView(&carts[i]))
	}

	return views, nil
}

func (c *CartUseCase) GetCart(ctx context.Context, userID int64, cartID string) (*CartView, error) {
	const op = "CartUseCase.GetCart"

	cart, err := c.cartRepo.GetByID(ctx, userID, cartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCartView(cart), nil
}

// UpdateCart полностью заменяет имя и позиции корзины.
// Для продуктов, уже бывших в корзине, сохраняется прежний снимок цен;
// для новых продуктов фиксируются текущие цены.
func (c *CartUseCase) UpdateCart(ctx context.Context, req *UpdateCartReq) (*CartView, error) {
	const op = "CartUseCase.UpdateCart"

	existing, err := c.cartRepo.GetByID(ctx, req.UserID, req.CartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	snapshots := make(map[int64]domain.CartItem, len(existing.Items))
	for _, item := range existing.Items {
		snapshots[item.ProductID] = item
	}

	items, err := c.resolveItems(ctx, req.Items, snapshots)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updated := domain.NewCart(req.UserID, req.Name, items, c.now().UTC())
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if req.Name == "" {
		updated.Name = existing.Name
	}

	cart, err := c.cartRepo.Replace(ctx, updated)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.afterWrite(ctx, op, CartUpdated, cart, popularityDeltas(existing.Items, cart.Items))
	return NewCartView(cart), nil
}

// DeleteCart удаляет корзину и уменьшает популярность её продуктов.
func (c *CartUseCase) DeleteCart(ctx context.Context, userID int64, cartID string) error {
	const op = "CartUseCase.DeleteCart"

	existing, err := c.cartRepo.GetByID(ctx, userID, cartID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := c.cartRepo.Delete(ctx, userID, cartID); err != nil {
		return e.Wrap(op, err)
	}

	c.afterWrite(ctx, op, CartDeleted, existing, popularityDeltas(existing.Items, nil))
	return nil
}

// ComputeTotals считает суммы для несохранённой корзины по текущим ценам.
func (c *CartUseCase) ComputeTotals(ctx context.Context, items []CartItemReq) (*TotalsView, error) {
	const op = "CartUseCase.ComputeTotals"

	resolved, err := c.resolveItems(ctx, items, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewTotalsView(resolved), nil
}

// resolveItems превращает запрошенные позиции в позиции корзины.
// Повторяющиеся productID объединяются с суммированием количества, порядок первого вхождения сохраняется.
// Снимок из snapshots используется вместо текущих цен, если он есть.
func (c *CartUseCase) resolveItems(ctx context.Context, reqs []CartItemReq, snapshots map[int64]domain.CartItem) ([]domain.CartItem, error) {
	if len(reqs) == 0 {
		return nil, e.ErrEmptyCart
	}

	quantities := make(map[int64]int, len(reqs))
	order := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		if req.ProductID <= 0 {
			return nil, e.ErrInvalidProductID
		}
		if req.Quantity < 1 {
			return nil, e.ErrInvalidQuantity
		}
		if _, seen := quantities[req.ProductID]; !seen {
			order = append(order, req.ProductID)
		}
		quantities[req.ProductID] += req.Quantity
	}

	missing := make([]int64, 0, len(order))
	for _, id := range order {
		if _, ok := snapshots[id]; !ok {
			missing = append(missing, id)
		}
	}

	current := make(map[int64]*domain.Product, len(missing))
	if len(missing) > 0 {
		products, err := c.productRepo.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for i := range products {
			current[products[i].ID] = &products[i]
		}
	}

	items := make([]domain.CartItem, 0, len(order))
	for _, id := range order {
		if snapshot, ok := snapshots[id]; ok {
			snapshot.Quantity = quantities[id]
			snapshot.Prices = snapshot.Prices.Clone()
			items = append(items, snapshot)
			continue
		}

		product, ok := current[id]
		if !ok {
			return nil, e.Wrap(productAggregateID(id), e.ErrProductNotFound)
		}
		items = append(items, domain.NewCartItem(product, quantities[id]))
	}

	if err := domain.ValidateItems(items); err != nil {
		return nil, err
	}

	return items, nil
}

// afterWrite применяет изменения популярности продуктов и пишет событие корзины.
// Корзина уже записана, поэтому ошибка здесь только логируется.
// После изменения популярности снимок каталога в кэше сбрасывается.
func (c *CartUseCase) afterWrite(ctx context.Context, op string, typ OutboxEventType, cart *domain.Cart, deltas map[int64]int64) {
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		if len(deltas) > 0 {
			if err := c.productRepo.IncrementPopularity(ctx, deltas); err != nil {
				return err
			}
		}

		return c.events.record(ctx, typ, cartAggregateID(cart.ID), cartEventData(cart))
	})
	if err != nil {
		c.logger.Warnf("Failed to update popularity for cart. cart_id: %s, error: %v", cart.ID, e.Wrap(op, err))
		return
	}

	if len(deltas) == 0 {
		return
	}

	c.logger.Debugf("Popularity updated for %d products. cart_id: %s", len(deltas), cart.ID)
	if err := c.cache.InvalidateCatalog(ctx); err != nil {
		c.logger.Warnf("Failed to invalidate catalog cache. cart_id: %s, error: %v", cart.ID, e.Wrap(op, err))
	}
}

// popularityDeltas сравнивает состав корзины до и после записи.
// Популярность считается как число сохранённых корзин с продуктом:
// появившийся продукт получает +1, исчезнувший -1.
func popularityDeltas(before, after []domain.CartItem) map[int64]int64 {
	deltas := make(map[int64]int64)
	for _, item := range before {
		deltas[item.ProductID] = -1
	}
	for _, item := range after {
		if deltas[item.ProductID] == -1 {
			delete(deltas, item.ProductID)
			continue
		}
		deltas[item.ProductID] = 1
	}

	return deltas
}

func cartAggregateID(id string) string {
	return "cart:" + id
}
