package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/basket-backend/pkg/e"
)

const cartNameLayout = "2006-01-02 15:04"

// CartItem — позиция корзины. Prices — снимок цен продукта на момент добавления,
// последующие изменения продукта на сохранённые корзины не влияют.
type CartItem struct {
	ProductID int64
	Name      string
	Unit      string
	Quantity  int
	Prices    PriceMap
}

// NewCartItem копирует цены продукта в позицию корзины.
func NewCartItem(p *Product, quantity int) CartItem {
	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		Quantity:  quantity,
		Prices:    p.Prices.Clone(),
	}
}

// Cart — сохранённая корзина пользователя.
type Cart struct {
	ID        string
	UserID    int64
	Name      string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(userID int64, name string, items []CartItem, now time.Time) *Cart {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCartName(now)
	}

	return &Cart{
		UserID:    userID,
		Name:      name,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultCartName формирует имя корзины по времени создания.
func DefaultCartName(now time.Time) string {
	return "Cart " + now.Format(cartNameLayout)
}

// Totals возвращает суммы корзины по супермаркетам.
func (c *Cart) Totals() PriceMap {
	return Totals(c.Items)
}

// ValidateItems проверяет, что корзина не пуста и количество каждой позиции не меньше 1.
func ValidateItems(items []CartItem) error {
	if len(items) == 0 {
		return e.ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return e.ErrInvalidQuantity
		}
	}
	return nil
}
