package converter

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartModel — документ коллекции carts. Позиции хранятся внутри документа.
type CartModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`
	Name      string             `bson:"name"`
	Items     []CartItemModel    `bson:"items"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// CartItemModel — снимок продукта на момент добавления в корзину.
type CartItemModel struct {
	ProductID int64                           `bson:"product_id"`
	Name      string                          `bson:"name"`
	Unit      string                          `bson:"unit"`
	Quantity  int                             `bson:"quantity"`
	Prices    map[string]primitive.Decimal128 `bson:"prices"`
}
