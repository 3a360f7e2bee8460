package usecase

import (
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AUTH

type RegisterReq struct {
	Email    string
	Password string
	Name     string
}

type LoginReq struct {
	Email    string
	Password string
}

type LoginRes struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Principal — аутентифицированный пользователь, извлечённый из токена.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

func (p *Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// PRODUCT USECASE

type ListProductsReq struct {
	Query    string
	Category string
}

type TopProductsReq struct {
	Criterion domain.Criterion
	Limit     int
}

// UpsertProductReq — запрос на создание или полную замену продукта.
type UpsertProductReq struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Prices      domain.PriceMap
	Unit        string
}

type RateProductReq struct {
	ProductID int64
	Rating    float64
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

type UploadImageReq struct {
	ProductID int64
	Image     ProductImage
}

type ProductImageRes struct {
	ProductID int64
	Key       string
	URL       string
}

// CART USECASE

type CartItemReq struct {
	ProductID int64
	Quantity  int
}

type SaveCartReq struct {
	UserID int64
	Name   string
	Items  []CartItemReq
}

type UpdateCartReq struct {
	UserID int64
	CartID string
	Name   string
	Items  []CartItemReq
}

// CartView — корзина вместе с посчитанными суммами по супермаркетам.
// BestMarket пуст, если ни в одном супермаркете нет всех позиций.
type CartView struct {
	Cart       *domain.Cart
	Totals     domain.PriceMap
	BestMarket string
	BestTotal  decimal.Decimal
}

// TotalsView — суммы для несохранённой корзины.
type TotalsView struct {
	Items      []domain.CartItem
	Totals     domain.PriceMap
	BestMarket string
	BestTotal  decimal.Decimal
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated OutboxEventType = "product.created"
	ProductUpdated OutboxEventType = "product.updated"
	ProductDeleted OutboxEventType = "product.deleted"
	ProductRated   OutboxEventType = "product.rated"
	CartSaved      OutboxEventType = "cart.saved"
	CartUpdated    OutboxEventType = "cart.updated"
	CartDeleted    OutboxEventType = "cart.deleted"
)

// OutboxEvent — запись таблицы outbox, ожидающая публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// DomainEvent — событие до сериализации.
type DomainEvent struct {
	EventID     string
	Type        OutboxEventType
	AggregateID string
	OccurredAt  time.Time
	Data        map[string]any
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewOutboxEvent(event *DomainEvent, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     event.EventID,
		EventType:   event.Type,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   event.OccurredAt,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewCartView(cart *domain.Cart) *CartView {
	market, total, _ := domain.BestMarket(cart.Items)
	return &CartView{
		Cart:       cart,
		Totals:     cart.Totals(),
		BestMarket: market,
		BestTotal:  total,
	}
}

func NewTotalsView(items []domain.CartItem) *TotalsView {
	market, total, _ := domain.BestMarket(items)
	return &TotalsView{
		Items:      items,
		Totals:     domain.Totals(items),
		BestMarket: market,
		BestTotal:  total,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}
