package converter

import "time"

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// ProductModel представляет запись таблицы products вместе с именем категории.
// Prices хранится в jsonb как объект {"market": "decimal-string"}.
type ProductModel struct {
	ProductID    int64      `db:"product_id"`
	Name         string     `db:"name"`
	CategoryName string     `db:"category_name"`
	Description  string     `db:"description"`
	Prices       []byte     `db:"prices"`
	Unit         string     `db:"unit"`
	Popularity   int64      `db:"popularity"`
	Rating       float64    `db:"rating"`
	RatingCount  int64      `db:"rating_count"`
	ImageKey     string     `db:"image_key"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
