package converter

import "time"

// ProductRedisModel — продукт в снимке каталога. Цены хранятся строками без потери масштаба.
type ProductRedisModel struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Prices      map[string]string `json:"prices"`
	Unit        string            `json:"unit"`
	Popularity  int64             `json:"popularity"`
	Rating      float64           `json:"rating"`
	RatingCount int64             `json:"rating_count"`
	ImageKey    string            `json:"image_key,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

// CatalogRedisModel — снимок каталога целиком.
type CatalogRedisModel struct {
	Version  int                 `json:"v"`
	Products []ProductRedisModel `json:"products"`
}
