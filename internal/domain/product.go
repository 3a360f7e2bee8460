package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/basket-backend/pkg/e"
)

const (
	DefaultUnit = "unit"
	MaxRating   = 5.0
)

// Product описывает продукт каталога.
// ID — внешний числовой идентификатор, не совпадающий с ключом строки в хранилище.
type Product struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Prices      PriceMap
	Unit        string
	Popularity  int64
	Rating      float64
	RatingCount int64
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(id int64, name, category, description string, prices PriceMap, unit string) *Product {
	if strings.TrimSpace(unit) == "" {
		unit = DefaultUnit
	}

	return &Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Category:    strings.TrimSpace(category),
		Description: description,
		Prices:      prices,
		Unit:        unit,
	}
}

// Validate проверяет инварианты продукта перед сохранением.
func (p *Product) Validate() error {
	if p.ID <= 0 {
		return e.ErrInvalidProductID
	}
	if p.Name == "" {
		return e.ErrProductNameRequired
	}
	if p.Category == "" {
		return e.ErrCategoryRequired
	}
	if len(p.Prices) == 0 {
		return e.ErrNoPrices
	}
	return p.Prices.Validate()
}

// ApplyRating добавляет оценку к скользящему среднему.
func (p *Product) ApplyRating(value float64) error {
	if value < 0 || value > MaxRating {
		return e.ErrInvalidRating
	}

	total := p.Rating*float64(p.RatingCount) + value
	p.RatingCount++
	p.Rating = total / float64(p.RatingCount)
	return nil
}

// MatchesQuery — регистронезависимый поиск подстроки в названии и фильтр по категории.
func (p *Product) MatchesQuery(query, category string) bool {
	if category != "" && !strings.EqualFold(p.Category, category) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(query)))
}
