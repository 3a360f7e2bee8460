package domain

import (
	"strings"
	"time"
)

// Category описывает категорию продукта
type Category struct {
	ID         int64
	Name       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

// NewCategory нормализует имя: обрезает пробелы, регистр сохраняется.
func NewCategory(name string) *Category {
	return &Category{
		Name: strings.TrimSpace(name),
	}
}
