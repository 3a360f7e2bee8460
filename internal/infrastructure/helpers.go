package infrastructure

import (
	"fmt"

	"github.com/DRSN-tech/basket-backend/pkg/e"
)

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "", e.ErrUnsupportedMediaType
	}
}

// ProductImageKey строит ключ объекта: products/<product_id>/<uuid>.<ext>.
func ProductImageKey(productID int64, imageID, ext string) string {
	return fmt.Sprintf("products/%d/%s.%s", productID, imageID, ext)
}
