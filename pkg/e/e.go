package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrCacheMiss            = fmt.Errorf("cache miss")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrMalformedPrice       = fmt.Errorf("malformed price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrNoPrices             = fmt.Errorf("at least one price is required")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrCategoryRequired     = fmt.Errorf("category is required")
	ErrInvalidProductID     = fmt.Errorf("invalid product id")
	ErrInvalidCartID        = fmt.Errorf("invalid cart id")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be at least 1")
	ErrInvalidRating        = fmt.Errorf("rating must be between 0 and 5")
	ErrEmptyCart            = fmt.Errorf("cart has no items")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidEmail         = fmt.Errorf("invalid email")
	ErrWeakPassword         = fmt.Errorf("password must be at least 8 characters")

	// 401 / 403
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrForbidden          = fmt.Errorf("forbidden")

	// 404
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrCartNotFound    = fmt.Errorf("cart not found")
	ErrUserNotFound    = fmt.Errorf("user not found")

	// 409
	ErrUserExists    = fmt.Errorf("user already exists")
	ErrProductExists = fmt.Errorf("product already exists")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
