package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationError — ошибка проверки тела запроса с уже готовым текстом для клиента.
type validationError struct {
	msg string
}

func (v *validationError) Error() string {
	return v.msg
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return &validationError{msg: formatValidationError(err)}
	}
	return nil
}

// formatValidationError возвращает сообщение по первой ошибке валидации.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fieldErr := validationErrors[0]
	field := fieldErr.Namespace()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fieldErr.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fieldErr.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fieldErr.Tag())
	}
}
