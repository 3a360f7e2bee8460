package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const defaultTopLimit = 10

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// errorStatuses сопоставляет доменные ошибки с HTTP-статусами.
// Порядок важен: берётся первое совпадение.
var errorStatuses = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrMalformedPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrNoPrices, http.StatusBadRequest},
	{e.ErrProductNameRequired, http.StatusBadRequest},
	{e.ErrCategoryRequired, http.StatusBadRequest},
	{e.ErrInvalidProductID, http.StatusBadRequest},
	{e.ErrInvalidCartID, http.StatusBadRequest},
	{e.ErrInvalidQuantity, http.StatusBadRequest},
	{e.ErrInvalidRating, http.StatusBadRequest},
	{e.ErrEmptyCart, http.StatusBadRequest},
	{e.ErrNoImages, http.StatusBadRequest},
	{e.ErrInvalidEmail, http.StatusBadRequest},
	{e.ErrWeakPassword, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
	{e.ErrUnauthorized, http.StatusUnauthorized},
	{e.ErrInvalidCredentials, http.StatusUnauthorized},
	{e.ErrInvalidToken, http.StatusUnauthorized},
	{e.ErrForbidden, http.StatusForbidden},
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrCartNotFound, http.StatusNotFound},
	{e.ErrUserNotFound, http.StatusNotFound},
	{e.ErrUserExists, http.StatusConflict},
	{e.ErrProductExists, http.StatusConflict},
}

func ToHTTPResponse(err error) (int, string) {
	var ve *validationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.msg
	}

	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error()
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst и проверяет его теги validate.
// Ошибки разбора цен (e.ErrMalformedPrice) пробрасываются как есть.
func decodeJSON(r *http.Request, dst any) error {
	const maxBodySize = 1 << 20

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, e.ErrMalformedPrice) {
			return err
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return validateRequest(dst)
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(chi.URLParam(r, "id"), e.ErrInvalidProductID)
	}
	return id, nil
}

// parseLimit возвращает limit из query; при отсутствующем или нечисловом значении берётся defaultTopLimit.
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return defaultTopLimit
	}
	return limit
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// parseImage берёт первый файл поля image.
func parseImage(files []*multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
