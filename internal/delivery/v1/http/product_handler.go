package http

import (
	"net/http"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Каталог продуктов
//	@Description	Поиск по подстроке имени без учёта регистра и фильтр по категории
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	false	"Подстрока имени"
//	@Param			category	query		string	false	"Категория"
//	@Success		200			{array}		ProductResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context(), &usecase.ListProductsReq{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		p.logger.Errorf(err, "list products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// topProducts
//
//	@Summary		Рейтинг продуктов
//	@Description	cheapest, highest_different, most_selected, highest_rated; иначе по имени
//	@Tags			products
//	@Produce		json
//	@Param			criterion	query		string	false	"Критерий"
//	@Param			limit		query		int		false	"Размер выдачи (по умолчанию 10)"
//	@Success		200			{array}		ProductResponse
//	@Router			/products/top [get]
func (p *ProductHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.TopProducts(r.Context(), &usecase.TopProductsReq{
		Criterion: domain.Criterion(r.URL.Query().Get("criterion")),
		Limit:     parseLimit(r),
	})
	if err != nil {
		p.logger.Errorf(err, "top products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// getProduct
//
//	@Summary	Продукт по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listCategories
//
//	@Summary	Категории
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	CategoryResponse
//	@Router		/categories [get]
func (p *ProductHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.productUsecase.ListCategories(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list categories")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrCategoryResponse(categories))
}

// createProduct
//
//	@Summary		Создание продукта
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ProductRequest	true	"Продукт"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req.toUsecase(0))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary	Замена продукта
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"ID продукта"
//	@Param		request	body		ProductRequest	true	"Продукт"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), req.toUsecase(id))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID продукта"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// rateProduct
//
//	@Summary	Оценка продукта
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"ID продукта"
//	@Param		request	body		RatingRequest	true	"Оценка от 0 до 5"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/products/{id}/rating [post]
func (p *ProductHandler) rateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req RatingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.RateProduct(r.Context(), &usecase.RateProductReq{ProductID: id, Rating: *req.Rating})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// uploadImage
//
//	@Summary	Загрузка изображения продукта
//	@Tags		admin
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int		true	"ID продукта"
//	@Param		image	formData	file	true	"Изображение (jpeg, png, webp)"
//	@Success	200		{object}	ProductImageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	413		{object}	ErrorResponse
//	@Failure	415		{object}	ErrorResponse
//	@Router		/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 16 << 20
		maxMemory           = 8 << 20
		maxFileSize         = 15 << 20
	)

	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"], maxFileSize)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.UploadProductImage(r.Context(), &usecase.UploadImageReq{ProductID: id, Image: *image})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductImageResponse(res))
}

// imageURL
//
//	@Summary	Временная ссылка на изображение продукта
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	ProductImageResponse
//	@Failure	400	{object}	ErrorResponse	"У продукта нет изображения"
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/image [get]
func (p *ProductHandler) imageURL(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.ProductImageURL(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductImageResponse(res))
}
