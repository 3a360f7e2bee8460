package http

import (
	"net/http"

	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// computeTotals
//
//	@Summary		Суммы корзины по супермаркетам
//	@Description	Считает суммы для несохранённой корзины по текущим ценам
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		TotalsRequest	true	"Позиции"
//	@Success		200		{object}	ComputedTotalsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/carts/totals [post]
func (c *CartHandler) computeTotals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := c.cartUsecase.ComputeTotals(r.Context(), toCartItemReqs(req.Items))
	if err != nil {
		c.logger.Debugf("compute totals: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toComputedTotalsResponse(res))
}

// listCarts
//
//	@Summary	Сохранённые корзины пользователя
//	@Tags		carts
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	CartResponse
//	@Router		/carts [get]
func (c *CartHandler) listCarts(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	carts, err := c.cartUsecase.ListCarts(r.Context(), principal.UserID)
	if err != nil {
		c.logger.Errorf(err, "list carts")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrCartResponse(carts))
}

// saveCart
//
//	@Summary		Сохранение корзины
//	@Description	Цены позиций фиксируются на момент сохранения
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CartRequest	true	"Корзина"
//	@Success		201		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/carts [post]
func (c *CartHandler) saveCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req CartRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	cart, err := c.cartUsecase.SaveCart(r.Context(), &usecase.SaveCartReq{
		UserID: principal.UserID,
		Name:   req.Name,
		Items:  toCartItemReqs(req.Items),
	})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCartResponse(cart))
}

// getCart
//
//	@Summary	Корзина с суммами
//	@Tags		carts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID корзины"
//	@Success	200	{object}	CartResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/carts/{id} [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	cart, err := c.cartUsecase.GetCart(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// updateCart
//
//	@Summary		Замена корзины
//	@Description	Позиции заменяются целиком; цены уже сохранённых продуктов не меняются
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string		true	"ID корзины"
//	@Param			request	body		CartRequest	true	"Корзина"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/carts/{id} [put]
func (c *CartHandler) updateCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	var req CartRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	cart, err := c.cartUsecase.UpdateCart(r.Context(), &usecase.UpdateCartReq{
		UserID: principal.UserID,
		CartID: chi.URLParam(r, "id"),
		Name:   req.Name,
		Items:  toCartItemReqs(req.Items),
	})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// deleteCart
//
//	@Summary	Удаление корзины
//	@Tags		carts
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID корзины"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/carts/{id} [delete]
func (c *CartHandler) deleteCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	if err := c.cartUsecase.DeleteCart(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
