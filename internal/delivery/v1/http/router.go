package http

import (
	"net/http"

	_ "github.com/DRSN-tech/basket-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Handler возвращает собранный маршрутизатор.
func (r *Router) Handler() http.Handler {
	return r.router
}

func (r *Router) Init(authUC usecase.AuthUC, prUC usecase.ProductUC, cartUC usecase.CartUC, swaggerURL string) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		AccessLog(r.logger),
		middleware.Recoverer,
	)

	r.router.Get("/health", health)
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL), // ссылка на JSON
	))

	authenticated := Authenticator(authUC, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerAuthRoutes(v1, NewAuthHandler(authUC, r.logger), authenticated)
		registerProductRoutes(v1, NewProductHandler(prUC, r.logger), authenticated)
		registerCartRoutes(v1, NewCartHandler(cartUC, r.logger), authenticated)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler, authenticated func(http.Handler) http.Handler) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/register", h.register)
		a.Post("/login", h.login)
		a.With(authenticated).Get("/me", h.me)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, authenticated func(http.Handler) http.Handler) {
	router.Get("/categories", h.listCategories)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/top", h.topProducts)
		pr.Get("/{id}", h.getProduct)
		pr.Get("/{id}/image", h.imageURL)

		pr.With(authenticated).Post("/{id}/rating", h.rateProduct)

		pr.Group(func(admin chi.Router) {
			admin.Use(authenticated, RequireAdmin)
			admin.Post("/", h.createProduct)
			admin.Put("/{id}", h.updateProduct)
			admin.Delete("/{id}", h.deleteProduct)
			admin.Post("/{id}/image", h.uploadImage)
		})
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler, authenticated func(http.Handler) http.Handler) {
	router.Route("/carts", func(c chi.Router) {
		c.Use(authenticated)
		c.Post("/totals", h.computeTotals)
		c.Get("/", h.listCarts)
		c.Post("/", h.saveCart)
		c.Get("/{id}", h.getCart)
		c.Put("/{id}", h.updateCart)
		c.Delete("/{id}", h.deleteCart)
	})
}

// health
//
//	@Summary	Проверка доступности
//	@Tags		system
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func health(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
