package http

import (
	"context"
	"io"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func testLogger() logger.Logger {
	return logger.NewSlogLoggerWithWriter(io.Discard, "error")
}

// MockAuthUC принимает токены "user" и "admin".
type MockAuthUC struct {
	RegisterErr error
	LoginErr    error
	Registered  *usecase.RegisterReq
}

func (m *MockAuthUC) Register(_ context.Context, req *usecase.RegisterReq) (*domain.User, error) {
	m.Registered = req
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}
	return &domain.User{ID: 1, Email: req.Email, Name: req.Name, Role: domain.RoleUser}, nil
}

func (m *MockAuthUC) Login(_ context.Context, req *usecase.LoginReq) (*usecase.LoginRes, error) {
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	return &usecase.LoginRes{Token: "user", User: &domain.User{ID: 1, Email: req.Email, Role: domain.RoleUser}}, nil
}

func (m *MockAuthUC) Me(_ context.Context, userID int64) (*domain.User, error) {
	return &domain.User{ID: userID, Email: "ann@shop.io", Role: domain.RoleUser}, nil
}

func (m *MockAuthUC) Authenticate(_ context.Context, token string) (*usecase.Principal, error) {
	switch token {
	case "user":
		return &usecase.Principal{UserID: 1, Email: "ann@shop.io", Role: domain.RoleUser}, nil
	case "admin":
		return &usecase.Principal{UserID: 2, Email: "boss@shop.io", Role: domain.RoleAdmin}, nil
	default:
		return nil, e.ErrInvalidToken
	}
}

type MockProductUC struct {
	Products []domain.Product
	TopReq   *usecase.TopProductsReq
	Upserted *usecase.UpsertProductReq
	Rated    *usecase.RateProductReq
	Uploaded *usecase.UploadImageReq
	Deleted  int64
	Err      error
}

func (m *MockProductUC) ListProducts(context.Context, *usecase.ListProductsReq) ([]domain.Product, error) {
	return m.Products, m.Err
}

func (m *MockProductUC) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for i := range m.Products {
		if m.Products[i].ID == id {
			return &m.Products[i], nil
		}
	}
	return nil, e.Wrap("get", e.ErrProductNotFound)
}

func (m *MockProductUC) TopProducts(_ context.Context, req *usecase.TopProductsReq) ([]domain.Product, error) {
	m.TopReq = req
	return domain.Rank(m.Products, req.Criterion, req.Limit), m.Err
}

func (m *MockProductUC) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Dairy"}}, m.Err
}

func (m *MockProductUC) CreateProduct(_ context.Context, req *usecase.UpsertProductReq) (*domain.Product, error) {
	m.Upserted = req
	if m.Err != nil {
		return nil, m.Err
	}
	return domain.NewProduct(req.ID, req.Name, req.Category, req.Description, req.Prices, req.Unit), nil
}

func (m *MockProductUC) UpdateProduct(ctx context.Context, req *usecase.UpsertProductReq) (*domain.Product, error) {
	return m.CreateProduct(ctx, req)
}

func (m *MockProductUC) DeleteProduct(_ context.Context, id int64) error {
	m.Deleted = id
	return m.Err
}

func (m *MockProductUC) RateProduct(_ context.Context, req *usecase.RateProductReq) (*domain.Product, error) {
	m.Rated = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Product{ID: req.ProductID, Rating: req.Rating, RatingCount: 1}, nil
}

func (m *MockProductUC) UploadProductImage(_ context.Context, req *usecase.UploadImageReq) (*usecase.ProductImageRes, error) {
	m.Uploaded = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &usecase.ProductImageRes{ProductID: req.ProductID, Key: "products/1/x.png", URL: "http://minio/x"}, nil
}

func (m *MockProductUC) ProductImageURL(_ context.Context, id int64) (*usecase.ProductImageRes, error) {
	return &usecase.ProductImageRes{ProductID: id, Key: "k", URL: "u"}, m.Err
}

// MockCartUC считает суммы через domain.Totals по ценам Prices.
type MockCartUC struct {
	Prices map[int64]domain.PriceMap
	Saved  *usecase.SaveCartReq
	Err    error
}

func (m *MockCartUC) items(reqs []usecase.CartItemReq) ([]domain.CartItem, error) {
	if len(reqs) == 0 {
		return nil, e.ErrEmptyCart
	}
	items := make([]domain.CartItem, 0, len(reqs))
	for _, r := range reqs {
		if r.Quantity < 1 {
			return nil, e.ErrInvalidQuantity
		}
		prices, ok := m.Prices[r.ProductID]
		if !ok {
			return nil, e.ErrProductNotFound
		}
		items = append(items, domain.CartItem{ProductID: r.ProductID, Quantity: r.Quantity, Prices: prices})
	}
	return items, nil
}

func (m *MockCartUC) SaveCart(_ context.Context, req *usecase.SaveCartReq) (*usecase.CartView, error) {
	m.Saved = req
	items, err := m.items(req.Items)
	if err != nil {
		return nil, err
	}
	cart := &domain.Cart{ID: "cart-1", UserID: req.UserID, Name: req.Name, Items: items}
	return usecase.NewCartView(cart), nil
}

func (m *MockCartUC) ListCarts(context.Context, int64) ([]usecase.CartView, error) {
	return []usecase.CartView{}, m.Err
}

func (m *MockCartUC) GetCart(_ context.Context, userID int64, cartID string) (*usecase.CartView, error) {
	if cartID != "cart-1" || userID != 1 {
		return nil, e.ErrCartNotFound
	}
	return usecase.NewCartView(&domain.Cart{ID: cartID, UserID: userID}), nil
}

func (m *MockCartUC) UpdateCart(_ context.Context, req *usecase.UpdateCartReq) (*usecase.CartView, error) {
	return m.SaveCart(context.Background(), &usecase.SaveCartReq{UserID: req.UserID, Name: req.Name, Items: req.Items})
}

func (m *MockCartUC) DeleteCart(_ context.Context, userID int64, cartID string) error {
	if cartID != "cart-1" || userID != 1 {
		return e.ErrCartNotFound
	}
	return nil
}

func (m *MockCartUC) ComputeTotals(_ context.Context, reqs []usecase.CartItemReq) (*usecase.TotalsView, error) {
	items, err := m.items(reqs)
	if err != nil {
		return nil, err
	}
	return usecase.NewTotalsView(items), nil
}

type testServer struct {
	auth    *MockAuthUC
	product *MockProductUC
	cart    *MockCartUC
	handler chi.Router
}

func newTestServer() *testServer {
	s := &testServer{
		auth:    &MockAuthUC{},
		product: &MockProductUC{},
		cart:    &MockCartUC{Prices: map[int64]domain.PriceMap{}},
	}
	mux := chi.NewRouter()
	NewRouter(mux, testLogger()).Init(s.auth, s.product, s.cart, "/swagger/doc.json")
	s.handler = mux
	return s
}
