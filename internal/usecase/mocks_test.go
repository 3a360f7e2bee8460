package usecase

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

func testLogger() logger.Logger {
	return logger.NewSlogLoggerWithWriter(io.Discard, "error")
}

func prices(kv ...string) domain.PriceMap {
	out := make(domain.PriceMap, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = decimal.RequireFromString(kv[i+1])
	}
	return out
}

// MockTxManager выполняет fn без транзакции и считает вызовы
type MockTxManager struct {
	Calls int
	Err   error
}

func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockProductRepo хранит продукты в памяти по внешнему ID
type MockProductRepo struct {
	mu          sync.Mutex
	Products    map[int64]*domain.Product
	ListCalls   int
	SetImageErr error
	GetByIDsErr error
	Popularity  map[int64]int64
	CategoryIDs map[int64]int64
}

func NewMockProductRepo(products ...*domain.Product) *MockProductRepo {
	m := &MockProductRepo{
		Products:    make(map[int64]*domain.Product),
		Popularity:  make(map[int64]int64),
		CategoryIDs: make(map[int64]int64),
	}
	for _, p := range products {
		m.Products[p.ID] = p
	}
	return m
}

func (m *MockProductRepo) Create(_ context.Context, p *domain.Product, categoryID int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[p.ID]; ok {
		return nil, e.ErrProductExists
	}
	cp := *p
	cp.CreatedAt = time.Now()
	m.Products[p.ID] = &cp
	m.CategoryIDs[p.ID] = categoryID
	return &cp, nil
}

func (m *MockProductRepo) Update(_ context.Context, p *domain.Product, categoryID int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.Products[p.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	cp.Popularity, cp.Rating, cp.RatingCount, cp.ImageKey = old.Popularity, old.Rating, old.RatingCount, old.ImageKey
	m.Products[p.ID] = &cp
	m.CategoryIDs[p.ID] = categoryID
	return &cp, nil
}

func (m *MockProductRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

func (m *MockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return m.GetByID(ctx, id)
}

func (m *MockProductRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	if m.GetByIDsErr != nil {
		return nil, m.GetByIDsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.Products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MockProductRepo) List(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	ids := make([]int64, 0, len(m.Products))
	for id := range m.Products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.Products[id])
	}
	return out, nil
}

func (m *MockProductRepo) SaveRating(_ context.Context, id int64, rating float64, count int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	p.Rating, p.RatingCount = rating, count
	return nil
}

func (m *MockProductRepo) IncrementPopularity(_ context.Context, deltas map[int64]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range deltas {
		m.Popularity[id] += d
		if p, ok := m.Products[id]; ok {
			p.Popularity = max(p.Popularity+d, 0)
		}
	}
	return nil
}

func (m *MockProductRepo) SetImageKey(_ context.Context, id int64, key string) (string, error) {
	if m.SetImageErr != nil {
		return "", m.SetImageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return "", e.ErrProductNotFound
	}
	old := p.ImageKey
	p.ImageKey = key
	return old, nil
}

// MockCategoryRepo идемпотентно создаёт категории по имени
type MockCategoryRepo struct {
	ByName map[string]*domain.Category
}

func (m *MockCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if m.ByName == nil {
		m.ByName = make(map[string]*domain.Category)
	}
	if existing, ok := m.ByName[c.Name]; ok {
		return existing, nil
	}
	cp := *c
	cp.ID = int64(len(m.ByName) + 1)
	m.ByName[c.Name] = &cp
	return &cp, nil
}

func (m *MockCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.ByName))
	for _, c := range m.ByName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MockCartRepo хранит корзины в памяти
type MockCartRepo struct {
	Carts     map[string]*domain.Cart
	seq       int
	CreateErr error
}

func NewMockCartRepo() *MockCartRepo {
	return &MockCartRepo{Carts: make(map[string]*domain.Cart)}
}

func (m *MockCartRepo) Create(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.seq++
	cp := *cart
	cp.ID = "cart-" + strconv.Itoa(m.seq)
	m.Carts[cp.ID] = &cp
	return &cp, nil
}

func (m *MockCartRepo) GetByID(_ context.Context, userID int64, cartID string) (*domain.Cart, error) {
	c, ok := m.Carts[cartID]
	if !ok || c.UserID != userID {
		return nil, e.ErrCartNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCartRepo) ListByUser(_ context.Context, userID int64) ([]domain.Cart, error) {
	out := make([]domain.Cart, 0)
	for _, c := range m.Carts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCartRepo) Replace(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	c, ok := m.Carts[cart.ID]
	if !ok || c.UserID != cart.UserID {
		return nil, e.ErrCartNotFound
	}
	cp := *cart
	m.Carts[cart.ID] = &cp
	return &cp, nil
}

func (m *MockCartRepo) Delete(_ context.Context, userID int64, cartID string) error {
	c, ok := m.Carts[cartID]
	if !ok || c.UserID != userID {
		return e.ErrCartNotFound
	}
	delete(m.Carts, cartID)
	return nil
}

// MockCacheRepo — кэш каталога в памяти
type MockCacheRepo struct {
	Catalog     []domain.Product
	Cached      bool
	Invalidated int
	GetErr      error
}

func (m *MockCacheRepo) GetCatalog(_ context.Context) ([]domain.Product, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if !m.Cached {
		return nil, e.ErrCacheMiss
	}
	return m.Catalog, nil
}

func (m *MockCacheRepo) SetCatalog(_ context.Context, products []domain.Product) error {
	m.Catalog = products
	m.Cached = true
	return nil
}

func (m *MockCacheRepo) InvalidateCatalog(_ context.Context) error {
	m.Catalog = nil
	m.Cached = false
	m.Invalidated++
	return nil
}

// MockOutboxRepo запоминает созданные события
type MockOutboxRepo struct {
	Events []*OutboxEvent
	Err    error
}

func (m *MockOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	event.ID = int64(len(m.Events) + 1)
	m.Events = append(m.Events, event)
	return event, nil
}

func (m *MockOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (m *MockOutboxRepo) MarkAsProcessed(_ context.Context, _ int64) error {
	return nil
}

func (m *MockOutboxRepo) Types() []OutboxEventType {
	out := make([]OutboxEventType, 0, len(m.Events))
	for _, ev := range m.Events {
		out = append(out, ev.EventType)
	}
	return out
}

// jsonEncoder кодирует событие в JSON, чтобы тесты могли прочитать payload
type jsonEncoder struct{}

func (jsonEncoder) Encode(event *DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// MockImagesInfra имитирует загрузку в объектное хранилище
type MockImagesInfra struct {
	UploadKey string
	UploadErr error
	Cleaned   []string
}

func (m *MockImagesInfra) UploadImage(_ context.Context, _ *UploadImageReq) (string, error) {
	return m.UploadKey, m.UploadErr
}

func (m *MockImagesInfra) CleanupImages(keys []string) {
	m.Cleaned = append(m.Cleaned, keys...)
}

type MockImageRepo struct{}

func (MockImageRepo) Upload(_ context.Context, img *domain.Image) (string, error) {
	return img.ObjectKey, nil
}

func (MockImageRepo) Delete(_ context.Context, _ string) error { return nil }

func (MockImageRepo) PresignedURL(_ context.Context, key string) (string, error) {
	return "http://minio.local/product-images/" + key, nil
}

// MockUserRepo хранит пользователей в памяти
type MockUserRepo struct {
	ByEmail map[string]*domain.User
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{ByEmail: make(map[string]*domain.User)}
}

func (m *MockUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[u.Email]; ok {
		return nil, e.ErrUserExists
	}
	cp := *u
	cp.ID = int64(len(m.ByEmail) + 1)
	m.ByEmail[u.Email] = &cp
	return &cp, nil
}

func (m *MockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.ByEmail[email]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.ByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, e.ErrUserNotFound
}

// plainHasher хранит пароль с префиксом вместо bcrypt
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return e.ErrInvalidCredentials
	}
	return nil
}

type MockTokenManager struct {
	Principal *Principal
	ParseErr  error
}

func (m *MockTokenManager) Issue(u *domain.User) (string, time.Time, error) {
	return "token-" + u.Email, time.Unix(1700000000, 0), nil
}

func (m *MockTokenManager) Parse(_ string) (*Principal, error) {
	return m.Principal, m.ParseErr
}
