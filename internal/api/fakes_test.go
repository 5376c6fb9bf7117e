package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxe-backend/internal/cache"
	"luxe-backend/internal/models"
	"luxe-backend/internal/store"
	"luxe-backend/internal/token"
)

var errStoreDown = errors.New("store down")

type fakeUsers struct {
	mu      sync.Mutex
	users   []models.User
	lookups int
	err     error
}

func (f *fakeUsers) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) (models.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return models.InsertResult{}, store.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, *user)
	return models.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (f *fakeUsers) PromoteToAdmin(ctx context.Context, id string) (models.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UpdateResult{}, store.ErrInvalidID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == oid {
			f.users[i].Role = models.RoleAdmin
			return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return models.UpdateResult{Acknowledged: true}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DeleteResult{}, store.ErrInvalidID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == oid {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteResult{Acknowledged: true}, nil
}

// mockProducts implements ProductStore with overridable funcs.
type mockProducts struct {
	ListFunc   func(ctx context.Context) ([]models.Product, error)
	SearchFunc func(ctx context.Context, query string) ([]models.Product, error)
	GetFunc    func(ctx context.Context, id string) (*models.Product, error)
	CreateFunc func(ctx context.Context, p *models.Product) (models.InsertResult, error)
	UpdateFunc func(ctx context.Context, id string, p *models.Product) (models.UpdateResult, error)
	DeleteFunc func(ctx context.Context, id string) (models.DeleteResult, error)
}

func (m *mockProducts) List(ctx context.Context) ([]models.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Product{}, nil
}

func (m *mockProducts) Search(ctx context.Context, query string) ([]models.Product, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []models.Product{}, nil
}

func (m *mockProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProducts) Create(ctx context.Context, p *models.Product) (models.InsertResult, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil
}

func (m *mockProducts) Update(ctx context.Context, id string, p *models.Product) (models.UpdateResult, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, p)
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockProducts) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type mockReviews struct {
	reviews []models.Review
	edits   map[string]string
}

func (m *mockReviews) List(ctx context.Context) ([]models.Review, error) {
	return m.reviews, nil
}

func (m *mockReviews) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviews) Create(ctx context.Context, review *models.Review) (models.InsertResult, error) {
	m.reviews = append(m.reviews, *review)
	return models.InsertResult{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil
}

func (m *mockReviews) UpdateText(ctx context.Context, id, text string) (models.UpdateResult, error) {
	if m.edits == nil {
		m.edits = map[string]string{}
	}
	m.edits[id] = text
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockReviews) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type fakeCarts struct {
	mu    sync.Mutex
	items []models.CartItem
}

func (f *fakeCarts) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CartItem{}
	for _, it := range f.items {
		if it.Email == email {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCarts) Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, *item)
	return models.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

func (f *fakeCarts) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DeleteResult{}, store.ErrInvalidID
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: f.deleteIDs(oid)}, nil
}

func (f *fakeCarts) deleteIDs(ids ...primitive.ObjectID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	kept := f.items[:0]
	for _, it := range f.items {
		drop := false
		for _, id := range ids {
			if it.ID == id {
				drop = true
				break
			}
		}
		if drop {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n
}

// fakePayments shares the cart fake so payment creation can clear carts.
type fakePayments struct {
	mu       sync.Mutex
	payments []models.Payment
	carts    *fakeCarts
	statuses map[string]string
}

func (f *fakePayments) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) ListBookings(ctx context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Payment{}, f.payments...), nil
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment) (models.PaymentResult, error) {
	ids := make([]primitive.ObjectID, 0, len(p.CartIDs))
	for _, h := range p.CartIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return models.PaymentResult{}, store.ErrInvalidID
		}
		ids = append(ids, id)
	}

	f.mu.Lock()
	p.ID = primitive.NewObjectID()
	f.payments = append(f.payments, *p)
	f.mu.Unlock()

	deleted := f.carts.deleteIDs(ids...)
	return models.PaymentResult{
		PaymentResult: models.InsertResult{Acknowledged: true, InsertedID: p.ID},
		DeleteResult:  models.DeleteResult{Acknowledged: true, DeletedCount: deleted},
	}, nil
}

func (f *fakePayments) UpdateStatus(ctx context.Context, id, status string) (models.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakePayments) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true}, nil
}

func (f *fakePayments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

type mockStats struct {
	admin models.AdminStats
	order []models.CategoryStat
	err   error
}

func (m *mockStats) AdminStats(ctx context.Context) (models.AdminStats, error) {
	return m.admin, m.err
}

func (m *mockStats) OrderStats(ctx context.Context) ([]models.CategoryStat, error) {
	return m.order, m.err
}

type fakeGateway struct {
	amount   int64
	currency string
	err      error
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	f.amount, f.currency = amount, currency
	if f.err != nil {
		return "", f.err
	}
	return "pi_secret_test", nil
}

type fakeCache struct {
	products map[string]*models.Product
	deleted  []string
}

func (f *fakeCache) Get(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, id string, p *models.Product) error {
	f.products[id] = p
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type testEnv struct {
	server   *Server
	tokens   *token.Maker
	users    *fakeUsers
	products *mockProducts
	reviews  *mockReviews
	carts    *fakeCarts
	payments *fakePayments
	stats    *mockStats
	gateway  *fakeGateway
	cache    *fakeCache
}

const (
	adminEmail = "admin@example.com"
	userEmail  = "user@example.com"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := token.NewMaker("test-secret", 0)
	require.NoError(t, err)

	carts := &fakeCarts{}
	env := &testEnv{
		tokens: tokens,
		users: &fakeUsers{users: []models.User{
			{ID: primitive.NewObjectID(), Email: adminEmail, Role: models.RoleAdmin},
			{ID: primitive.NewObjectID(), Email: userEmail},
		}},
		products: &mockProducts{},
		reviews:  &mockReviews{},
		carts:    carts,
		payments: &fakePayments{carts: carts},
		stats:    &mockStats{},
		gateway:  &fakeGateway{},
		cache:    &fakeCache{products: map[string]*models.Product{}},
	}
	env.server = NewServer(Deps{
		Users:          env.users,
		Products:       env.products,
		Reviews:        env.reviews,
		Carts:          env.carts,
		Payments:       env.payments,
		Stats:          env.stats,
		Gateway:        env.gateway,
		Tokens:         env.tokens,
		Cache:          env.cache,
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return env
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := e.tokens.Issue(token.Identity{Email: email})
	require.NoError(t, err)
	return tok
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, tok string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}
