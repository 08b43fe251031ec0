package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/catalog"
	"github.com/ariefcatur/go-laptop-shop/internal/fault"
	"github.com/ariefcatur/go-laptop-shop/internal/httpx"
)

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
}

func newFakeProducts(ps ...*catalog.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*catalog.Product{}}
	for _, p := range ps {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProducts) Find(_ context.Context, id string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(_ context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, id, brand, model string, priceCents int, specs map[string]string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	p.Brand, p.Model, p.PriceCents, p.Specs = brand, model, priceCents, specs
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) ReserveStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	if p.Stock < qty {
		return fault.New(fault.CodeInsufficientStock, "not enough stock for product %s", id)
	}
	p.Stock -= qty
	return nil
}

func (f *fakeProducts) AddReview(_ context.Context, productID, userID string, rating int, comment string) (*catalog.Product, error) {
	return f.Find(context.Background(), productID)
}

func (f *fakeProducts) RemoveReview(_ context.Context, productID, reviewID string) (*catalog.Product, error) {
	return f.Find(context.Background(), productID)
}

func purchaseRouter(t *testing.T, store *fakeProducts) (chi.Router, string) {
	t.Helper()
	tokens := auth.NewTokens("test-secret")
	tok, err := tokens.Generate("alice", auth.RoleUser)
	require.NoError(t, err)

	h := &httpx.CatalogHandler{Store: store, Tokens: tokens}
	r := chi.NewRouter()
	h.Register(r)
	return r, tok
}

func TestPurchaseTakesOneUnit(t *testing.T) {
	store := newFakeProducts(&catalog.Product{ID: "p1", Brand: "apex", Model: "apex-x", PriceCents: 1000, Stock: 2})
	r, tok := purchaseRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/products/p1/purchase", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	p, err := store.Find(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestPurchaseOutOfStockConflicts(t *testing.T) {
	store := newFakeProducts(&catalog.Product{ID: "p1", Brand: "apex", Model: "apex-x", PriceCents: 1000, Stock: 0})
	r, tok := purchaseRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/products/p1/purchase", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	p, err := store.Find(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestPurchaseRequiresAuth(t *testing.T) {
	store := newFakeProducts(&catalog.Product{ID: "p1", Brand: "apex", Model: "apex-x", PriceCents: 1000, Stock: 2})
	r, _ := purchaseRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/products/p1/purchase", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
