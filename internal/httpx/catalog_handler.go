package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/catalog"
	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

// ProductStore is the slice of the catalog store the handler needs.
// *catalog.Store satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *catalog.Product) error
	Find(ctx context.Context, id string) (*catalog.Product, error)
	List(ctx context.Context) ([]catalog.Product, error)
	Update(ctx context.Context, id, brand, model string, priceCents int, specs map[string]string) (*catalog.Product, error)
	Delete(ctx context.Context, id string) error
	ReserveStock(ctx context.Context, id string, qty int) error
	AddReview(ctx context.Context, productID, userID string, rating int, comment string) (*catalog.Product, error)
	RemoveReview(ctx context.Context, productID, reviewID string) (*catalog.Product, error)
}

type CatalogHandler struct {
	Store  ProductStore
	Tokens *auth.Tokens
}

type productReq struct {
	Brand      string            `json:"brand"`
	Model      string            `json:"model"`
	PriceCents int               `json:"price_cents"`
	Stock      int               `json:"stock"`
	Specs      map[string]string `json:"specs"`
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *CatalogHandler) Register(r chi.Router) {
	// Browsing is public.
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.Middleware)

		r.Post("/products/{id}/purchase", h.purchase)
		r.Post("/products/{id}/reviews", h.addReview)
		r.Delete("/products/{id}/reviews/{reviewID}", h.removeReview)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/products", h.create)
			r.Put("/products/{id}", h.update)
			r.Delete("/products/{id}", h.delete)
		})
	})
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	out, err := h.Store.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	p, err := h.Store.Find(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	p := &catalog.Product{
		Brand:      req.Brand,
		Model:      req.Model,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		Specs:      req.Specs,
	}
	if err := h.Store.Create(ctx, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	p, err := h.Store.Update(ctx, chi.URLParam(r, "id"),
		req.Brand, req.Model, req.PriceCents, req.Specs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	if err := h.Store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// purchase is the over-the-counter path: one unit, taken atomically,
// no order record.
func (h *CatalogHandler) purchase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.ReserveStock(ctx, id, 1); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Store.Find(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	p, err := h.Store.AddReview(ctx, chi.URLParam(r, "id"),
		principal(r).UserID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) removeReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	p, err := h.Store.RemoveReview(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "reviewID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
