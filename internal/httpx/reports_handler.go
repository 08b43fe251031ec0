package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/redisx"
	"github.com/ariefcatur/go-laptop-shop/internal/reports"
)

type ReportsHandler struct {
	Agg    *reports.Aggregator
	Redis  *redis.Client
	Tokens *auth.Tokens
}

func (h *ReportsHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.Middleware, auth.RequireAdmin)
		r.Get("/stats/inventory-by-brand", h.inventoryByBrand)
		r.Get("/stats/revenue-by-brand", h.revenueByBrand)
	})
}

func (h *ReportsHandler) inventoryByBrand(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "inventory-by-brand", func() (any, error) {
		ctx, cancel := reqCtx(r)
		defer cancel()
		return h.Agg.InventoryByBrand(ctx)
	})
}

func (h *ReportsHandler) revenueByBrand(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "revenue-by-brand", func() (any, error) {
		ctx, cancel := reqCtx(r)
		defer cancel()
		return h.Agg.RevenueByBrand(ctx)
	})
}

// cached serves a report from Redis when fresh, otherwise recomputes and
// stores it with a short TTL. Reports read committed state only, so a
// slightly stale answer is fine.
func (h *ReportsHandler) cached(w http.ResponseWriter, r *http.Request, name string, load func() (any, error)) {
	key := fmt.Sprintf(redisx.KeyReport, name)
	if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	out, err := load()
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = h.Redis.Set(r.Context(), key, b, redisx.TTLReportCache).Err()
	writeJSON(w, http.StatusOK, json.RawMessage(b))
}
