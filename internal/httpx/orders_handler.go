package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/fault"
	"github.com/ariefcatur/go-laptop-shop/internal/orders"
)

type OrdersHandler struct {
	Service *orders.Service
	Tokens  *auth.Tokens
}

type createOrderReq struct {
	Items []orders.ItemInput `json:"items"`
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.Middleware)

		r.Post("/orders", h.create)
		r.Get("/orders/my", h.listMine)
		r.Get("/orders/{id}", h.get)
		r.Post("/orders/{id}/items", h.addItem)
		r.Delete("/orders/{id}/items/{itemID}", h.removeItem)
		r.Post("/orders/{id}/cancel", h.cancel)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/orders", h.listAll)
			r.Patch("/orders/{id}/status", h.setStatus)
			r.Delete("/orders/{id}", h.delete)
		})
	})
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.Create(ctx, principal(r), req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.Get(ctx, principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	out, err := h.Service.ListMine(ctx, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	out, err := h.Service.ListAll(ctx, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.AddItem(ctx, principal(r), chi.URLParam(r, "id"),
		orders.ItemInput{ProductID: req.ProductID, Qty: req.Qty})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.RemoveItem(ctx, principal(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.Cancel(ctx, principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	o, err := h.Service.SetStatus(ctx, principal(r), chi.URLParam(r, "id"), orders.Status(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	if err := h.Service.Delete(ctx, principal(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
