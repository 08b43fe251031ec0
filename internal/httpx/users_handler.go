package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/fault"
	"github.com/ariefcatur/go-laptop-shop/internal/users"
)

type UsersHandler struct {
	Store  *users.Store
	Tokens *auth.Tokens
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

type setRoleReq struct {
	Role string `json:"role"`
}

func (h *UsersHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.Middleware)
		r.Get("/auth/me", h.me)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", h.list)
			r.Patch("/users/{id}/role", h.setRole)
		})
	})
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	u, err := h.Store.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.Tokens.Generate(u.ID, u.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResp{Token: token, User: u})
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	u, err := h.Store.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.Tokens.Generate(u.ID, u.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResp{Token: token, User: u})
}

func (h *UsersHandler) me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	u, err := h.Store.Find(ctx, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	out, err := h.Store.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) setRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fault.New(fault.CodeValidation, "invalid json"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()

	u, err := h.Store.SetRole(ctx, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
