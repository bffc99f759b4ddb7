package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront.git/internal/cart"
)

type CartHandler struct {
	Cart *cart.Repo
	Auth *Auth
}

func (h *CartHandler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(h.Auth.RequireUser)
		r.Post("/add", h.add)
		r.Post("/update", h.update)
		r.Post("/get", h.get)
	})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"itemId"`
		Size   string `json:"size"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Size == "" {
		fail(w, "Size is required")
		return
	}
	if err := h.Cart.Add(r.Context(), UserID(r.Context()), req.ItemID, req.Size); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Added To Cart"})
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string `json:"itemId"`
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Cart.Set(r.Context(), UserID(r.Context()), req.ItemID, req.Size, req.Quantity); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Cart Updated"})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cart.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"cartData": data})
}
