package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront.git/internal/wishlist"
)

type WishlistHandler struct {
	Wishlist *wishlist.Repo
	Auth     *Auth
}

func (h *WishlistHandler) Register(r chi.Router) {
	r.Route("/wishlist", func(r chi.Router) {
		r.Use(h.Auth.RequireUser)
		r.Post("/add", h.add)
		r.Post("/remove", h.remove)
		r.Post("/get", h.get)
	})
}

func (h *WishlistHandler) add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Wishlist.Add(r.Context(), UserID(r.Context()), req.ProductID); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Added to wishlist"})
}

func (h *WishlistHandler) remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Wishlist.Remove(r.Context(), UserID(r.Context()), req.ProductID); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Removed from wishlist"})
}

func (h *WishlistHandler) get(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Wishlist.List(r.Context(), UserID(r.Context()))
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"wishlist": ps})
}
