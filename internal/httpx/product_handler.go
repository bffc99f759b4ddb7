package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront.git/internal/catalog"
)

type ProductHandler struct {
	Catalog *catalog.Repo
	Auth    *Auth
}

func (h *ProductHandler) Register(r chi.Router) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/list", h.list)
		r.Post("/single", h.single)
		r.Post("/reviews", h.productReviews)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireUser)
			r.Post("/review/add", h.addReview)
			r.Post("/review/update", h.updateReview)
			r.Post("/review/delete", h.deleteReview)
			r.Post("/review/helpful", h.markHelpful)
			r.Post("/review/user", h.userReview)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)
			r.Post("/add", h.add)
			r.Post("/remove", h.remove)
			r.Post("/update", h.update)
			r.Post("/update-inventory", h.updateInventory)
			r.Post("/bulk-update-inventory", h.bulkUpdateInventory)
			r.Get("/low-stock", h.lowStock)
			r.Get("/reviews/all", h.allReviews)
			r.Post("/review/admin-update", h.adminUpdateReview)
			r.Post("/review/admin-delete", h.adminDeleteReview)
			r.Post("/review/bulk-delete", h.bulkDeleteReviews)
		})
	})
}

func (h *ProductHandler) add(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == nil || *in.Name == "" {
		fail(w, "Product name is required")
		return
	}
	if in.PriceCents == nil || *in.PriceCents <= 0 {
		fail(w, "Product price is required")
		return
	}
	p, err := h.Catalog.Create(r.Context(), in)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Product Added", "product": p})
}

func (h *ProductHandler) remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Catalog.Delete(r.Context(), req.ID); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Product Removed"})
}

func (h *ProductHandler) single(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Catalog.ByID(r.Context(), req.ProductID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"product": p})
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)
	ps, total, err := h.Catalog.List(r.Context(), page, limit)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"products": ps, "total": total})
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
		catalog.ProductInput
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Catalog.Update(r.Context(), req.ID, req.ProductInput)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Product updated successfully", "product": p})
}

func (h *ProductHandler) updateInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string         `json:"id"`
		SizeStock map[string]int `json:"sizeStock"`
		MinStock  *int           `json:"minStock"`
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Catalog.Update(r.Context(), req.ID, catalog.ProductInput{
		SizeStock: req.SizeStock,
		MinStock:  req.MinStock,
	})
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Inventory updated successfully", "product": p})
}

func (h *ProductHandler) bulkUpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []struct {
			ID        string         `json:"id"`
			SizeStock map[string]int `json:"sizeStock"`
			MinStock  *int           `json:"minStock"`
		} `json:"updates"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.Updates) == 0 {
		fail(w, "No updates provided")
		return
	}
	updated := 0
	for _, u := range req.Updates {
		if _, err := h.Catalog.Update(r.Context(), u.ID, catalog.ProductInput{
			SizeStock: u.SizeStock,
			MinStock:  u.MinStock,
		}); err != nil {
			fail(w, err.Error())
			return
		}
		updated++
	}
	ok(w, map[string]any{"message": "Inventory updated successfully", "updated": updated})
}

func (h *ProductHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.LowStock(r.Context())
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"products": ps})
}

func (h *ProductHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		catalog.ReviewInput
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		fail(w, "Rating must be between 1 and 5")
		return
	}
	rev, err := h.Catalog.AddReview(r.Context(), UserID(r.Context()), req.ProductID, req.ReviewInput)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Review added successfully", "review": rev})
}

func (h *ProductHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID string `json:"reviewId"`
		catalog.ReviewInput
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		fail(w, "Rating must be between 1 and 5")
		return
	}
	rev, err := h.Catalog.UpdateReview(r.Context(), req.ReviewID, UserID(r.Context()), req.ReviewInput)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Review updated successfully", "review": rev})
}

func (h *ProductHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID string `json:"reviewId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Catalog.DeleteReview(r.Context(), req.ReviewID, UserID(r.Context())); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Review deleted successfully"})
}

func (h *ProductHandler) markHelpful(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID string `json:"reviewId"`
	}
	if !decode(w, r, &req) {
		return
	}
	rev, err := h.Catalog.MarkHelpful(r.Context(), req.ReviewID, UserID(r.Context()))
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Marked as helpful", "review": rev})
}

func (h *ProductHandler) userReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	rev, err := h.Catalog.UserReview(r.Context(), UserID(r.Context()), req.ProductID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"review": rev})
}

func (h *ProductHandler) productReviews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Page      int    `json:"page"`
		Limit     int    `json:"limit"`
	}
	if !decode(w, r, &req) {
		return
	}
	revs, total, err := h.Catalog.ProductReviews(r.Context(), req.ProductID, req.Page, req.Limit)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"reviews": revs, "total": total})
}

func (h *ProductHandler) allReviews(w http.ResponseWriter, r *http.Request) {
	f := catalog.ReviewFilter{
		Search:       r.URL.Query().Get("search"),
		Rating:       queryInt(r, "rating", 0),
		ReportedOnly: r.URL.Query().Get("reported") == "true",
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", 20),
	}
	revs, total, stats, err := h.Catalog.AllReviews(r.Context(), f)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"reviews": revs, "total": total, "stats": stats})
}

func (h *ProductHandler) adminUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID  string  `json:"reviewId"`
		Rating    *int    `json:"rating"`
		Comment   *string `json:"comment"`
		Recommend *bool   `json:"recommend"`
		Reported  *bool   `json:"reported"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		fail(w, "Rating must be between 1 and 5")
		return
	}
	rev, err := h.Catalog.AdminUpdateReview(r.Context(), req.ReviewID, req.Rating, req.Comment, req.Recommend, req.Reported)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Review updated successfully", "review": rev})
}

func (h *ProductHandler) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID string `json:"reviewId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Catalog.AdminDeleteReview(r.Context(), req.ReviewID); err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Review deleted successfully"})
}

func (h *ProductHandler) bulkDeleteReviews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewIDs []string `json:"reviewIds"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.ReviewIDs) == 0 {
		fail(w, "No reviews selected")
		return
	}
	n, err := h.Catalog.AdminBulkDeleteReviews(r.Context(), req.ReviewIDs)
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"message": "Reviews deleted successfully", "deleted": n})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
