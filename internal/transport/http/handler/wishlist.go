package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shop-notify/internal/application/wishlist"
	"github.com/shop-notify/internal/transport/http/middleware"
)

// WishlistHandler handles product follow/unfollow endpoints.
type WishlistHandler struct {
	svc wishlist.Service
}

func NewWishlistHandler(svc wishlist.Service) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) Follow(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Follow(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "product followed"})
}

func (h *WishlistHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Unfollow(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "product unfollowed"})
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	products, err := h.svc.ProductsOf(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if products == nil {
		products = []string{}
	}
	writeJSON(w, http.StatusOK, products)
}
