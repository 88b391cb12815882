package handler

import (
	"net/http"

	"github.com/shop-notify/internal/application/feed"
	"github.com/shop-notify/internal/transport/http/middleware"
)

// FeedHandler serves the personalized notification feed.
type FeedHandler struct {
	svc feed.Service
}

func NewFeedHandler(svc feed.Service) *FeedHandler { return &FeedHandler{svc: svc} }

func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	page, perPage := parsePagination(r)
	items, total, err := h.svc.Feed(r.Context(), claims.UserID, page, perPage)
	if err != nil {
		httpError(w, err)
		return
	}
	maxPage := 1
	if perPage > 0 && total > 0 {
		maxPage = (total + perPage - 1) / perPage
	}
	writeJSON(w, http.StatusOK, PaginatedFeedEnvelope{
		MaxPage: maxPage, ActualPage: page, PerPage: perPage, Data: items,
	})
}
