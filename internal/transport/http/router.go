package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shop-notify/internal/application/feed"
	"github.com/shop-notify/internal/application/notification"
	"github.com/shop-notify/internal/application/product"
	"github.com/shop-notify/internal/application/wishlist"
	"github.com/shop-notify/internal/config"
	"github.com/shop-notify/internal/domain"
	jwtinfra "github.com/shop-notify/internal/infrastructure/jwt"
	"github.com/shop-notify/internal/realtime"
	"github.com/shop-notify/internal/transport/http/handler"
	appmiddleware "github.com/shop-notify/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds the service-level dependencies for the router. Services are
// built in main because the sweeper and the event bridge share them with
// the HTTP layer.
type Deps struct {
	NotificationSvc notification.Service
	FeedSvc         feed.Service
	ProductSvc      product.Service
	WishlistSvc     wishlist.Service
	Registry        *realtime.Registry
	JWTProvider     *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to stream reconnect storms.
	streamRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(deps.NotificationSvc)
	feedH := handler.NewFeedHandler(deps.FeedSvc)
	streamH := handler.NewStreamHandler(deps.Registry)
	productH := handler.NewProductHandler(deps.ProductSvc)
	wishlistH := handler.NewWishlistHandler(deps.WishlistSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/notifications/feed", feedH.Feed)
			r.With(streamRL.Limit).Get("/notifications/stream", streamH.Stream)
			r.Put("/notifications/{id}/read", notifH.MarkRead)
			r.Put("/notifications/{id}/hide", notifH.Hide)

			r.Get("/wishlist", wishlistH.List)
			r.Put("/wishlist/{id}", wishlistH.Follow)
			r.Delete("/wishlist/{id}", wishlistH.Unfollow)

			r.Get("/products/{id}", productH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/notifications", notifH.List)
				r.Post("/notifications", notifH.Create)
				r.Get("/notifications/{id}", notifH.Get)
				r.Put("/notifications/{id}", notifH.Update)
				r.Patch("/notifications/{id}", notifH.Patch)
				r.Delete("/notifications/{id}", notifH.Delete)

				r.Post("/products", productH.Create)
				r.Put("/products/{id}/stock", productH.UpdateStock)
				r.Put("/products/{id}/discount", productH.UpdateDiscount)
			})
		})
	})

	return r
}
