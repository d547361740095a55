package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kadeksinduarta/selat-frontend/internal/logging"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodySize    int64
}

type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Orders   *OrdersHandler
}

func NewRouter(cfg RouterConfig, h Handlers, sessions *session.Manager, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessions.Middleware)

		// streams stay open past the request timeout
		r.Get("/cart/events", h.Cart.Events)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
			r.Use(middleware.Compress(5))

			r.Get("/products", h.Catalog.ListProducts)
			r.Get("/products/{id}", h.Catalog.GetProduct)
			r.Get("/articles", h.Catalog.ListArticles)
			r.Get("/articles/{slug}", h.Catalog.GetArticle)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Get("/summary", h.Cart.Summary)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", h.Cart.RemoveItem)
				r.Post("/selection", h.Cart.Select)
			})

			r.Get("/checkout", h.Checkout.View)
			r.Post("/checkout", h.Checkout.Submit)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Auth.Login)
				r.Post("/register", h.Auth.Register)
				r.Post("/logout", h.Auth.Logout)
			})

			r.Get("/orders", h.Orders.ListOrders)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
