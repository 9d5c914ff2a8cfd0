package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Catalog  *handler.CatalogHandler
	Admin    *handler.AdminHandler
	Order    *handler.OrderHandler
	Me       *handler.MeHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth middleware.Authenticator, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identify(auth, logger))

		r.Get("/categories", h.Catalog.Categories)
		r.Get("/categories/{id}/subcategories", h.Catalog.SubcategoriesByCategory)
		r.Get("/subcategories", h.Catalog.Subcategories)
		r.Get("/products", h.Catalog.Products)

		r.Get("/orders/{id}", h.Order.GetByID)

		r.With(middleware.RequireUser(logger)).Get("/me", h.Me.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Delete("/", h.Cart.Clear)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{productId}", h.Cart.UpdateQuantity)
				r.Delete("/items/{productId}", h.Cart.RemoveItem)
				r.Post("/open", h.Cart.Open)
				r.Post("/close", h.Cart.Close)
			})

			r.Get("/checkout", h.Checkout.Summary)
			r.Post("/checkout", h.Checkout.Submit)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logger))

			r.Post("/categories", h.Admin.CreateCategory)
			r.Put("/categories/{id}", h.Admin.UpdateCategory)
			r.Delete("/categories/{id}", h.Admin.DeleteCategory)

			r.Post("/subcategories", h.Admin.CreateSubcategory)
			r.Put("/subcategories/{id}", h.Admin.UpdateSubcategory)
			r.Delete("/subcategories/{id}", h.Admin.DeleteSubcategory)

			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{id}", h.Admin.UpdateProduct)
			r.Delete("/products/{id}", h.Admin.DeleteProduct)
		})
	})

	return r
}
