// Package httpx exposes the storefront over HTTP: the public catalogue
// and checkout endpoints, and the token-gated admin surface.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/habbo-store/internal/admin"
	"github.com/jcmexdev/habbo-store/internal/httpx/middlewares"
)

// NewRouter wires the routes. uploadsDir, when non-empty, is served under
// /uploads/ so locally stored product images resolve.
func NewRouter(handler *Handler, gate *admin.Gate, uploadsDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.Tracing)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Post("/admin/login", handler.AdminLogin)
	r.Post("/admin/logout", handler.AdminLogout)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAdmin(gate))
			r.Post("/", handler.CreateProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})
	})

	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders/{id}", handler.GetOrder)
	r.With(middlewares.RequireAdmin(gate)).Get("/orders", handler.ListOrders)

	r.With(middlewares.RequireAdmin(gate)).Post("/upload", handler.UploadImage)

	if uploadsDir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))
		r.Get("/uploads/*", files.ServeHTTP)
	}

	return r
}
