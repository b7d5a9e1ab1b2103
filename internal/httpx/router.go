package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/books", handler.ListBooks)

	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddCartItem)
	r.Delete("/cart/items/{bookID}", handler.RemoveCartItem)

	r.Post("/quote", handler.Quote)
	r.Post("/checkout", handler.Checkout)
	r.Get("/checkouts/{id}", handler.GetCheckout)

	r.Post("/reset", handler.Reset)
	return r
}
