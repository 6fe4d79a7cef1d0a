package router

import (
	"net/http"

	"duper-mart/internal/handler"
	"duper-mart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Admin routes additionally require the X-Admin-Key header.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	statsHandler *handler.StatsHandler,
	watchlistHandler *handler.WatchlistHandler,
	apiKey string,
	adminKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.AdminOnly(adminKey, logger, h)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("POST /api/products", admin(productHandler.Create))
	mux.HandleFunc("PUT /api/products/{id}", admin(productHandler.Update))
	mux.HandleFunc("DELETE /api/products/{id}", admin(productHandler.Delete))

	// Cart
	mux.HandleFunc("GET /api/users/{userId}/cart", cartHandler.Get)
	mux.HandleFunc("DELETE /api/users/{userId}/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/users/{userId}/cart/items", cartHandler.Add)
	mux.HandleFunc("PUT /api/users/{userId}/cart/items/{productId}", cartHandler.UpdateQuantity)
	mux.HandleFunc("DELETE /api/users/{userId}/cart/items/{productId}", cartHandler.Remove)

	// Orders
	mux.HandleFunc("POST /api/orders", orderHandler.Place)
	mux.HandleFunc("GET /api/orders", admin(orderHandler.GetAll))
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("PATCH /api/orders/{id}/status", admin(orderHandler.UpdateStatus))
	mux.HandleFunc("GET /api/users/{userId}/orders", orderHandler.GetByUser)

	// Analytics
	mux.HandleFunc("GET /api/users/{userId}/stats/frequent", statsHandler.Frequent)
	mux.HandleFunc("GET /api/users/{userId}/stats/recent", statsHandler.Recent)
	mux.HandleFunc("GET /api/stats/profitable", admin(statsHandler.Profitable))
	mux.HandleFunc("GET /api/stats/popular", admin(statsHandler.Popular))
	mux.HandleFunc("GET /api/stats/top-selling", admin(statsHandler.TopSelling))
	mux.HandleFunc("GET /api/stats/sales", admin(statsHandler.Sales))
	mux.HandleFunc("GET /api/stats/orders/count", admin(statsHandler.OrderCount))

	// Watchlist
	mux.HandleFunc("GET /api/users/{userId}/watchlist", watchlistHandler.Get)
	mux.HandleFunc("POST /api/users/{userId}/watchlist", watchlistHandler.Add)
	mux.HandleFunc("DELETE /api/users/{userId}/watchlist/{productId}", watchlistHandler.Remove)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
