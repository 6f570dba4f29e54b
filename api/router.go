// Package api exposes the storefront over HTTP with fiber.
package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/sicko7947/foodcart"
	"github.com/sicko7947/foodcart/account"
	"github.com/sicko7947/foodcart/cart"
	"github.com/sicko7947/foodcart/catalog"
)

const (
	serviceName    = "foodcart"
	serviceVersion = "1.0.0"

	localsSession = "session"
)

// Handler serves the storefront routes
type Handler struct {
	cart     *cart.Store
	accounts *account.Service
	catalog  *catalog.Catalog
	logger   zerolog.Logger
}

// NewHandler wires the HTTP layer to the storefront components
func NewHandler(carts *cart.Store, accounts *account.Service, menu *catalog.Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		cart:     carts,
		accounts: accounts,
		catalog:  menu,
		logger:   foodcart.ComponentLogger(logger, "api"),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(app *fiber.App) {
	// Health check endpoint
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"version": serviceVersion,
		})
	})

	// Root endpoint
	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":      "Food Cart Storefront",
			"version":      serviceVersion,
			"initialRoute": h.accounts.InitialRoute(c.Context()),
			"endpoints": fiber.Map{
				"health":       "GET /health",
				"register":     "POST /api/v1/auth/register",
				"login":        "POST /api/v1/auth/login",
				"logout":       "POST /api/v1/auth/logout",
				"session":      "GET /api/v1/session",
				"catalog":      "GET /api/v1/catalog",
				"search":       "GET /api/v1/catalog/search?q=",
				"product":      "GET /api/v1/catalog/products/:id",
				"cart":         "GET /api/v1/cart",
				"addItem":      "POST /api/v1/cart/items",
				"increaseItem": "POST /api/v1/cart/items/:id/increase",
				"decreaseItem": "POST /api/v1/cart/items/:id/decrease",
				"removeItem":   "DELETE /api/v1/cart/items/:id",
				"checkout":     "POST /api/v1/cart/checkout",
			},
		})
	})

	// API v1 routes
	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.handleRegister)
	auth.Post("/login", h.handleLogin)
	auth.Post("/logout", h.handleLogout)

	v1.Get("/session", h.handleSession)

	menu := v1.Group("/catalog")
	menu.Get("/", h.handleCatalog)
	menu.Get("/search", h.handleSearch)
	menu.Get("/products/:id", h.handleProduct)

	// Cart endpoints require a signed-in user
	carts := v1.Group("/cart", h.requireSession)
	carts.Get("/", h.handleGetCart)
	carts.Post("/items", h.handleAddItem)
	carts.Post("/items/:id/increase", h.handleIncrease)
	carts.Post("/items/:id/decrease", h.handleDecrease)
	carts.Delete("/items/:id", h.handleRemove)
	carts.Post("/checkout", h.handleCheckout)
}

// requireSession rejects requests when nobody is signed in
func (h *Handler) requireSession(c fiber.Ctx) error {
	session, err := h.accounts.Current(c.Context())
	if err != nil {
		if !foodcart.IsNotFoundError(err) {
			h.logger.Warn().Err(err).Msg("Failed to read session")
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}

	c.Locals(localsSession, session)
	return c.Next()
}
