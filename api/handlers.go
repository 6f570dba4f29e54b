package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sicko7947/foodcart"
	"github.com/sicko7947/foodcart/catalog"
)

type credentialsRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type addItemRequest struct {
	ProductID string             `json:"productId"`
	Quantity  int                `json:"quantity"`
	Item      *foodcart.CartItem `json:"item"`
}

// cartResponse is the body of every cart endpoint
type cartResponse struct {
	Items   []foodcart.CartItem `json:"items"`
	Totals  foodcart.OrderTotal `json:"totals"`
	Receipt *foodcart.Receipt   `json:"receipt,omitempty"`
	Notice  string              `json:"notice,omitempty"`
}

// statusFor maps a storefront error onto an HTTP status
func statusFor(err error) int {
	switch {
	case foodcart.IsValidationError(err):
		return fiber.StatusBadRequest
	case foodcart.IsUnauthorizedError(err):
		return fiber.StatusUnauthorized
	case foodcart.IsNotFoundError(err):
		return fiber.StatusNotFound
	case foodcart.IsConflictError(err):
		return fiber.StatusConflict
	case foodcart.IsStorageError(err):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c fiber.Ctx, err error) error {
	body := fiber.Map{"error": foodcart.UserMessage(err)}

	var se *foodcart.StorefrontError
	if errors.As(err, &se) {
		body["code"] = se.Code
		if len(se.Details) > 0 {
			body["details"] = se.Details
		}
	}
	return c.Status(statusFor(err)).JSON(body)
}

// handleRegister creates an account
func (h *Handler) handleRegister(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.accounts.Register(c.Context(), req.Email, req.Password); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"email":   req.Email,
		"message": "Account created",
	})
}

// handleLogin signs a user in and loads their cart
func (h *Handler) handleLogin(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.accounts.Login(c.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(h.loadCart(c.Context(), fiber.Map{"session": session}))
}

// handleLogout ends the session
func (h *Handler) handleLogout(c fiber.Ctx) error {
	if err := h.accounts.Logout(c.Context()); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// handleSession reports the current user
func (h *Handler) handleSession(c fiber.Ctx) error {
	session, err := h.accounts.Current(c.Context())
	if err != nil {
		if foodcart.IsNotFoundError(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":        "Not signed in",
				"initialRoute": h.accounts.InitialRoute(c.Context()),
			})
		}
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"session":      session,
		"initialRoute": h.accounts.InitialRoute(c.Context()),
	})
}

// handleCatalog returns the home-screen menu
func (h *Handler) handleCatalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.catalog.Categories(),
		"popular":    h.catalog.Popular(),
		"hotOffer":   h.catalog.HotOffer(),
	})
}

// handleSearch filters the menu
func (h *Handler) handleSearch(c fiber.Ctx) error {
	results := h.catalog.Search(c.Query("q"))
	if results == nil {
		results = []catalog.Product{}
	}
	return c.JSON(fiber.Map{"results": results})
}

// handleProduct returns a single menu entry
func (h *Handler) handleProduct(c fiber.Ctx) error {
	product, err := h.catalog.Product(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"product":        product,
		"effectivePrice": product.EffectivePrice(),
	})
}

// handleGetCart reloads the cart from storage. A failed load still answers
// with an empty cart plus a notice.
func (h *Handler) handleGetCart(c fiber.Ctx) error {
	return c.JSON(h.loadCart(c.Context(), nil))
}

// handleAddItem adds a catalog product or a free-form item
func (h *Handler) handleAddItem(c fiber.Ctx) error {
	var req addItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var item foodcart.CartItem
	switch {
	case req.ProductID != "":
		product, err := h.catalog.Product(req.ProductID)
		if err != nil {
			return errorResponse(c, err)
		}
		item = product.CartItem()
	case req.Item != nil:
		item = *req.Item
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "productId or item is required",
		})
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	_, err := h.cart.Add(c.Context(), item, quantity)
	return h.cartResult(c, err)
}

// handleIncrease adds one unit to a line
func (h *Handler) handleIncrease(c fiber.Ctx) error {
	_, err := h.cart.Increase(c.Context(), c.Params("id"))
	return h.cartResult(c, err)
}

// handleDecrease removes one unit from a line, stopping at one
func (h *Handler) handleDecrease(c fiber.Ctx) error {
	_, err := h.cart.Decrease(c.Context(), c.Params("id"))
	return h.cartResult(c, err)
}

// handleRemove deletes a line
func (h *Handler) handleRemove(c fiber.Ctx) error {
	_, err := h.cart.Remove(c.Context(), c.Params("id"))
	return h.cartResult(c, err)
}

// handleCheckout places the order and clears the cart
func (h *Handler) handleCheckout(c fiber.Ctx) error {
	receipt, err := h.cart.Checkout(c.Context())
	if err != nil {
		return h.cartResult(c, err)
	}

	items, totals := h.cart.Summary()
	return c.JSON(cartResponse{
		Items:   items,
		Totals:  totals,
		Receipt: receipt,
	})
}

// cartResult answers a cart mutation with the cart as it now stands.
// A failed write leaves the previous cart in place and adds a notice.
func (h *Handler) cartResult(c fiber.Ctx, err error) error {
	items, totals := h.cart.Summary()
	resp := cartResponse{Items: items, Totals: totals}
	if err == nil {
		return c.JSON(resp)
	}

	if foodcart.IsValidationError(err) || foodcart.IsNotFoundError(err) {
		return errorResponse(c, err)
	}

	logger := h.logger
	if session := sessionFrom(c); session != nil {
		logger = logger.With().Str("email", session.Email).Logger()
	}
	logger.Error().Err(err).Msg("Cart update failed")
	resp.Notice = foodcart.UserMessage(err)
	return c.Status(statusFor(err)).JSON(resp)
}

// sessionFrom returns the session stored by requireSession, if any
func sessionFrom(c fiber.Ctx) *foodcart.Session {
	session, _ := c.Locals(localsSession).(*foodcart.Session)
	return session
}

func (h *Handler) loadCart(ctx context.Context, extra fiber.Map) fiber.Map {
	_, err := h.cart.Load(ctx)
	items, totals := h.cart.Summary()

	body := fiber.Map{
		"items":  items,
		"totals": totals,
	}
	for k, v := range extra {
		body[k] = v
	}
	if err != nil {
		body["notice"] = foodcart.UserMessage(err)
	}
	return body
}
