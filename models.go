package foodcart

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product entry in the cart.
type CartItem struct {
	ID       string  `json:"id" dynamodbav:"id"`
	Name     string  `json:"name" dynamodbav:"name"`
	Price    float64 `json:"price" dynamodbav:"price"`
	Quantity int     `json:"quantity" dynamodbav:"quantity"`
	Image    string  `json:"image,omitempty" dynamodbav:"image,omitempty"`
}

// LineTotal returns price × quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal is derived from the cart, never stored.
type OrderTotal struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
}

// Receipt describes a completed checkout.
type Receipt struct {
	OrderID   string     `json:"orderId"`
	ItemCount int        `json:"itemCount"`
	Totals    OrderTotal `json:"totals"`
	PlacedAt  time.Time  `json:"placedAt"`
}

// Account is a registered storefront account.
type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"` // bcrypt hash
}

// Session marks the active user. Its presence in storage means someone is signed in.
type Session struct {
	Email      string `json:"email"`
	RememberMe bool   `json:"rememberMe"`
}
