package cart

import (
	"github.com/shopspring/decimal"
	"github.com/sicko7947/foodcart"
)

// Total computes the order totals for items: the subtotal is the sum of
// price × quantity and the grand total adds the flat delivery fee.
func Total(items []foodcart.CartItem, deliveryFee decimal.Decimal) foodcart.OrderTotal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	return foodcart.OrderTotal{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(deliveryFee),
	}
}
