package cart

import (
	"fmt"
	"math"

	"github.com/sicko7947/foodcart"
)

// validateItems checks a persisted sequence before it is allowed into memory
func validateItems(items []foodcart.CartItem) error {
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item %d has no id", i)
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = true

		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return fmt.Errorf("item %q has invalid price %v", item.ID, item.Price)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %q has quantity %d, minimum is 1", item.ID, item.Quantity)
		}
	}

	return nil
}

// validateProduct checks an add request
func validateProduct(product foodcart.CartItem, quantity int) error {
	details := map[string]string{}

	if product.ID == "" {
		details["id"] = "product id is required"
	}
	if product.Price < 0 || math.IsNaN(product.Price) || math.IsInf(product.Price, 0) {
		details["price"] = "price must not be negative"
	}
	if quantity < 1 {
		details["quantity"] = "quantity must be at least 1"
	}

	if len(details) == 0 {
		return nil
	}

	return foodcart.NewStorefrontError(foodcart.ErrCodeValidation, "Invalid cart item").WithDetails(details)
}
