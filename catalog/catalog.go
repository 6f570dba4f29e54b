// Package catalog holds the home-screen menu: categories, popular items and
// the daily hot offer.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sicko7947/foodcart"
)

// Category groups products on the home screen
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Product is a menu entry that can be added to the cart
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Discount    int     `json:"discount,omitempty"` // percent off
}

// EffectivePrice applies the product's percentage discount.
func (p Product) EffectivePrice() decimal.Decimal {
	price := decimal.NewFromFloat(p.Price)
	if p.Discount <= 0 {
		return price
	}
	off := price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100))
	return price.Sub(off).Round(2)
}

// CartItem converts the product into a cart line at its listed price.
func (p Product) CartItem() foodcart.CartItem {
	return foodcart.CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
	}
}

// Catalog is an immutable menu
type Catalog struct {
	categories []Category
	popular    []Product
	hotOffer   Product
	byID       map[string]Product
}

// New builds a catalog. Products are indexed by id; later entries win.
func New(categories []Category, popular []Product, hotOffer Product) *Catalog {
	c := &Catalog{
		categories: categories,
		popular:    popular,
		hotOffer:   hotOffer,
		byID:       make(map[string]Product, len(popular)+1),
	}
	if hotOffer.ID != "" {
		c.byID[hotOffer.ID] = hotOffer
	}
	for _, p := range popular {
		c.byID[p.ID] = p
	}
	return c
}

// Default returns the storefront's built-in menu.
func Default() *Catalog {
	return New(
		[]Category{
			{ID: "1", Name: "PIZZA", Icon: "pizza-outline"},
			{ID: "2", Name: "BURGER", Icon: "fast-food-outline"},
			{ID: "3", Name: "DRINK", Icon: "beer-outline"},
			{ID: "4", Name: "RICI", Icon: "restaurant-outline"},
		},
		[]Product{
			{
				ID:          "101",
				Name:        "BURGER",
				Price:       8.99,
				Image:       "burger.png",
				Description: "Delicious beef burger with cheese",
				Rating:      4.9,
			},
			{
				ID:          "102",
				Name:        "PIZZA",
				Price:       12.99,
				Image:       "pizza.png",
				Description: "Pepperoni pizza with extra cheese",
				Rating:      4.7,
			},
		},
		Product{
			ID:          "100",
			Name:        "BURGER",
			Price:       8.99,
			Image:       "burger.png",
			Description: "Today's Hot offer",
			Rating:      4.9,
			Discount:    10,
		},
	)
}

// Categories returns the menu categories in display order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Popular returns the popular items in display order
func (c *Catalog) Popular() []Product {
	out := make([]Product, len(c.popular))
	copy(out, c.popular)
	return out
}

// HotOffer returns today's hot offer
func (c *Catalog) HotOffer() Product {
	return c.hotOffer
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, foodcart.NewStorefrontError(foodcart.ErrCodeNotFound, "Product not found").
			WithDetails(map[string]string{"id": id})
	}
	return p, nil
}

// Search returns products whose name or description contains query, case-insensitively.
// An empty query matches everything.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []Product
	seen := make(map[string]bool)
	for _, p := range append([]Product{c.hotOffer}, c.popular...) {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
			seen[p.ID] = true
		}
	}
	return out
}
