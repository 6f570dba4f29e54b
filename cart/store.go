// Package cart owns the shopper's cart line items and keeps the persisted copy
// consistent with the in-memory one.
package cart

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sicko7947/foodcart"
)

// Store is the single serialized-access owner of the persisted cart key.
// Every mutation persists the whole sequence before committing it in memory,
// so a failed write leaves both copies on the previous state.
type Store struct {
	blobs  foodcart.BlobStore
	logger zerolog.Logger
	config foodcart.CartConfig

	mu     sync.Mutex
	items  []foodcart.CartItem
	loaded bool
}

// Option configures the cart store
type Option func(*Store)

// WithLogger sets a custom logger for the store
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithConfig sets a custom configuration for the store
func WithConfig(config foodcart.CartConfig) Option {
	return func(s *Store) {
		s.config = config
	}
}

// NewStore creates a cart store on top of blobs.
// If no logger is provided, foodcart.DefaultLogger is used.
// If no config is provided, foodcart.DefaultCartConfig is used.
func NewStore(blobs foodcart.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		logger: foodcart.DefaultLogger(),
		config: foodcart.DefaultCartConfig,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = foodcart.ComponentLogger(s.logger, "cart")
	return s
}

func (s *Store) key() string {
	return s.config.Keys.Cart()
}

// Load rehydrates the cart from storage. An absent key yields an empty cart.
// On a read or parse failure the cart is treated as empty for the rest of the
// session and the error is returned for the caller to surface.
func (s *Store) Load(ctx context.Context) ([]foodcart.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	s.loaded = true
	if err != nil {
		s.items = []foodcart.CartItem{}
		foodcart.LogPersistenceError(s.logger, s.key(), "load", err)
		return []foodcart.CartItem{}, err
	}

	s.items = items
	foodcart.LogCartLoaded(s.logger, s.key(), len(items))
	return cloneItems(items), nil
}

// Add puts quantity units of product in the cart. An existing line with the same
// id grows by quantity; otherwise one new line is appended.
func (s *Store) Add(ctx context.Context, product foodcart.CartItem, quantity int) ([]foodcart.CartItem, error) {
	if err := validateProduct(product, quantity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := cloneItems(s.items)
	idx := indexOf(next, product.ID)
	if idx >= 0 {
		if quantity > math.MaxInt-next[idx].Quantity {
			return nil, foodcart.NewStorefrontError(foodcart.ErrCodeValidation, "Quantity is too large").
				WithDetails(map[string]string{"quantity": "quantity is too large"})
		}
		next[idx].Quantity += quantity
	} else {
		next = append(next, foodcart.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: quantity,
			Image:    product.Image,
		})
		idx = len(next) - 1
	}

	if err := s.commit(ctx, next, "add"); err != nil {
		return nil, err
	}

	foodcart.LogCartItemAdded(s.logger, product.ID, quantity, next[idx].Quantity)
	return cloneItems(next), nil
}

// AddOne adds a single unit of product.
func (s *Store) AddOne(ctx context.Context, product foodcart.CartItem) ([]foodcart.CartItem, error) {
	return s.Add(ctx, product, 1)
}

// Increase adds one unit to the line with itemID, saturating at math.MaxInt.
// Unknown ids are a no-op that still persists.
func (s *Store) Increase(ctx context.Context, itemID string) ([]foodcart.CartItem, error) {
	return s.adjust(ctx, itemID, 1)
}

// Decrease removes one unit from the line with itemID, never going below 1.
// Unknown ids are a no-op that still persists.
func (s *Store) Decrease(ctx context.Context, itemID string) ([]foodcart.CartItem, error) {
	return s.adjust(ctx, itemID, -1)
}

func (s *Store) adjust(ctx context.Context, itemID string, delta int) ([]foodcart.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := cloneItems(s.items)
	idx := indexOf(next, itemID)
	if idx >= 0 {
		switch {
		case delta > 0 && next[idx].Quantity > math.MaxInt-delta:
			next[idx].Quantity = math.MaxInt
		default:
			next[idx].Quantity = max(1, next[idx].Quantity+delta)
		}
	}

	if err := s.commit(ctx, next, "adjust"); err != nil {
		return nil, err
	}

	if idx >= 0 {
		foodcart.LogCartQuantityChanged(s.logger, itemID, delta, next[idx].Quantity)
	}
	return cloneItems(next), nil
}

// Remove deletes the line with itemID. Removing an absent id is a no-op that still persists.
func (s *Store) Remove(ctx context.Context, itemID string) ([]foodcart.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := make([]foodcart.CartItem, 0, len(s.items))
	found := false
	for _, item := range s.items {
		if item.ID == itemID {
			found = true
			continue
		}
		next = append(next, item)
	}

	if err := s.commit(ctx, next, "remove"); err != nil {
		return nil, err
	}

	foodcart.LogCartItemRemoved(s.logger, itemID, found)
	return cloneItems(next), nil
}

// Checkout places the order: the persisted cart is deleted and the in-memory
// list cleared. Nothing about stock, payment or address is checked.
// The receipt carries totals computed from the cart as it was before clearing.
// If the delete fails the in-memory cart is kept so both copies stay equal
// (see "Decisions on open questions" in DESIGN.md).
func (s *Store) Checkout(ctx context.Context) (*foodcart.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		// Clearing does not depend on the old contents
		s.logger.Warn().Err(err).Msg("Checking out a cart that could not be loaded")
	}

	receipt := &foodcart.Receipt{
		OrderID:   uuid.New().String(),
		ItemCount: len(s.items),
		Totals:    Total(s.items, s.config.DeliveryFee),
		PlacedAt:  time.Now(),
	}

	if err := foodcart.DeleteKey(ctx, s.blobs, s.key()); err != nil {
		foodcart.LogPersistenceError(s.logger, s.key(), "checkout", err)
		return nil, err
	}

	s.items = []foodcart.CartItem{}
	foodcart.LogCartCheckedOut(s.logger, receipt.OrderID, receipt.ItemCount, receipt.Totals.Total.String())
	return receipt, nil
}

// Items returns a snapshot of the in-memory cart.
func (s *Store) Items() []foodcart.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Summary returns the in-memory cart together with its totals.
func (s *Store) Summary() ([]foodcart.CartItem, foodcart.OrderTotal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items), Total(s.items, s.config.DeliveryFee)
}

// read loads and validates the persisted sequence. Caller holds mu.
func (s *Store) read(ctx context.Context) ([]foodcart.CartItem, error) {
	items, found, err := foodcart.LoadJSON[[]foodcart.CartItem](ctx, s.blobs, s.key())
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return []foodcart.CartItem{}, nil
	}
	if err := validateItems(items); err != nil {
		return nil, foodcart.ParseError(s.key(), err)
	}
	return items, nil
}

// ensureLoaded loads the cart on first use. A failed lazy load leaves an empty
// cart in memory so the next write replaces the unreadable blob. Caller holds mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	items, err := s.read(ctx)
	s.loaded = true
	if err != nil {
		s.items = []foodcart.CartItem{}
		foodcart.LogPersistenceError(s.logger, s.key(), "load", err)
		return err
	}

	s.items = items
	return nil
}

// commit persists next and only then adopts it in memory. Caller holds mu.
func (s *Store) commit(ctx context.Context, next []foodcart.CartItem, operation string) error {
	if err := foodcart.SaveJSON(ctx, s.blobs, s.key(), next); err != nil {
		foodcart.LogPersistenceError(s.logger, s.key(), operation, err)
		return err
	}
	s.items = next
	return nil
}

func indexOf(items []foodcart.CartItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func cloneItems(items []foodcart.CartItem) []foodcart.CartItem {
	out := make([]foodcart.CartItem, len(items))
	copy(out, items)
	return out
}
