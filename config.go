package foodcart

import "github.com/shopspring/decimal"

// CartConfig holds cart-level parameters
type CartConfig struct {
	// Flat charge added to every order, not per item.
	DeliveryFee decimal.Decimal

	// Storage key layout
	Keys Keys
}

// DefaultDeliveryFee is 30.000 VND.
var DefaultDeliveryFee = decimal.NewFromInt(30000)

// DefaultCartConfig provides sensible defaults
var DefaultCartConfig = CartConfig{
	DeliveryFee: DefaultDeliveryFee,
	Keys:        Keys{},
}

// AccountConfig holds account-level parameters
type AccountConfig struct {
	// Minimum accepted password length
	MinPasswordLength int

	// bcrypt cost used when hashing new passwords
	HashCost int

	// Storage key layout
	Keys Keys
}

// DefaultAccountConfig provides sensible defaults
var DefaultAccountConfig = AccountConfig{
	MinPasswordLength: 6,
	HashCost:          10,
	Keys:              Keys{},
}

// BackoffStrategy defines retry backoff behavior
type BackoffStrategy string

const (
	BackoffLinear      BackoffStrategy = "LINEAR"
	BackoffExponential BackoffStrategy = "EXPONENTIAL"
	BackoffNone        BackoffStrategy = "NONE"
)

// RetryConfig controls how remote storage calls are retried
type RetryConfig struct {
	// Retries after the first attempt
	MaxRetries int

	// Base delay between attempts
	RetryDelayMs int

	RetryBackoff BackoffStrategy

	// Per-attempt timeout, zero for none
	TimeoutSeconds int
}

// DefaultRetryConfig provides sensible defaults
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	RetryDelayMs:   50,
	RetryBackoff:   BackoffExponential,
	TimeoutSeconds: 5,
}
