package foodcart

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log event names
const (
	// Cart events
	EventCartLoaded          = "cart_loaded"
	EventCartItemAdded       = "cart_item_added"
	EventCartItemRemoved     = "cart_item_removed"
	EventCartQuantityChanged = "cart_quantity_changed"
	EventCartCheckedOut      = "cart_checked_out"

	// Account events
	EventAccountRegistered = "account_registered"
	EventLoginSucceeded    = "login_succeeded"
	EventLoginFailed       = "login_failed"
	EventLoggedOut         = "logged_out"

	// Persistence events
	EventPersistenceError = "persistence_error"
	EventStorageRetry     = "storage_retry"
)

// DefaultLogger returns the console logger components fall back to when none is configured.
func DefaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
}

// LogCartLoaded logs a cart rehydrated from storage
func LogCartLoaded(logger zerolog.Logger, key string, items int) {
	logger.Debug().
		Str("event", EventCartLoaded).
		Str("key", key).
		Int("items", items).
		Msg("Cart loaded")
}

// LogCartItemAdded logs a product added to the cart
func LogCartItemAdded(logger zerolog.Logger, itemID string, added, quantity int) {
	logger.Info().
		Str("event", EventCartItemAdded).
		Str("item_id", itemID).
		Int("added", added).
		Int("quantity", quantity).
		Msg("Item added to cart")
}

// LogCartItemRemoved logs an explicit removal
func LogCartItemRemoved(logger zerolog.Logger, itemID string, found bool) {
	logger.Info().
		Str("event", EventCartItemRemoved).
		Str("item_id", itemID).
		Bool("found", found).
		Msg("Item removed from cart")
}

// LogCartQuantityChanged logs an increment or decrement
func LogCartQuantityChanged(logger zerolog.Logger, itemID string, delta, quantity int) {
	logger.Debug().
		Str("event", EventCartQuantityChanged).
		Str("item_id", itemID).
		Int("delta", delta).
		Int("quantity", quantity).
		Msg("Cart quantity changed")
}

// LogCartCheckedOut logs a completed order
func LogCartCheckedOut(logger zerolog.Logger, orderID string, items int, total string) {
	logger.Info().
		Str("event", EventCartCheckedOut).
		Str("order_id", orderID).
		Int("items", items).
		Str("total", total).
		Msg("Order placed")
}

// LogAccountRegistered logs a new account
func LogAccountRegistered(logger zerolog.Logger, email string) {
	logger.Info().
		Str("event", EventAccountRegistered).
		Str("email", email).
		Msg("Account registered")
}

// LogLoginSucceeded logs a successful sign-in
func LogLoginSucceeded(logger zerolog.Logger, email string, rememberMe bool) {
	logger.Info().
		Str("event", EventLoginSucceeded).
		Str("email", email).
		Bool("remember_me", rememberMe).
		Msg("Login succeeded")
}

// LogLoginFailed logs a rejected sign-in
func LogLoginFailed(logger zerolog.Logger, email, reason string) {
	logger.Warn().
		Str("event", EventLoginFailed).
		Str("email", email).
		Str("reason", reason).
		Msg("Login failed")
}

// LogLoggedOut logs the end of a session
func LogLoggedOut(logger zerolog.Logger) {
	logger.Info().
		Str("event", EventLoggedOut).
		Msg("Logged out")
}

// LogPersistenceError logs errors during persistence operations
func LogPersistenceError(logger zerolog.Logger, key, operation string, err error) {
	logger.Error().
		Str("event", EventPersistenceError).
		Str("key", key).
		Str("operation", operation).
		Err(err).
		Msg("Persistence error")
}

// LogStorageRetry logs a storage call about to be retried
func LogStorageRetry(logger zerolog.Logger, key, operation string, attempt int, delay time.Duration, err error) {
	logger.Warn().
		Str("event", EventStorageRetry).
		Str("key", key).
		Str("operation", operation).
		Int("attempt", attempt).
		Dur("delay", delay).
		Err(err).
		Msg("Retrying storage call")
}

// ComponentLogger creates a logger enriched with the component name
func ComponentLogger(baseLogger zerolog.Logger, component string) zerolog.Logger {
	return baseLogger.With().
		Str("component", component).
		Logger()
}
