// Package account handles registration, sign-in and the active session marker.
package account

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sicko7947/foodcart"
	"golang.org/x/crypto/bcrypt"
)

// Route names the screen a client should open first
type Route string

const (
	RouteAuth Route = "auth"
	RouteMain Route = "main"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Service manages accounts and the current session
type Service struct {
	blobs  foodcart.BlobStore
	logger zerolog.Logger
	config foodcart.AccountConfig

	// mu serializes the exists-check and write in Register
	mu sync.Mutex
}

// Option configures the account service
type Option func(*Service)

// WithLogger sets a custom logger for the service
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConfig sets a custom configuration for the service
func WithConfig(config foodcart.AccountConfig) Option {
	return func(s *Service) {
		s.config = config
	}
}

// NewService creates an account service on top of blobs
func NewService(blobs foodcart.BlobStore, opts ...Option) *Service {
	s := &Service{
		blobs:  blobs,
		logger: foodcart.DefaultLogger(),
		config: foodcart.DefaultAccountConfig,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = foodcart.ComponentLogger(s.logger, "account")
	return s
}

// Register creates an account for email. An email can only be registered once.
// Registrations through one Service are serialized; separate processes sharing
// a backend are not coordinated.
func (s *Service) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := s.validate(email, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.config.Keys.Account(email)
	_, found, err := s.blobs.Get(ctx, key)
	if err != nil {
		foodcart.LogPersistenceError(s.logger, key, "register", err)
		return foodcart.StorageReadError(key, err)
	}
	if found {
		return fieldError(foodcart.ErrCodeConflict, "email", "Email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.HashCost)
	if err != nil {
		return foodcart.NewStorefrontError(foodcart.ErrCodeValidation, "Password cannot be used").WithCause(err)
	}

	if err := foodcart.SaveJSON(ctx, s.blobs, key, foodcart.Account{Email: email, Password: string(hash)}); err != nil {
		foodcart.LogPersistenceError(s.logger, key, "register", err)
		return err
	}

	foodcart.LogAccountRegistered(s.logger, email)
	return nil
}

// Login checks the credentials and marks email as the current user.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*foodcart.Session, error) {
	email = strings.TrimSpace(email)
	if err := s.validate(email, password); err != nil {
		return nil, err
	}

	key := s.config.Keys.Account(email)
	account, found, err := foodcart.LoadJSON[foodcart.Account](ctx, s.blobs, key)
	if err != nil {
		foodcart.LogPersistenceError(s.logger, key, "login", err)
		return nil, err
	}
	if !found {
		foodcart.LogLoginFailed(s.logger, email, "unknown email")
		return nil, fieldError(foodcart.ErrCodeNotFound, "email", "Email is not registered")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		reason := "wrong password"
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			reason = err.Error()
		}
		foodcart.LogLoginFailed(s.logger, email, reason)
		return nil, fieldError(foodcart.ErrCodeUnauthorized, "password", "Incorrect password")
	}

	session := foodcart.Session{Email: email, RememberMe: rememberMe}
	if err := foodcart.SaveJSON(ctx, s.blobs, s.config.Keys.CurrentUser(), session); err != nil {
		foodcart.LogPersistenceError(s.logger, s.config.Keys.CurrentUser(), "login", err)
		return nil, err
	}

	foodcart.LogLoginSucceeded(s.logger, email, rememberMe)
	return &session, nil
}

// Logout clears the current session.
func (s *Service) Logout(ctx context.Context) error {
	if err := foodcart.DeleteKey(ctx, s.blobs, s.config.Keys.CurrentUser()); err != nil {
		foodcart.LogPersistenceError(s.logger, s.config.Keys.CurrentUser(), "logout", err)
		return err
	}

	foodcart.LogLoggedOut(s.logger)
	return nil
}

// Current returns the active session, or a NotFound error when nobody is signed in.
func (s *Service) Current(ctx context.Context) (*foodcart.Session, error) {
	key := s.config.Keys.CurrentUser()
	session, found, err := foodcart.LoadJSON[foodcart.Session](ctx, s.blobs, key)
	if err != nil {
		return nil, err
	}
	if !found || session.Email == "" {
		return nil, foodcart.NewStorefrontError(foodcart.ErrCodeNotFound, "Not signed in")
	}
	return &session, nil
}

// InitialRoute picks the first screen: main when a session exists, auth otherwise.
// A session that cannot be read counts as no session.
func (s *Service) InitialRoute(ctx context.Context) Route {
	if _, err := s.Current(ctx); err != nil {
		if !foodcart.IsNotFoundError(err) {
			s.logger.Warn().Err(err).Msg("Could not check session")
		}
		return RouteAuth
	}
	return RouteMain
}

func (s *Service) validate(email, password string) error {
	details := map[string]string{}

	switch {
	case email == "":
		details["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		details["email"] = "Email is invalid"
	}

	switch {
	case password == "":
		details["password"] = "Password is required"
	case len(password) < s.config.MinPasswordLength:
		details["password"] = "Password is too short"
	}

	if len(details) == 0 {
		return nil
	}
	return foodcart.NewStorefrontError(foodcart.ErrCodeValidation, "Please check the form").WithDetails(details)
}

func fieldError(code, field, message string) *foodcart.StorefrontError {
	return foodcart.NewStorefrontError(code, message).WithDetails(map[string]string{field: message})
}
