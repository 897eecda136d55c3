// Package session owns the single source of truth for who is logged in.
// No other component may set the identity; everything else only reads it or
// subscribes to changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/models"
	"github.com/imaxretail/storefront/internal/notify"
	"github.com/imaxretail/storefront/pkg/logging"
)

var ErrValidation = errors.New("validation")

// AuthAPI is the slice of the backend the session store needs.
type AuthAPI interface {
	Me(ctx context.Context) (*models.Identity, error)
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, name, email, password string) (*models.Identity, error)
	Logout(ctx context.Context) error
}

// State is a point-in-time view of the session. Identity nil means
// unauthenticated; Loading is true only until the startup probe settles.
type State struct {
	Identity *models.Identity
	Loading  bool
}

type Store struct {
	authAPI  AuthAPI
	nav      Navigator
	notifier notify.Notifier

	mu       sync.Mutex
	identity *models.Identity
	loading  bool

	nextSubID int
	subs      map[int]func(*models.Identity)
}

// NewStore builds a session store. It starts unauthenticated with the
// loading flag set; call Probe once at startup to settle it.
func NewStore(authAPI AuthAPI, nav Navigator, notifier notify.Notifier) *Store {
	return &Store{
		authAPI:  authAPI,
		nav:      nav,
		notifier: notifier,
		loading:  true,
		subs:     map[int]func(*models.Identity){},
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Identity: s.identity, Loading: s.loading}
}

// Subscribe registers a listener fired on every identity change with the new
// identity (nil on sign-out). Returns an unsubscribe func.
func (s *Store) Subscribe(fn func(*models.Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) setIdentity(identity *models.Identity, loading bool) {
	s.mu.Lock()
	s.identity = identity
	s.loading = loading
	listeners := make([]func(*models.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

// Probe asks the backend who the current session belongs to. "Not logged
// in" is this call's normal negative outcome and is never surfaced to the
// user.
func (s *Store) Probe(ctx context.Context) {
	identity, err := s.authAPI.Me(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug("session_probe_negative", "error", err)
		s.setIdentity(nil, false)
		return
	}
	s.setIdentity(identity, false)
}

// Login submits credentials and, on success, navigates to the dashboard for
// the reported role. On failure the identity is left untouched, the error is
// notified, and it is also returned so the calling form can hold position.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		err := fmt.Errorf("email and password are required: %w", ErrValidation)
		s.notifier.Error(err.Error())
		return err
	}

	identity, err := s.authAPI.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(userMessage(err, "login failed"))
		return err
	}

	s.setIdentity(identity, false)
	s.nav.Navigate(RouteForRole(identity.Role))
	return nil
}

// Register creates an account and always lands on the customer dashboard.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		err := fmt.Errorf("name, email and password are required: %w", ErrValidation)
		s.notifier.Error(err.Error())
		return err
	}

	identity, err := s.authAPI.Register(ctx, name, email, password)
	if err != nil {
		s.notifier.Error(userMessage(err, "registration failed"))
		return err
	}

	s.setIdentity(identity, false)
	s.nav.Navigate(RouteCustomerDashboard)
	return nil
}

// Logout clears the local identity unconditionally and navigates home. The
// backend call is best-effort cleanup: a failed revocation is reported but
// must not leave the UI stuck signed-in.
func (s *Store) Logout(ctx context.Context) {
	if err := s.authAPI.Logout(ctx); err != nil {
		s.notifier.Error(userMessage(err, "logout failed"))
	}
	s.setIdentity(nil, false)
	s.nav.Navigate(RouteHome)
}

func userMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
