// Package cart owns the authoritative cart snapshot and its derived item
// count. Every mutation round-trips to the backend and replaces the
// snapshot wholesale with the server's response; nothing is merged or
// repriced locally, so the server stays the single source of truth for
// every derived cart field.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/models"
	"github.com/imaxretail/storefront/internal/notify"
	"github.com/imaxretail/storefront/pkg/logging"
)

// CartAPI is the slice of the backend the cart store needs.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// AuthSignal is the session store surface the cart store binds to.
type AuthSignal interface {
	Subscribe(fn func(*models.Identity)) func()
}

// State is a point-in-time view of the cart. ItemCount is always the sum of
// line quantities in Snapshot; it is derived in one place and never settable.
type State struct {
	Snapshot  *models.Cart
	ItemCount int
	Busy      bool
}

type Store struct {
	cartAPI  CartAPI
	notifier notify.Notifier

	// opMu serializes mutations: one in-flight operation per store, so two
	// rapid calls cannot race at the network layer and the last response to
	// arrive is always the last operation issued.
	opMu sync.Mutex

	mu        sync.Mutex
	snapshot  *models.Cart
	itemCount int
	busy      bool

	nextSubID int
	subs      map[int]func(State)
}

func NewStore(cartAPI CartAPI, notifier notify.Notifier) *Store {
	return &Store{
		cartAPI:  cartAPI,
		notifier: notifier,
		subs:     map[int]func(State){},
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Snapshot: s.snapshot, ItemCount: s.itemCount, Busy: s.busy}
}

func (s *Store) Subscribe(fn func(State)) func() {
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

// BindSession ties the cart lifecycle to the auth signal: identity present
// triggers one eager fetch, identity lost resets to empty. Returns the
// unsubscribe func.
func (s *Store) BindSession(auth AuthSignal) func() {
	return auth.Subscribe(func(identity *models.Identity) {
		if identity == nil {
			s.Reset()
			return
		}
		s.Fetch(context.Background())
	})
}

// setSnapshot is the only write path for the snapshot; the item count is
// recomputed here and nowhere else.
func (s *Store) setSnapshot(snap *models.Cart) {
	s.mu.Lock()
	s.snapshot = snap
	s.itemCount = snap.ItemCount()
	state := State{Snapshot: s.snapshot, ItemCount: s.itemCount, Busy: s.busy}
	listeners := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (s *Store) setBusy(v bool) {
	s.mu.Lock()
	s.busy = v
	s.mu.Unlock()
}

// Fetch loads the snapshot from the backend. Failure is non-fatal: the
// prior state (possibly empty) stands and nothing is shown to the user.
func (s *Store) Fetch(ctx context.Context) {
	snap, err := s.cartAPI.GetCart(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("cart_fetch_failed", "error", err)
		return
	}
	s.setSnapshot(snap)
}

// Reset drops the cart to its pre-auth empty state.
func (s *Store) Reset() {
	s.setSnapshot(&models.Cart{})
}

// mutate runs one serialized cart operation. The busy flag is visible to
// the view for the whole round trip and is cleared however the call ends;
// the snapshot is only replaced on success.
func (s *Store) mutate(ctx context.Context, successMsg, fallbackMsg string, op func(context.Context) (*models.Cart, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setBusy(true)
	defer s.setBusy(false)

	snap, err := op(ctx)
	if err != nil {
		s.notifier.Error(userMessage(err, fallbackMsg))
		return err
	}

	s.setSnapshot(snap)
	s.notifier.Success(successMsg)
	return nil
}

func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "Added to cart", "could not add item to cart", func(ctx context.Context) (*models.Cart, error) {
		return s.cartAPI.AddItem(ctx, productID, quantity)
	})
}

func (s *Store) Update(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "Cart updated", "could not update cart", func(ctx context.Context) (*models.Cart, error) {
		return s.cartAPI.UpdateItem(ctx, productID, quantity)
	})
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, "Item removed", "could not remove item", func(ctx context.Context) (*models.Cart, error) {
		return s.cartAPI.RemoveItem(ctx, productID)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "Cart cleared", "could not clear cart", func(ctx context.Context) (*models.Cart, error) {
		return s.cartAPI.ClearCart(ctx)
	})
}

func userMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
