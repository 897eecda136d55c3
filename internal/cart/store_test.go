package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/models"
	"github.com/imaxretail/storefront/internal/session"
)

type fakeCartAPI struct {
	cart *models.Cart
	err  error

	getCalls int

	// onCall lets a test observe store state mid-flight.
	onCall func()
}

func (f *fakeCartAPI) respond() (*models.Cart, error) {
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

func (f *fakeCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	f.getCalls++
	return f.respond()
}

func (f *fakeCartAPI) AddItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return f.respond()
}

func (f *fakeCartAPI) UpdateItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return f.respond()
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, productID string) (*models.Cart, error) {
	return f.respond()
}

func (f *fakeCartAPI) ClearCart(ctx context.Context) (*models.Cart, error) {
	return f.respond()
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func cartOf(quantities ...int) *models.Cart {
	c := &models.Cart{}
	for i, q := range quantities {
		c.Items = append(c.Items, models.CartLine{
			Product:  models.Product{ID: string(rune('a' + i)), Price: 10},
			Quantity: q,
		})
	}
	return c
}

func TestStore_ItemCountDerivedFromSnapshot(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf(2, 3, 1)}
	store := NewStore(cartAPI, &recordingNotifier{})

	store.Fetch(context.Background())

	state := store.State()
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, 6, state.ItemCount)
	assert.Equal(t, state.Snapshot.ItemCount(), state.ItemCount)

	// Every settled mutation re-derives the count from the new snapshot.
	cartAPI.cart = cartOf(5)
	require.NoError(t, store.Add(context.Background(), "a", 1))
	assert.Equal(t, 5, store.State().ItemCount)

	cartAPI.cart = cartOf()
	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, 0, store.State().ItemCount)
}

func TestStore_SnapshotIsReplacedNotMerged(t *testing.T) {
	t.Parallel()

	// Locally the cart holds 1 unit; a naive merge after Add(+1) would show
	// 2. The server clamps to stock and returns 7 of a different product
	// mix; the store must reflect the server, not the merge.
	cartAPI := &fakeCartAPI{cart: cartOf(1)}
	store := NewStore(cartAPI, &recordingNotifier{})
	store.Fetch(context.Background())
	require.Equal(t, 1, store.State().ItemCount)

	serverCart := cartOf(4, 3)
	serverCart.Subtotal = 70
	serverCart.Tax = 5.6
	serverCart.Total = 75.6
	cartAPI.cart = serverCart

	require.NoError(t, store.Add(context.Background(), "a", 1))

	state := store.State()
	assert.Same(t, serverCart, state.Snapshot)
	assert.Equal(t, 7, state.ItemCount)
	assert.InDelta(t, 75.6, state.Snapshot.Total, 0.001)
}

func TestStore_MutationFailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf(2)}
	notifier := &recordingNotifier{}
	store := NewStore(cartAPI, notifier)
	store.Fetch(context.Background())

	before := store.State().Snapshot
	cartAPI.err = &api.APIError{Status: 409, Message: "product is out of stock"}

	err := store.Add(context.Background(), "a", 99)
	require.Error(t, err)

	state := store.State()
	assert.Same(t, before, state.Snapshot, "failed mutation must not touch the snapshot")
	assert.Equal(t, 2, state.ItemCount)
	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "product is out of stock", notifier.errors[0])
}

func TestStore_GenericMessageWhenServerGivesNone(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{err: context.DeadlineExceeded}
	notifier := &recordingNotifier{}
	store := NewStore(cartAPI, notifier)

	_ = store.Remove(context.Background(), "a")
	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "could not remove item", notifier.errors[0])
}

func TestStore_BusyDuringMutationAndClearedAfter(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf(1)}
	store := NewStore(cartAPI, &recordingNotifier{})

	var busyMidFlight bool
	cartAPI.onCall = func() { busyMidFlight = store.State().Busy }

	require.NoError(t, store.Add(context.Background(), "a", 1))
	assert.True(t, busyMidFlight, "busy must be visible while the request is in flight")
	assert.False(t, store.State().Busy)

	// Failure path clears it too.
	cartAPI.err = &api.APIError{Status: 500, Message: "boom"}
	_ = store.Update(context.Background(), "a", 2)
	assert.False(t, store.State().Busy)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf()}
	store := NewStore(cartAPI, &recordingNotifier{})

	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, 0, store.State().ItemCount)

	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, 0, store.State().ItemCount)
}

func TestStore_SuccessNotifications(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf(1)}
	notifier := &recordingNotifier{}
	store := NewStore(cartAPI, notifier)

	require.NoError(t, store.Add(context.Background(), "a", 1))
	require.NoError(t, store.Update(context.Background(), "a", 2))
	require.NoError(t, store.Remove(context.Background(), "a"))
	require.NoError(t, store.Clear(context.Background()))

	assert.Equal(t, []string{"Added to cart", "Cart updated", "Item removed", "Cart cleared"}, notifier.successes)
}

type fakeAuthAPI struct {
	identity *models.Identity
	loginErr error
}

func (f *fakeAuthAPI) Me(ctx context.Context) (*models.Identity, error) {
	return nil, &api.APIError{Status: 401, Message: "not authenticated"}
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	return f.identity, f.loginErr
}

func (f *fakeAuthAPI) Register(ctx context.Context, name, email, password string) (*models.Identity, error) {
	return f.identity, nil
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error { return nil }

type nopNav struct{}

func (nopNav) Navigate(session.Route) {}

func TestStore_AuthGating(t *testing.T) {
	t.Parallel()

	cartAPI := &fakeCartAPI{cart: cartOf(2)}
	store := NewStore(cartAPI, &recordingNotifier{})

	sess := session.NewStore(
		&fakeAuthAPI{identity: &models.Identity{ID: "u1", Role: models.RoleCustomer}},
		nopNav{},
		&recordingNotifier{},
	)
	unbind := store.BindSession(sess)
	defer unbind()

	// Unauthenticated: no cart traffic at all.
	assert.Equal(t, 0, cartAPI.getCalls)
	assert.Nil(t, store.State().Snapshot)

	// Login triggers exactly one eager fetch.
	require.NoError(t, sess.Login(context.Background(), "a@b.com", "secret"))
	assert.Equal(t, 1, cartAPI.getCalls)
	assert.Equal(t, 2, store.State().ItemCount)
	assert.Equal(t, models.RoleCustomer, sess.State().Identity.Role)

	// Logout resets the cart to empty.
	sess.Logout(context.Background())
	state := store.State()
	require.NotNil(t, state.Snapshot)
	assert.Empty(t, state.Snapshot.Items)
	assert.Equal(t, 0, state.ItemCount)
}
