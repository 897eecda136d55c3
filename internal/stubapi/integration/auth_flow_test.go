package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/models"
)

func TestRegisterLoginProbe(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	identity := env.signUp(client)
	assert.Equal(t, models.RoleCustomer, identity.Role)
	assert.NotEmpty(t, identity.ID)

	// The registration response set the session cookie; the probe sees it.
	probed, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, probed.ID)
	assert.Equal(t, identity.Email, probed.Email)

	// A separate client has its own jar and is anonymous.
	other := env.newClient()
	_, err = other.Me(ctx)
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)

	// Fresh login from the anonymous client.
	logged, err := other.Login(ctx, identity.Email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, logged.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	identity := env.signUp(client)

	_, err := env.newClient().Login(ctx, identity.Email, "wrong-password")
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "invalid email or password", apiErr.Message)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	identity := env.signUp(client)

	_, err := env.newClient().Register(ctx, "Imposter", identity.Email, "secret123")
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Message)
}

func TestLogoutDropsSession(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	require.NoError(t, client.Logout(ctx))

	_, err := client.Me(ctx)
	require.Error(t, err, "a probe after logout must be rejected")
}
