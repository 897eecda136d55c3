package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/models"
	"github.com/imaxretail/storefront/internal/stubapi/db"
	"github.com/imaxretail/storefront/internal/stubapi/events"
	"github.com/imaxretail/storefront/internal/stubapi/httpserver"
	"github.com/imaxretail/storefront/internal/stubapi/search"
	stubmodels "github.com/imaxretail/storefront/internal/stubapi/models"
)

type testEnv struct {
	T      *testing.T
	Server *httptest.Server
	DB     *gorm.DB
	Seeded []stubmodels.Product
}

var userSeq int

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	seeded, err := db.Seed(database)
	require.NoError(t, err)

	secret := []byte("test-session-secret")
	e := echo.New()
	e.HideBanner = true

	httpserver.Register(e, &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{DB: database, Secret: secret, Producer: events.NewProducer(nil)},
		Cart:    &httpserver.CartHTTP{DB: database, Producer: events.NewProducer(nil)},
		Catalog: &httpserver.CatalogHTTP{DB: database, Search: &search.ProductSearch{DB: database}},
		Orders:  &httpserver.OrderHTTP{DB: database, Producer: events.NewProducer(nil)},
		Support: &httpserver.SupportHTTP{DB: database},
		Secret:  secret,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &testEnv{T: t, Server: srv, DB: database, Seeded: seeded}
}

// newClient builds a real storefront client pointed at the test server,
// with its own cookie jar (its own session).
func (env *testEnv) newClient() *api.Client {
	return api.NewClient(env.Server.URL)
}

// signUp registers a fresh customer and leaves the client's jar holding the
// session cookie.
func (env *testEnv) signUp(client *api.Client) *models.Identity {
	env.T.Helper()

	userSeq++
	email := fmt.Sprintf("user%d@imax.test", userSeq)
	identity, err := client.Register(context.Background(), "Test User", email, "secret123")
	require.NoError(env.T, err)
	return identity
}
