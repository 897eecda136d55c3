// Command imax is a terminal client for the IMAX storefront backend: sign
// in, browse the catalog, manage the cart, place orders, book repair
// appointments and open support tickets.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/cart"
	"github.com/imaxretail/storefront/internal/notify"
	"github.com/imaxretail/storefront/internal/session"
	"github.com/imaxretail/storefront/pkg/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "imax",
	Short:         "IMAX storefront terminal client",
	Long:          "Shop the IMAX computer-repair store from the terminal: catalog, cart, orders, repair appointments and support tickets.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Auth
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Shopping
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(ordersCmd)

	// Service desk
	rootCmd.AddCommand(appointmentsCmd)
	rootCmd.AddCommand(ticketsCmd)
}

// app wires one CLI invocation: a cookie jar persisted across runs, the
// HTTP client, and the two stores.
type app struct {
	client  *api.Client
	jar     *api.FileJar
	session *session.Store
	cart    *cart.Store
}

// consoleNavigator renders store navigation as a printed destination; the
// terminal has no router to drive.
type consoleNavigator struct{}

func (consoleNavigator) Navigate(r session.Route) {
	fmt.Printf("-> %s\n", r)
}

func newApp() (*app, error) {
	cfg := config.Load()

	jarPath, err := cookieJarPath()
	if err != nil {
		return nil, err
	}
	jar, err := api.NewFileJar(jarPath, cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("open cookie jar: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, api.WithHTTPClient(&http.Client{
		Jar:     jar,
		Timeout: 15 * time.Second,
	}))

	notifier := notify.Console{}
	sess := session.NewStore(client, consoleNavigator{}, notifier)
	crt := cart.NewStore(client, notifier)

	return &app{client: client, jar: jar, session: sess, cart: crt}, nil
}

// close persists the session cookie for the next invocation.
func (a *app) close() {
	if err := a.jar.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save session: %v\n", err)
	}
}

func cookieJarPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "imax", "cookies.json"), nil
}
