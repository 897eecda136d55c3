package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagName     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.session.Login(cmd.Context(), flagEmail, flagPassword); err != nil {
			return err
		}

		identity := a.session.State().Identity
		fmt.Printf("signed in as %s (%s)\n", identity.Name, identity.Role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a customer account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.session.Register(cmd.Context(), flagName, flagEmail, flagPassword); err != nil {
			return err
		}

		identity := a.session.State().Identity
		fmt.Printf("welcome, %s\n", identity.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and drop the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.session.Logout(cmd.Context())
		fmt.Println("signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.session.Probe(cmd.Context())
		identity := a.session.State().Identity
		if identity == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVarP(&flagEmail, "email", "e", "", "account email")
		cmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password")
	}
	registerCmd.Flags().StringVarP(&flagName, "name", "n", "", "display name")
}
