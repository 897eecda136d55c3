package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.cart.Fetch(cmd.Context())
		state := a.cart.State()
		if state.Snapshot == nil || len(state.Snapshot.Items) == 0 {
			fmt.Println("cart is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE\tID")
		for _, line := range state.Snapshot.Items {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\n", line.Product.Name, line.Quantity, line.Product.Price, line.Product.ID)
		}
		fmt.Fprintf(w, "\t\t\t\n")
		fmt.Fprintf(w, "items: %d\tsubtotal: %.2f\ttax: %.2f\ttotal: %.2f\n",
			state.ItemCount, state.Snapshot.Subtotal, state.Snapshot.Tax, state.Snapshot.Total)
		return w.Flush()
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		qty := 1
		if len(args) == 2 {
			qty, err = strconv.Atoi(args[1])
			if err != nil || qty < 1 {
				return fmt.Errorf("quantity must be a positive number")
			}
		}
		return a.cart.Add(cmd.Context(), args[0], qty)
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		qty, err := strconv.Atoi(args[1])
		if err != nil || qty < 1 {
			return fmt.Errorf("quantity must be a positive number")
		}
		return a.cart.Update(cmd.Context(), args[0], qty)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.cart.Remove(cmd.Context(), args[0])
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.cart.Clear(cmd.Context())
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
}
