package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/imaxretail/storefront/internal/api"
)

var (
	flagCategory string
	flagPage     int
	flagLimit    int

	flagService string
	flagDevice  string
	flagNotes   string
	flagAt      string

	flagSubject  string
	flagMessage  string
	flagPriority string
)

var productsCmd = &cobra.Command{
	Use:   "products [search]",
	Short: "Browse the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		q := api.ProductQuery{Category: flagCategory, Page: flagPage, Limit: flagLimit}
		if len(args) == 1 {
			q.Search = args[0]
		}

		products, total, err := a.client.Products(cmd.Context(), q)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tBRAND\tCATEGORY\tPRICE\tSTOCK\tID")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n", p.Name, p.Brand, p.Category, p.Price, p.Stock, p.ID)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d products\n", len(products), total)
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders and check out",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		orders, err := a.client.Orders(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("no orders yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PLACED\tSTATUS\tITEMS\tTOTAL\tID")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", o.CreatedAt.Format("2006-01-02 15:04"), o.Status, len(o.Items), o.Total, o.ID)
		}
		return w.Flush()
	},
}

var ordersCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		order, err := a.client.Checkout(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %.2f\n", order.ID, order.Total)
		return nil
	},
}

var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Book and list repair appointments",
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		appts, err := a.client.Appointments(cmd.Context())
		if err != nil {
			return err
		}
		if len(appts) == 0 {
			fmt.Println("no appointments")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSERVICE\tDEVICE\tSTATUS")
		for _, ap := range appts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ap.ScheduledAt.Format("2006-01-02 15:04"), ap.Service, ap.DeviceInfo, ap.Status)
		}
		return w.Flush()
	},
}

var appointmentsBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a repair appointment",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		when, err := time.Parse(time.RFC3339, flagAt)
		if err != nil {
			return fmt.Errorf("--at must be RFC3339, e.g. 2026-09-01T14:00:00Z")
		}

		appt, err := a.client.BookAppointment(cmd.Context(), api.AppointmentRequest{
			Service:     flagService,
			DeviceInfo:  flagDevice,
			Notes:       flagNotes,
			ScheduledAt: when,
		})
		if err != nil {
			return err
		}
		fmt.Printf("booked %s for %s\n", appt.Service, appt.ScheduledAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Open and list support tickets",
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		tickets, err := a.client.Tickets(cmd.Context())
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			fmt.Println("no tickets")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "OPENED\tPRIORITY\tSTATUS\tSUBJECT")
		for _, tk := range tickets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tk.CreatedAt.Format("2006-01-02"), tk.Priority, tk.Status, tk.Subject)
		}
		return w.Flush()
	},
}

var ticketsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a support ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ticket, err := a.client.OpenTicket(cmd.Context(), api.TicketRequest{
			Subject:     flagSubject,
			Description: flagMessage,
			Priority:    flagPriority,
		})
		if err != nil {
			return err
		}
		fmt.Printf("ticket %s opened\n", ticket.ID)
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVar(&flagCategory, "category", "", "filter by category")
	productsCmd.Flags().IntVar(&flagPage, "page", 1, "page number")
	productsCmd.Flags().IntVar(&flagLimit, "limit", 20, "page size")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersCheckoutCmd)

	appointmentsCmd.AddCommand(appointmentsListCmd)
	appointmentsCmd.AddCommand(appointmentsBookCmd)
	appointmentsBookCmd.Flags().StringVar(&flagService, "service", "", "service requested, e.g. screen-replacement")
	appointmentsBookCmd.Flags().StringVar(&flagDevice, "device", "", "device make and model")
	appointmentsBookCmd.Flags().StringVar(&flagNotes, "notes", "", "extra notes for the technician")
	appointmentsBookCmd.Flags().StringVar(&flagAt, "at", "", "slot start time (RFC3339)")

	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsOpenCmd)
	ticketsOpenCmd.Flags().StringVar(&flagSubject, "subject", "", "ticket subject")
	ticketsOpenCmd.Flags().StringVar(&flagMessage, "message", "", "problem description")
	ticketsOpenCmd.Flags().StringVar(&flagPriority, "priority", "normal", "low, normal or high")
}
