package main

import (
	"errors"
	"fmt"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/dashboard"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/spf13/cobra"
)

func (c *cli) dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Your upcoming appointments and the current catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dashboard.LoadClient(cmd.Context(), c.app.api, c.cfg.Lang)
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load dashboard"))
			}
			fmt.Fprintln(c.out, "Upcoming appointments")
			printAppointments(c.out, d.Upcoming, false)
			fmt.Fprintln(c.out, "\nServices")
			printServices(c.out, d.Services)
			return nil
		},
	}
	return routed(cmd, nav.Dashboard)
}

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Salon administration",
	}

	var status, date, clientID string
	list := &cobra.Command{
		Use:   "appointments",
		Short: "List every client's appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, err := c.app.api.ListAllAppointments(cmd.Context(), gateway.AppointmentFilter{
				Status:   model.Status(status),
				Date:     date,
				ClientID: clientID,
			})
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load appointments"))
			}
			printAppointments(c.out, appts, true)
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status")
	list.Flags().StringVar(&date, "date", "", "Filter by date (YYYY-MM-DD)")
	list.Flags().StringVar(&clientID, "client", "", "Filter by client ID")

	var notes string
	setStatus := &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Move an appointment to pending, confirmed, completed or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := model.AppointmentPatch{Status: model.Status(args[1])}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			a, err := c.app.api.UpdateAppointment(cmd.Context(), args[0], patch)
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to update appointment"))
			}
			fmt.Fprintf(c.out, "Appointment %s is now %s\n", a.ID, a.Status)
			return nil
		},
	}
	setStatus.Flags().StringVar(&notes, "notes", "", "Replace the appointment notes")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.api.DeleteAppointment(cmd.Context(), args[0]); err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to delete appointment"))
			}
			fmt.Fprintf(c.out, "Appointment %s deleted\n", args[0])
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Booking statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.api.Stats(cmd.Context())
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load statistics"))
			}
			printStats(c.out, s)
			return nil
		},
	}

	services := &cobra.Command{
		Use:   "services",
		Short: "List all services, including inactive ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.api.ListServices(cmd.Context(), false, "")
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load services"))
			}
			printServices(c.out, list)
			return nil
		},
	}

	board := &cobra.Command{
		Use:   "dashboard",
		Short: "Statistics, appointments and services at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dashboard.LoadAdmin(cmd.Context(), c.app.api, c.cfg.Lang)
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load dashboard"))
			}
			printStats(c.out, d.Stats)
			fmt.Fprintf(c.out, "\nAppointments (%d awaiting confirmation)\n", d.PendingCount())
			printAppointments(c.out, d.Appointments, true)
			fmt.Fprintln(c.out, "\nServices")
			printServices(c.out, d.Services)
			return nil
		},
	}

	cmd.AddCommand(
		routed(list, nav.AdminAppointments),
		routed(setStatus, nav.AdminAppointments),
		routed(remove, nav.AdminAppointments),
		routed(stats, nav.Admin),
		routed(services, nav.AdminServices),
		routed(board, nav.Admin),
	)
	return cmd
}
