package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/booking"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/spf13/cobra"
)

func (c *cli) servicesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the service catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := c.app.api.ListServices(cmd.Context(), !all, "")
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load services"))
			}
			printServices(c.out, services)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include inactive services")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.api.GetService(cmd.Context(), args[0], "")
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load service"))
			}
			fmt.Fprintf(c.out, "%s\n%s\nprice: %.2f\nduration: %d min\n", s.Name, s.Description, s.Price, s.DurationMinutes)
			return nil
		},
	})
	return cmd
}

// selectSlot drives the flow up to the availability answer for service and date.
func (c *cli) selectSlot(cmd *cobra.Command, flow *booking.Flow, serviceID, date string) (booking.FlowState, error) {
	ctx := cmd.Context()
	if err := flow.LoadServices(ctx); err != nil {
		return booking.FlowState{}, errors.New(flow.Snapshot().Error)
	}
	if err := flow.SelectService(ctx, serviceID); err != nil {
		return booking.FlowState{}, selectionErr(flow, err)
	}
	if err := flow.SelectDate(ctx, date); err != nil {
		return booking.FlowState{}, selectionErr(flow, err)
	}
	flow.Wait()
	s := flow.Snapshot()
	if s.SlotError != "" {
		return s, errors.New(s.SlotError)
	}
	return s, nil
}

func selectionErr(flow *booking.Flow, err error) error {
	if msg := flow.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

func (c *cli) slotsCmd() *cobra.Command {
	var serviceID, date string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show free times for a service on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow := booking.NewFlow(c.app.api, c.app.bookingOptions())
			s, err := c.selectSlot(cmd, flow, serviceID, date)
			if err != nil {
				return err
			}
			if len(s.AvailableSlots) == 0 {
				fmt.Fprintf(c.out, "No free times on %s\n", date)
				return nil
			}
			fmt.Fprintln(c.out, strings.Join(s.AvailableSlots, "  "))
			return nil
		},
	}
	cmd.Flags().StringVar(&serviceID, "service", "", "Service ID")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	return routed(cmd, nav.Book)
}

func (c *cli) bookCmd() *cobra.Command {
	var serviceID, date, at, notes string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow := booking.NewFlow(c.app.api, c.app.bookingOptions())
			s, err := c.selectSlot(cmd, flow, serviceID, date)
			if err != nil {
				return err
			}
			if err := flow.SelectTime(at); err != nil {
				if len(s.AvailableSlots) > 0 {
					return fmt.Errorf("%s is not free; choose one of: %s", at, strings.Join(s.AvailableSlots, ", "))
				}
				return fmt.Errorf("no free times on %s", date)
			}
			flow.SetNotes(notes)
			res := flow.Submit(cmd.Context())
			if !res.Success {
				return errors.New(res.Error)
			}
			fmt.Fprintf(c.out, "Booked %s at %s (appointment %s, %s)\n", res.Appointment.Date, res.Appointment.Time, res.Appointment.ID, res.Appointment.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&serviceID, "service", "", "Service ID")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "time", "", "Time (HH:MM)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the stylist")
	return routed(cmd, nav.Book)
}

func (c *cli) appointmentsCmd() *cobra.Command {
	var status string
	var upcoming bool
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List your appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.api.ListMyAppointments(cmd.Context(), gateway.AppointmentFilter{
				Status:   model.Status(status),
				Upcoming: upcoming,
			})
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load appointments"))
			}
			printAppointments(c.out, list, false)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Only future appointments")

	cmd.AddCommand(routed(&cobra.Command{
		Use:   "show ID",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app.api.GetAppointment(cmd.Context(), args[0])
			if err != nil {
				return errors.New(gateway.MessageOf(err, "Failed to load appointment"))
			}
			printAppointments(c.out, []model.Appointment{a}, false)
			if a.Notes != "" {
				fmt.Fprintf(c.out, "notes: %s\n", a.Notes)
			}
			return nil
		},
	}, nav.MyAppointments))
	return routed(cmd, nav.MyAppointments)
}

func (c *cli) cancelCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a pending or confirmed appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cancel := booking.NewCancellation(c.app.api, gateway.AppointmentFilter{}, c.app.bookingOptions())
			if err := cancel.Load(ctx); err != nil {
				return errors.New(cancel.Snapshot().Error)
			}
			if err := cancel.Open(args[0]); err != nil {
				switch {
				case errors.Is(err, booking.ErrNotCancellable):
					return fmt.Errorf("appointment %s can no longer be cancelled", args[0])
				case errors.Is(err, booking.ErrUnknownAppointment):
					return fmt.Errorf("appointment %s not found", args[0])
				}
				return err
			}
			if !yes {
				cancel.Dismiss()
				fmt.Fprintf(c.out, "Cancel appointment %s? Re-run with --yes to confirm.\n", args[0])
				return nil
			}
			res := cancel.Confirm(ctx)
			if !res.Success {
				return errors.New(res.Error)
			}
			fmt.Fprintf(c.out, "Appointment %s cancelled\n", args[0])
			printAppointments(c.out, cancel.Snapshot().Appointments, false)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the cancellation")
	return routed(cmd, nav.MyAppointments)
}
