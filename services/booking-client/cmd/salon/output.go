package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printServices(w io.Writer, services []model.Service) {
	if len(services) == 0 {
		fmt.Fprintln(w, "No services found")
		return
	}
	tw := newTable(w, "ID", "NAME", "PRICE", "MINUTES", "ACTIVE")
	for _, s := range services {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%t\n", s.ID, s.Name, s.Price, s.DurationMinutes, s.Active)
	}
	_ = tw.Flush()
}

func printAppointments(w io.Writer, list []model.Appointment, withClient bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No appointments found")
		return
	}
	header := []string{"ID", "DATE", "TIME", "SERVICE", "STATUS"}
	if withClient {
		header = append(header, "CLIENT")
	}
	tw := newTable(w, header...)
	for _, a := range list {
		service := a.ServiceID
		if a.Service != nil && a.Service.Name != "" {
			service = a.Service.Name
		}
		row := []string{a.ID, a.Date, a.Time, service, string(a.Status)}
		if withClient {
			client := a.ClientID
			if a.Client != nil {
				client = a.Client.Name
			}
			row = append(row, client)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, s model.Stats) {
	fmt.Fprintf(w, "Total appointments: %d\nToday: %d\nNext 7 days: %d\nRevenue: %.2f\n",
		s.TotalAppointments, s.Today, s.UpcomingWeek, s.TotalRevenue)
	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(w, "  %s: %d\n", st, s.ByStatus[model.Status(st)])
	}
}
