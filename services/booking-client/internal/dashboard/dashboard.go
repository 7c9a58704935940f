// Package dashboard loads the read-only landing views for clients and admins.
package dashboard

import (
	"context"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"golang.org/x/sync/errgroup"
)

type ClientAPI interface {
	ListMyAppointments(ctx context.Context, f gateway.AppointmentFilter) ([]model.Appointment, error)
	ListServices(ctx context.Context, activeOnly bool, lang string) ([]model.Service, error)
}

type AdminAPI interface {
	Stats(ctx context.Context) (model.Stats, error)
	ListAllAppointments(ctx context.Context, f gateway.AppointmentFilter) ([]model.Appointment, error)
	ListServices(ctx context.Context, activeOnly bool, lang string) ([]model.Service, error)
}

type Client struct {
	Upcoming []model.Appointment
	Services []model.Service
}

type Admin struct {
	Stats        model.Stats
	Appointments []model.Appointment
	Services     []model.Service
}

// PendingCount is the number of appointments awaiting confirmation.
func (a Admin) PendingCount() int {
	return a.Stats.ByStatus[model.StatusPending]
}

func LoadClient(ctx context.Context, api ClientAPI, lang string) (Client, error) {
	var out Client
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := api.ListMyAppointments(ctx, gateway.AppointmentFilter{Upcoming: true})
		out.Upcoming = list
		return err
	})
	g.Go(func() error {
		list, err := api.ListServices(ctx, true, lang)
		out.Services = list
		return err
	})
	if err := g.Wait(); err != nil {
		return Client{}, err
	}
	return out, nil
}

// LoadAdmin includes inactive services so they can be managed.
func LoadAdmin(ctx context.Context, api AdminAPI, lang string) (Admin, error) {
	var out Admin
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := api.Stats(ctx)
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		list, err := api.ListAllAppointments(ctx, gateway.AppointmentFilter{})
		out.Appointments = list
		return err
	})
	g.Go(func() error {
		list, err := api.ListServices(ctx, false, lang)
		out.Services = list
		return err
	})
	if err := g.Wait(); err != nil {
		return Admin{}, err
	}
	return out, nil
}
