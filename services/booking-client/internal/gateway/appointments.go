package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

// AppointmentFilter maps onto the listing query parameters; zero fields are omitted.
type AppointmentFilter struct {
	Status   model.Status
	Upcoming bool
	Date     string
	ClientID string
}

func (f AppointmentFilter) values(lang string) url.Values {
	q := url.Values{"lang": {lang}}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Upcoming {
		q.Set("upcoming", "true")
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.ClientID != "" {
		q.Set("client_id", f.ClientID)
	}
	return q
}

type appointmentList struct {
	Appointments []model.Appointment `json:"appointments"`
	Count        int                 `json:"count"`
}

type appointmentEnvelope struct {
	Message     string            `json:"message"`
	Appointment model.Appointment `json:"appointment"`
}

// SlotList is the availability answer for one (service, date) pair.
type SlotList struct {
	Date           string   `json:"date"`
	ServiceID      string   `json:"service_id"`
	ServiceName    string   `json:"service_name"`
	AvailableSlots []string `json:"available_slots"`
}

func (c *Client) ListMyAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	var out appointmentList
	err := c.do(ctx, call{method: http.MethodGet, path: "/appointments", query: f.values(c.lang)}, &out)
	return out.Appointments, err
}

func (c *Client) ListAllAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	var out appointmentList
	err := c.do(ctx, call{method: http.MethodGet, path: "/appointments/admin", query: f.values(c.lang)}, &out)
	return out.Appointments, err
}

func (c *Client) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	var out appointmentEnvelope
	q := url.Values{"lang": {c.lang}}
	err := c.do(ctx, call{method: http.MethodGet, path: "/appointments/" + url.PathEscape(id), query: q}, &out)
	return out.Appointment, err
}

func (c *Client) AvailableSlots(ctx context.Context, serviceID, date string) (SlotList, error) {
	var out SlotList
	q := url.Values{"service_id": {serviceID}, "date": {date}}
	err := c.do(ctx, call{method: http.MethodGet, path: "/appointments/available-slots", query: q}, &out)
	return out, err
}

// CreateAppointment submits a booking. idempotencyKey lets the backend collapse retries of
// the same attempt; it is omitted when empty.
func (c *Client) CreateAppointment(ctx context.Context, req model.NewAppointment, idempotencyKey string) (model.Appointment, error) {
	var out appointmentEnvelope
	h := http.Header{}
	if idempotencyKey != "" {
		h.Set("Idempotency-Key", idempotencyKey)
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/appointments", body: req, header: h}, &out)
	return out.Appointment, err
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error) {
	var out appointmentEnvelope
	err := c.do(ctx, call{method: http.MethodPut, path: "/appointments/" + url.PathEscape(id), body: patch}, &out)
	return out.Appointment, err
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/appointments/" + url.PathEscape(id)}, nil)
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, call{method: http.MethodGet, path: "/appointments/stats"}, &out)
	return out, err
}
