package booking

import (
	"context"
	"sync"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/events"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

const (
	msgAppointmentsFailed = "Failed to load appointments"
	msgCancelFailed       = "Failed to cancel appointment"
)

type CancelAPI interface {
	ListMyAppointments(ctx context.Context, f gateway.AppointmentFilter) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error)
}

type ModalPhase int

const (
	ModalClosed ModalPhase = iota
	ModalOpen
	Cancelling
)

func (p ModalPhase) String() string {
	switch p {
	case ModalClosed:
		return "closed"
	case ModalOpen:
		return "open"
	case Cancelling:
		return "cancelling"
	}
	return "unknown"
}

type CancelState struct {
	Phase         ModalPhase
	AppointmentID string
	Appointments  []model.Appointment
	Error         string
}

// Cancellation is the "my appointments" list with its confirm-to-cancel modal. The list is
// only ever replaced by a fresh server listing, never edited locally.
type Cancellation struct {
	api    CancelAPI
	filter gateway.AppointmentFilter
	opts   Options

	mu    sync.Mutex
	state CancelState
}

func NewCancellation(api CancelAPI, filter gateway.AppointmentFilter, opts Options) *Cancellation {
	return &Cancellation{api: api, filter: filter, opts: opts.withDefaults()}
}

func (c *Cancellation) Snapshot() CancelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Appointments = append([]model.Appointment(nil), s.Appointments...)
	return s
}

// Load refetches the list. On failure the last list that loaded stays in place.
func (c *Cancellation) Load(ctx context.Context) error {
	list, err := c.api.ListMyAppointments(ctx, c.filter)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.opts.Logger.Warn("load appointments failed", "err", err)
		c.state.Error = gateway.MessageOf(err, msgAppointmentsFailed)
		return err
	}
	c.state.Appointments = list
	c.state.Error = ""
	return nil
}

// Open asks for confirmation to cancel id, which must be a listed pending or confirmed
// appointment.
func (c *Cancellation) Open(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == Cancelling {
		return ErrCancelling
	}
	for _, a := range c.state.Appointments {
		if a.ID != id {
			continue
		}
		if !a.Cancellable() {
			return ErrNotCancellable
		}
		c.state.Phase = ModalOpen
		c.state.AppointmentID = id
		c.state.Error = ""
		return nil
	}
	return ErrUnknownAppointment
}

func (c *Cancellation) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != ModalOpen {
		return
	}
	c.state.Phase = ModalClosed
	c.state.AppointmentID = ""
}

// Confirm requests the cancellation. The modal closes whatever the outcome; the list is
// refetched only after a successful request. A call without an open modal returns a zero
// Result.
func (c *Cancellation) Confirm(ctx context.Context) Result {
	c.mu.Lock()
	if c.state.Phase != ModalOpen {
		c.mu.Unlock()
		return Result{}
	}
	id := c.state.AppointmentID
	c.state.Phase = Cancelling
	c.mu.Unlock()

	appt, err := c.api.UpdateAppointment(ctx, id, model.AppointmentPatch{Status: model.StatusCancelled})

	c.mu.Lock()
	c.state.Phase = ModalClosed
	c.state.AppointmentID = ""
	if err != nil {
		c.state.Error = gateway.MessageOf(err, msgCancelFailed)
		msg := c.state.Error
		c.mu.Unlock()
		c.opts.Logger.Warn("cancel appointment failed", "appointment_id", id, "err", err)
		return Result{Error: msg}
	}
	c.mu.Unlock()

	c.opts.Logger.Info("appointment cancelled", "appointment_id", id)
	events.Emit(ctx, c.opts.Publisher, c.opts.Logger, events.TypeAppointmentCancelled, id, map[string]string{
		"appointment_id": id,
	})
	// A failed refetch keeps the last good list; the cancellation itself went through.
	_ = c.Load(ctx)
	return Result{Success: true, Appointment: appt}
}
