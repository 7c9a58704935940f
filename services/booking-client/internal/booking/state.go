package booking

import (
	"errors"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

var (
	ErrIncomplete         = errors.New("booking: service, date and time are required")
	ErrSubmitting         = errors.New("booking: submission in progress")
	ErrUnknownSlot        = errors.New("booking: time is not among the available slots")
	ErrUnknownService     = errors.New("booking: unknown service")
	ErrUnknownAppointment = errors.New("booking: appointment not in list")
	ErrNotCancellable     = errors.New("booking: appointment can no longer be cancelled")
	ErrCancelling         = errors.New("booking: cancellation in progress")
)

// Phase is the booking attempt's position in the selection pipeline.
type Phase int

const (
	Idle Phase = iota
	ServiceChosen
	DateChosen
	SlotsLoading
	SlotsReady
	TimeChosen
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ServiceChosen:
		return "service_chosen"
	case DateChosen:
		return "date_chosen"
	case SlotsLoading:
		return "slots_loading"
	case SlotsReady:
		return "slots_ready"
	case TimeChosen:
		return "time_chosen"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// FlowState is a copy of the booking form; mutating it has no effect on the Flow.
type FlowState struct {
	Phase          Phase
	Services       []model.Service
	ServiceID      string
	Date           string
	Time           string
	Notes          string
	AvailableSlots []string
	// SlotError describes a failed availability query for the current pair.
	SlotError string
	// Error is the form-level message: validation, loading or submission failures.
	Error string
}

func (s FlowState) clone() FlowState {
	s.Services = append([]model.Service(nil), s.Services...)
	s.AvailableSlots = append([]string(nil), s.AvailableSlots...)
	return s
}

// Result reports a submission or cancellation. A zero Result means the call was ignored
// because the same operation was already running.
type Result struct {
	Success     bool
	Error       string
	Appointment model.Appointment
}

// slotKey identifies the inputs an availability query was issued for and its place in
// issue order.
type slotKey struct {
	serviceID string
	date      string
	seq       uint64
}
