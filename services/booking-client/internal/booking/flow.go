// Package booking drives the service, date and time selection pipeline, the booking
// submission and the cancellation confirmation.
package booking

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/salonbook/libs/runtime"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/events"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/validate"
)

const (
	msgServicesFailed = "Failed to load services"
	msgSlotsFailed    = "Failed to load available slots"
	msgBookFailed     = "Failed to book appointment"
	msgIncomplete     = "Please select a service, date and time"
	msgUnknownSlot    = "Selected time is not available"
	msgUnknownService = "Selected service is not available"
)

type API interface {
	ListServices(ctx context.Context, activeOnly bool, lang string) ([]model.Service, error)
	AvailableSlots(ctx context.Context, serviceID, date string) (gateway.SlotList, error)
	CreateAppointment(ctx context.Context, req model.NewAppointment, idempotencyKey string) (model.Appointment, error)
}

type Options struct {
	Navigator nav.Navigator
	Publisher events.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
	// Lang selects the service catalogue language; empty uses the gateway default.
	Lang string
}

func (o Options) withDefaults() Options {
	if o.Navigator == nil {
		o.Navigator = nav.Discard
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = runtime.DiscardLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Flow struct {
	api  API
	opts Options

	mu    sync.Mutex
	state FlowState
	// attemptKey is the Idempotency-Key for the current selection; retries reuse it.
	attemptKey string
	// slotSeq numbers availability queries; only the newest may land.
	slotSeq uint64

	inflight sync.WaitGroup
}

func NewFlow(api API, opts Options) *Flow {
	return &Flow{api: api, opts: opts.withDefaults()}
}

func (f *Flow) Snapshot() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// Wait blocks until every dispatched availability query has settled.
func (f *Flow) Wait() {
	f.inflight.Wait()
}

// LoadServices fetches the active catalogue. The current selection is left alone.
func (f *Flow) LoadServices(ctx context.Context) error {
	services, err := f.api.ListServices(ctx, true, f.opts.Lang)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.opts.Logger.Warn("load services failed", "err", err)
		f.state.Error = msgServicesFailed
		return err
	}
	f.state.Services = services
	if f.state.Error == msgServicesFailed {
		f.state.Error = ""
	}
	return nil
}

func (f *Flow) SelectService(ctx context.Context, serviceID string) error {
	serviceID = strings.TrimSpace(serviceID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Phase == Submitting {
		return ErrSubmitting
	}
	if serviceID == "" || (len(f.state.Services) > 0 && !f.knownServiceLocked(serviceID)) {
		f.state.Error = msgUnknownService
		return ErrUnknownService
	}
	f.state.ServiceID = serviceID
	f.resetSelectionLocked(ctx)
	return nil
}

func (f *Flow) knownServiceLocked(id string) bool {
	return slices.ContainsFunc(f.state.Services, func(s model.Service) bool { return s.ID == id })
}

// SelectDate accepts YYYY-MM-DD dates from today on. An invalid date changes nothing and
// issues no query.
func (f *Flow) SelectDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Phase == Submitting {
		return ErrSubmitting
	}
	if msg := validate.Date(date, f.opts.Now()); msg != "" {
		f.state.Error = msg
		return validationError(msg)
	}
	f.state.Date = date
	f.resetSelectionLocked(ctx)
	return nil
}

// resetSelectionLocked drops the time and slot list derived from the previous pair and,
// once both inputs are set, queries availability for the new one.
func (f *Flow) resetSelectionLocked(ctx context.Context) {
	f.state.Time = ""
	f.state.AvailableSlots = nil
	f.state.SlotError = ""
	f.state.Error = ""
	f.attemptKey = ""

	switch {
	case f.state.ServiceID != "" && f.state.Date != "":
		f.state.Phase = SlotsLoading
		f.querySlotsLocked(ctx, slotKey{serviceID: f.state.ServiceID, date: f.state.Date})
	case f.state.Date != "":
		f.state.Phase = DateChosen
	case f.state.ServiceID != "":
		f.state.Phase = ServiceChosen
	default:
		f.state.Phase = Idle
	}
}

func (f *Flow) querySlotsLocked(ctx context.Context, key slotKey) {
	f.slotSeq++
	key.seq = f.slotSeq
	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()
		list, err := f.api.AvailableSlots(ctx, key.serviceID, key.date)
		f.applySlots(key, list.AvailableSlots, err)
	}()
}

// applySlots installs a query result only if it is the newest query issued and the flow
// is still waiting on it. A reselected pair makes earlier queries for it stale too.
func (f *Flow) applySlots(key slotKey, slots []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := slotKey{serviceID: f.state.ServiceID, date: f.state.Date, seq: f.slotSeq}
	if current != key || f.state.Phase != SlotsLoading {
		f.opts.Logger.Debug("dropping stale slot result", "service_id", key.serviceID, "date", key.date)
		return
	}
	f.state.Phase = SlotsReady
	if err != nil {
		f.opts.Logger.Warn("load slots failed", "service_id", key.serviceID, "date", key.date, "err", err)
		f.state.AvailableSlots = nil
		f.state.SlotError = gateway.MessageOf(err, msgSlotsFailed)
		return
	}
	f.state.AvailableSlots = append([]string(nil), slots...)
}

func (f *Flow) SelectTime(t string) error {
	t = strings.TrimSpace(t)
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state.Phase {
	case SlotsReady, TimeChosen:
	case Submitting:
		return ErrSubmitting
	default:
		f.state.Error = msgUnknownSlot
		return ErrUnknownSlot
	}
	if !slices.Contains(f.state.AvailableSlots, t) {
		f.state.Error = msgUnknownSlot
		return ErrUnknownSlot
	}
	if f.state.Time != t {
		f.attemptKey = ""
	}
	f.state.Time = t
	f.state.Error = ""
	f.state.Phase = TimeChosen
	return nil
}

func (f *Flow) SetNotes(notes string) {
	f.mu.Lock()
	f.state.Notes = strings.TrimSpace(notes)
	f.mu.Unlock()
}

// Reset abandons the attempt. The catalogue is kept and in-flight queries become stale.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Phase == Submitting {
		return
	}
	f.state = FlowState{Services: f.state.Services}
	f.attemptKey = ""
}

// Submit books the selected slot. A call made while a submission is running is ignored and
// returns a zero Result.
func (f *Flow) Submit(ctx context.Context) Result {
	f.mu.Lock()
	if f.state.Phase == Submitting {
		f.mu.Unlock()
		return Result{}
	}
	if f.state.Phase != TimeChosen || f.state.ServiceID == "" || f.state.Date == "" || f.state.Time == "" {
		f.state.Error = msgIncomplete
		f.mu.Unlock()
		return Result{Error: msgIncomplete}
	}
	if f.attemptKey == "" {
		f.attemptKey = uuid.NewString()
	}
	key := f.attemptKey
	req := model.NewAppointment{
		ServiceID: f.state.ServiceID,
		Date:      f.state.Date,
		Time:      f.state.Time,
		Notes:     f.state.Notes,
	}
	f.state.Phase = Submitting
	f.state.Error = ""
	f.mu.Unlock()

	appt, err := f.api.CreateAppointment(ctx, req, key)

	f.mu.Lock()
	if err != nil {
		f.state.Phase = TimeChosen
		f.state.Error = gateway.MessageOf(err, msgBookFailed)
		msg := f.state.Error
		f.mu.Unlock()
		f.opts.Logger.Warn("booking failed", "service_id", req.ServiceID, "date", req.Date, "time", req.Time, "err", err)
		return Result{Error: msg}
	}
	f.state = FlowState{Services: f.state.Services}
	f.attemptKey = ""
	f.mu.Unlock()

	f.opts.Logger.Info("appointment booked", "appointment_id", appt.ID, "service_id", req.ServiceID)
	events.Emit(ctx, f.opts.Publisher, f.opts.Logger, events.TypeAppointmentBooked, appt.ID, map[string]string{
		"appointment_id": appt.ID,
		"service_id":     req.ServiceID,
		"date":           req.Date,
		"time":           req.Time,
	})
	f.opts.Navigator.Navigate(nav.Dashboard)
	return Result{Success: true, Appointment: appt}
}

type validationError string

func (e validationError) Error() string { return string(e) }
