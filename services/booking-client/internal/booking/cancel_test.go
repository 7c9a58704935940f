package booking

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/stretchr/testify/require"
)

type cancelAPI struct {
	lists     [][]model.Appointment
	listErrs  []error
	listCalls int
	updateErr error
	updated   []model.AppointmentPatch
}

func (a *cancelAPI) ListMyAppointments(context.Context, gateway.AppointmentFilter) ([]model.Appointment, error) {
	i := a.listCalls
	a.listCalls++
	if i < len(a.listErrs) && a.listErrs[i] != nil {
		return nil, a.listErrs[i]
	}
	return a.lists[min(i, len(a.lists)-1)], nil
}

func (a *cancelAPI) UpdateAppointment(_ context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error) {
	a.updated = append(a.updated, patch)
	if a.updateErr != nil {
		return model.Appointment{}, a.updateErr
	}
	return model.Appointment{ID: id, Status: patch.Status}, nil
}

var initialList = []model.Appointment{
	{ID: "A1", Status: model.StatusPending},
	{ID: "A2", Status: model.StatusCompleted},
}

func loaded(t *testing.T, api *cancelAPI) *Cancellation {
	t.Helper()
	c := NewCancellation(api, gateway.AppointmentFilter{}, Options{})
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestConfirmSuccessRefetches(t *testing.T) {
	api := &cancelAPI{lists: [][]model.Appointment{
		initialList,
		{{ID: "A1", Status: model.StatusCancelled}, {ID: "A2", Status: model.StatusCompleted}},
	}}
	c := loaded(t, api)

	require.NoError(t, c.Open("A1"))
	require.Equal(t, ModalOpen, c.Snapshot().Phase)

	res := c.Confirm(context.Background())
	require.True(t, res.Success)
	require.Equal(t, []model.AppointmentPatch{{Status: model.StatusCancelled}}, api.updated)

	s := c.Snapshot()
	require.Equal(t, ModalClosed, s.Phase)
	require.Empty(t, s.AppointmentID)
	require.Equal(t, 2, api.listCalls)
	require.Equal(t, model.StatusCancelled, s.Appointments[0].Status)
}

func TestConfirmFailureClosesModalAndKeepsList(t *testing.T) {
	api := &cancelAPI{
		lists:     [][]model.Appointment{initialList},
		updateErr: &gateway.APIError{Status: http.StatusBadRequest, Message: "Cannot cancel past appointments"},
	}
	c := loaded(t, api)
	require.NoError(t, c.Open("A1"))

	res := c.Confirm(context.Background())
	require.False(t, res.Success)
	require.Equal(t, "Cannot cancel past appointments", res.Error)

	s := c.Snapshot()
	require.Equal(t, ModalClosed, s.Phase)
	require.Equal(t, 1, api.listCalls)
	require.Equal(t, initialList, s.Appointments)
}

func TestConfirmWithFailedRefetchKeepsLastGoodList(t *testing.T) {
	api := &cancelAPI{
		lists:    [][]model.Appointment{initialList},
		listErrs: []error{nil, errors.New("timeout")},
	}
	c := loaded(t, api)
	require.NoError(t, c.Open("A1"))

	res := c.Confirm(context.Background())
	require.True(t, res.Success)

	s := c.Snapshot()
	require.Equal(t, ModalClosed, s.Phase)
	require.Equal(t, initialList, s.Appointments)
	require.Equal(t, "Failed to load appointments", s.Error)
}

func TestOpenRules(t *testing.T) {
	api := &cancelAPI{lists: [][]model.Appointment{initialList}}
	c := loaded(t, api)

	require.ErrorIs(t, c.Open("A2"), ErrNotCancellable)
	require.ErrorIs(t, c.Open("missing"), ErrUnknownAppointment)

	require.NoError(t, c.Open("A1"))
	c.Dismiss()
	require.Equal(t, ModalClosed, c.Snapshot().Phase)
	require.Equal(t, Result{}, c.Confirm(context.Background()))
	require.Empty(t, api.updated)
}
