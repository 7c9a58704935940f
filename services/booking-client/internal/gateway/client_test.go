package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

type fakeSession struct {
	token    string
	expired  atomic.Int32
	rejected atomic.Value
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Expire(_ context.Context, token string) {
	s.rejected.Store(token)
	s.expired.Add(1)
}

func newTestClient(t *testing.T, h http.Handler, retries int) (*Client, *fakeSession) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/", Retries: retries, RetryInterval: time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := &fakeSession{token: "tok-123"}
	c.Attach(s)
	return c, s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "not a url"}, nil); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestBearerHeaderAndAnonymousLogin(t *testing.T) {
	var authOnLogin, authOnProfile string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		authOnLogin = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "new-token",
			"user":         map[string]any{"id": "u1", "email": "client@example.com", "role": "client"},
		})
	})
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		authOnProfile = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u1", "role": "client"}})
	})
	c, _ := newTestClient(t, mux, 0)

	resp, err := c.Login(context.Background(), "client@example.com", "client123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken != "new-token" || resp.User.ID != "u1" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	if authOnLogin != "" {
		t.Fatalf("login must not carry a bearer token, got %q", authOnLogin)
	}

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if authOnProfile != "Bearer tok-123" {
		t.Fatalf("expected bearer token, got %q", authOnProfile)
	}
}

func TestUnauthorizedExpiresSessionFromAnyEndpoint(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
	})
	c, s := newTestClient(t, h, 2)
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := c.ListMyAppointments(ctx, AppointmentFilter{}); return err },
		func() error { _, err := c.AvailableSlots(ctx, "S1", "2024-06-01"); return err },
		func() error { _, err := c.Stats(ctx); return err },
		func() error {
			_, err := c.UpdateAppointment(ctx, "A1", model.AppointmentPatch{Status: model.StatusCancelled})
			return err
		},
	}
	for i, fn := range calls {
		err := fn()
		if !IsUnauthorized(err) {
			t.Fatalf("call %d: expected unauthorized error, got %v", i, err)
		}
	}
	if got := s.expired.Load(); got != int32(len(calls)) {
		t.Fatalf("expected %d expirations, got %d", len(calls), got)
	}
	if got := s.rejected.Load(); got != "tok-123" {
		t.Fatalf("expected the sent token to be reported, got %v", got)
	}
}

func TestUnauthorizedWithoutTokenDoesNotExpire(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	})
	c, s := newTestClient(t, h, 0)

	_, err := c.Login(context.Background(), "client@example.com", "wrong")
	if got := MessageOf(err, "Login failed"); got != "Invalid email or password" {
		t.Fatalf("unexpected message %q", got)
	}
	if s.expired.Load() != 0 {
		t.Fatal("credential rejection must not expire the session")
	}
}

func TestErrorPayloadMapping(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Time slot no longer available", "message": "conflict"})
	})
	c, _ := newTestClient(t, h, 0)

	_, err := c.CreateAppointment(context.Background(), model.NewAppointment{ServiceID: "S1"}, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Detail != "conflict" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if MessageOf(err, "fallback") != "Time slot no longer available" {
		t.Fatalf("unexpected message: %q", MessageOf(err, "fallback"))
	}
	if MessageOf(errors.New("dial tcp: refused"), "fallback") != "fallback" {
		t.Fatal("transport errors must use the fallback message")
	}
	if StatusOf(err) != http.StatusConflict {
		t.Fatalf("unexpected status %d", StatusOf(err))
	}
}

func TestGetRetriesOnUnavailable(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("active") != "true" || r.URL.Query().Get("lang") != "es" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad query " + r.URL.RawQuery})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": []map[string]any{
			{"id": "S1", "name": "Haircut", "price": 25.5, "duration": 30, "active": true},
		}})
	})
	c, _ := newTestClient(t, h, 2)

	services, err := c.ListServices(context.Background(), true, "es")
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if len(services) != 1 || services[0].DurationMinutes != 30 {
		t.Fatalf("unexpected services: %+v", services)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestPostIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	var idemKey string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		idemKey = r.Header.Get("Idempotency-Key")
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c, _ := newTestClient(t, h, 3)

	_, err := c.CreateAppointment(context.Background(), model.NewAppointment{ServiceID: "S1", Date: "2024-06-01", Time: "09:00"}, "key-1")
	if StatusOf(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
	if idemKey != "key-1" {
		t.Fatalf("expected idempotency key header, got %q", idemKey)
	}
}

func TestAvailableSlotsQuery(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/appointments/available-slots" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"date":            q.Get("date"),
			"service_id":      q.Get("service_id"),
			"available_slots": []string{"09:00", "10:00"},
		})
	})
	c, _ := newTestClient(t, h, 0)

	slots, err := c.AvailableSlots(context.Background(), "S1", "2024-06-01")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	if slots.ServiceID != "S1" || slots.Date != "2024-06-01" || len(slots.AvailableSlots) != 2 {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestFilterValues(t *testing.T) {
	q := AppointmentFilter{Status: model.StatusPending, Upcoming: true, ClientID: "c1"}.values("en")
	if q.Get("status") != "pending" || q.Get("upcoming") != "true" || q.Get("client_id") != "c1" || q.Get("lang") != "en" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Has("date") {
		t.Fatal("empty date must be omitted")
	}
}
