package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

func TestLoginEmail(t *testing.T) {
	cases := map[string]string{
		"":                                  "Email is required",
		"client.example.com":                "Invalid email format",
		"client@example.com":                "",
		" client@example.com ":              "",
		strings.Repeat("a", 115) + "@x.com": "Email is too long",
	}
	for in, want := range cases {
		if got := Login(in, "client123")["email"]; got != want {
			t.Fatalf("Login(%q) email error = %q, want %q", in, got, want)
		}
	}
}

func TestPhone(t *testing.T) {
	reg := model.Registration{Name: "Ana", Email: "ana@example.com", Password: "secret1"}
	cases := map[string]string{
		"":                "",
		"(555) 123-4567":  "",
		"+1 555 123 4567": "",
		"555-abc-4567":    "Phone number must contain only digits and formatting characters",
		"123":             "Phone number must be between 7 and 20 digits",
	}
	for in, want := range cases {
		reg.Phone = in
		if got := Registration(reg)["phone"]; got != want {
			t.Fatalf("phone %q: got %q, want %q", in, got, want)
		}
	}
}

func TestRegistration(t *testing.T) {
	errs := Registration(model.Registration{Name: "A", Email: "bad", Password: "123"})
	want := Errors{
		"name":     "Name must be at least 2 characters long",
		"email":    "Invalid email format",
		"password": "Password must be at least 6 characters long",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Fatalf("%s: got %q, want %q", field, errs[field], msg)
		}
	}
	if len(errs) != len(want) {
		t.Fatalf("unexpected extra errors: %v", errs)
	}
	if errs.First() != errs["email"] {
		t.Fatalf("First should pick the alphabetically first field, got %q", errs.First())
	}

	ok := Registration(model.Registration{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	if !ok.OK() {
		t.Fatalf("expected valid registration, got %v", ok)
	}
}

func TestLoginAndProfile(t *testing.T) {
	if !Login("client@example.com", "client123").OK() {
		t.Fatal("expected valid login")
	}
	if Login("client@example.com", "")["password"] == "" {
		t.Fatal("expected missing password error")
	}
	if Profile(model.ProfilePatch{})["profile"] == "" {
		t.Fatal("expected empty patch error")
	}
	name := "Jo"
	if !Profile(model.ProfilePatch{Name: &name}).OK() {
		t.Fatal("expected valid patch")
	}
	short, cleared := " J ", ""
	if got := Profile(model.ProfilePatch{Name: &short})["name"]; got != "Name must be at least 2 characters long" {
		t.Fatalf("unexpected name error %q", got)
	}
	if !Profile(model.ProfilePatch{Phone: &cleared}).OK() {
		t.Fatal("clearing the phone must be allowed")
	}
	errs := PasswordChange("", "short")
	if errs["current_password"] != "Current password is required" {
		t.Fatalf("unexpected current password error %q", errs["current_password"])
	}
	if errs["new_password"] != "Password must be at least 6 characters long" {
		t.Fatalf("unexpected new password error %q", errs["new_password"])
	}
}

func TestDateAndTime(t *testing.T) {
	today := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	if Date("2024-06-01", today) != "" {
		t.Fatal("today must be bookable")
	}
	if Date("2024-05-31", today) == "" {
		t.Fatal("past date must be rejected")
	}
	if Date("06/02/2024", today) == "" {
		t.Fatal("bad layout must be rejected")
	}
	if Time("09:00") != "" || Time("9am") == "" {
		t.Fatal("unexpected time validation")
	}
}
