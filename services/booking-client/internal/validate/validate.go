// Package validate mirrors the backend's input rules so obviously bad input is rejected
// before any request is sent.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

func (e Errors) OK() bool { return len(e) == 0 }

// First returns the message of the alphabetically first field, for single-line display.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return e[fields[0]]
}

var structs = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone_chars", phoneChars)
	_ = v.RegisterValidation("phone_digits", phoneDigits)
	return v
}

// Blank phones pass both phone rules; the field is optional.
func phoneChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if (r < '0' || r > '9') && !strings.ContainsRune("-() +", r) {
			return false
		}
	}
	return true
}

func phoneDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 20
}

var labels = map[string]string{
	"email":            "Email",
	"password":         "Password",
	"new_password":     "Password",
	"current_password": "Current password",
	"name":             "Name",
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + fe.Param() + " characters long"
	case "max":
		return label + " is too long"
	case "email":
		return "Invalid email format"
	case "phone_chars":
		return "Phone number must contain only digits and formatting characters"
	case "phone_digits":
		return "Phone number must be between 7 and 20 digits"
	}
	return "Invalid " + fe.Field()
}

func check(v any) Errors {
	errs := Errors{}
	err := structs.Struct(v)
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, fe := range fields {
			if _, seen := errs[fe.Field()]; !seen {
				errs.Add(fe.Field(), message(fe))
			}
		}
	} else if err != nil {
		errs.Add("input", err.Error())
	}
	return errs
}

type credentials struct {
	Email    string `json:"email" validate:"required,max=120,email"`
	Password string `json:"password" validate:"required"`
}

type passwordChange struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=6,max=128"`
}

func Login(email, password string) Errors {
	return check(credentials{Email: strings.TrimSpace(email), Password: password})
}

func Registration(r model.Registration) Errors {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

func Profile(p model.ProfilePatch) Errors {
	if p.Name == nil && p.Phone == nil {
		return Errors{"profile": "No changes provided"}
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	return check(p)
}

func PasswordChange(current, next string) Errors {
	return check(passwordChange{Current: current, New: next})
}

// Date accepts YYYY-MM-DD not earlier than today (in today's location).
func Date(date string, today time.Time) string {
	d, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return "Invalid date format. Use YYYY-MM-DD"
	}
	y, m, dd := today.Date()
	if d.Before(time.Date(y, m, dd, 0, 0, 0, 0, today.Location())) {
		return "Cannot book appointments in the past"
	}
	return ""
}

func Time(t string) string {
	if _, err := time.Parse(TimeLayout, t); err != nil {
		return "Invalid time format. Use HH:MM"
	}
	return ""
}
