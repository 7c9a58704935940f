package session

import (
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/validate"
)

// Snapshot is an immutable view of the session handed to guards and controllers.
type Snapshot struct {
	Restored bool
	Token    string
	Identity model.Identity
}

// IsAuthenticated is true only when both token and identity are held.
func (s Snapshot) IsAuthenticated() bool {
	return s.Token != "" && s.Identity.ID != ""
}

func (s Snapshot) IsAdmin() bool {
	return s.IsAuthenticated() && s.Identity.IsAdmin()
}

// Result is the outcome of a session operation. Fields carries per-field validation
// messages when the request never left the client.
type Result struct {
	Success bool
	Error   string
	Fields  validate.Errors
}

func ok() Result { return Result{Success: true} }

func failed(msg string) Result { return Result{Error: msg} }

func invalid(errs validate.Errors) Result {
	return Result{Error: errs.First(), Fields: errs}
}
