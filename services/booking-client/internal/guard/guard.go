// Package guard decides whether a view may be shown for the current session.
package guard

import (
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/session"
)

type Outcome int

const (
	// Loading means the session is still being restored; no decision yet.
	Loading Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

type Route struct {
	Path      string
	AdminOnly bool
}

type Decision struct {
	Outcome  Outcome
	Location string
}

// Routes lists the protected views.
var Routes = []Route{
	{Path: nav.Dashboard},
	{Path: nav.Book},
	{Path: nav.MyAppointments},
	{Path: nav.Profile},
	{Path: nav.Admin, AdminOnly: true},
	{Path: nav.AdminAppointments, AdminOnly: true},
	{Path: nav.AdminServices, AdminOnly: true},
	{Path: nav.AdminClients, AdminOnly: true},
}

// Lookup returns the protected route for path, if any.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func Decide(s session.Snapshot, r Route) Decision {
	switch {
	case !s.Restored:
		return Decision{Outcome: Loading}
	case !s.IsAuthenticated():
		return Decision{Outcome: Redirect, Location: nav.Login}
	case r.AdminOnly && !s.IsAdmin():
		return Decision{Outcome: Redirect, Location: nav.Dashboard}
	}
	return Decision{Outcome: Allow}
}
