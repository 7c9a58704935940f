// Package nav names the client's views. Components never render; they ask a Navigator to
// move to one of these routes.
package nav

const (
	Home              = "/"
	Login             = "/login"
	Register          = "/register"
	Services          = "/services"
	Dashboard         = "/dashboard"
	Book              = "/book"
	MyAppointments    = "/my-appointments"
	Profile           = "/profile"
	Admin             = "/admin"
	AdminAppointments = "/admin/appointments"
	AdminServices     = "/admin/services"
	AdminClients      = "/admin/clients"
)

type Navigator interface {
	Navigate(path string)
}

type Func func(path string)

func (f Func) Navigate(path string) { f(path) }

// Discard ignores navigation requests.
var Discard Navigator = Func(func(string) {})
