package model

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ClientRef is the embedded client summary on admin appointment listings.
type ClientRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Appointment struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"client_id,omitempty"`
	ServiceID string     `json:"service_id"`
	Date      string     `json:"appointment_date"`
	Time      string     `json:"appointment_time"`
	Status    Status     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
	Service   *Service   `json:"service,omitempty"`
	Client    *ClientRef `json:"client,omitempty"`
}

// Cancellable reports whether the owner may still request cancellation.
func (a Appointment) Cancellable() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// NewAppointment is the booking submission payload.
type NewAppointment struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"appointment_date"`
	Time      string `json:"appointment_time"`
	Notes     string `json:"notes,omitempty"`
}

// AppointmentPatch requests a status transition (clients may only cancel).
type AppointmentPatch struct {
	Status Status  `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type Stats struct {
	ByStatus          map[Status]int `json:"by_status"`
	Today             int            `json:"today"`
	UpcomingWeek      int            `json:"upcoming_week"`
	TotalRevenue      float64        `json:"total_revenue"`
	TotalAppointments int            `json:"total_appointments"`
}
