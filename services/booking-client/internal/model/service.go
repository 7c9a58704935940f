package model

// Service is a bookable salon service. The client never mutates it.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration"`
	ImageURL        string  `json:"image_url,omitempty"`
	Active          bool    `json:"active"`
}
