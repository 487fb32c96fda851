package push

import "context"

// Provider delivers a booking notification to the user-facing channel
// behind it (push topic, SMS, ...). Delivery is best-effort; the booking
// flow never waits on it.
type Provider interface {
	Send(ctx context.Context, notification *Notification) error
}

type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Phone string            `json:"phone,omitempty"` // SMS providers only
	Data  map[string]string `json:"data,omitempty"`
}
