// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentBookedEvent is published when a customer books a new
// appointment. It carries enough information for downstream consumers to
// notify staff or feed analytics without querying the primary store.
type AppointmentBookedEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ServiceType   string `json:"service_type"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	BookedAt      string `json:"booked_at"`
}

// PaymentCompletedEvent is published after a payment settles and the
// appointment has been marked paid.
type PaymentCompletedEvent struct {
	PaymentID       uint64 `json:"payment_id"`
	AppointmentID   uint64 `json:"appointment_id"`
	SquarePaymentID string `json:"square_payment_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	CompletedAt     string `json:"completed_at"`
}
