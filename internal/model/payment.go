package model

import "time"

// Payment record status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// DefaultCurrency is applied when a payment is created without one.
const DefaultCurrency = "USD"

// Payment is a charge recorded against an appointment. AmountCents is
// always an integer number of minor currency units; dollar floats are
// never stored.
//
// Fields:
//  ID              – primary key identifier.
//  AppointmentID   – appointment this payment belongs to.
//  SquarePaymentID – reference returned by the payment gateway (nullable).
//  AmountCents     – charge amount in cents.
//  Currency        – ISO currency code, defaults to USD.
//  Status          – pending | completed | failed | refunded.
//  CreatedAt       – timestamp of creation (UTC).
type Payment struct {
	ID              uint64    `json:"id"`
	AppointmentID   uint64    `json:"appointmentId"`
	SquarePaymentID *string   `json:"squarePaymentId"`
	AmountCents     int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}
