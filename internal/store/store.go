// Package store defines the entity repository used by the booking API and
// its two implementations: an in-process memory store and a MySQL store.
// Handlers depend only on the Store interface so either implementation can
// back the service.
package store

import (
	"context"

	"github.com/asoline/lawncare-booking/internal/model"
)

// NewUser carries the fields a caller may supply when creating a user.
// The password must already be hashed; the store never sees plaintext.
type NewUser struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// NewContactMessage carries the fields accepted from the public contact
// form. Address is optional and stored as null when absent.
type NewContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Address *string
	Message string
}

// NewAppointment carries the fields a customer may supply when booking.
// Lifecycle fields (status, payment status, payment id) are not part of
// this type on purpose: the store forces their initial values.
type NewAppointment struct {
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	ServiceType    string
	ServiceAddress string
	ScheduledDate  string
	ScheduledTime  string
	Notes          *string
}

// NewPayment carries the fields accepted when recording a payment.
type NewPayment struct {
	AppointmentID   uint64
	SquarePaymentID *string
	AmountCents     int64
	Currency        string
	Status          string
}

// AppointmentPatch lists the only appointment fields that may change
// after creation. Nil pointers mean "leave unchanged".
type AppointmentPatch struct {
	Status        *string
	Notes         *string
	PaymentStatus *string
	PaymentID     *string
}

// PaymentPatch lists the payment fields that may change after creation.
type PaymentPatch struct {
	Status          *string
	SquarePaymentID *string
}

// Store is the repository for all four entity kinds. Implementations
// must be safe for concurrent use. Lookups for missing ids return
// ErrNotFound; CreateUser returns ErrUsernameExists on a duplicate
// username.
type Store interface {
	CreateUser(ctx context.Context, in NewUser) (model.User, error)
	User(ctx context.Context, id uint64) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)

	CreateContactMessage(ctx context.Context, in NewContactMessage) (model.ContactMessage, error)
	ContactMessages(ctx context.Context) ([]model.ContactMessage, error)

	CreateAppointment(ctx context.Context, in NewAppointment) (model.Appointment, error)
	Appointment(ctx context.Context, id uint64) (model.Appointment, error)
	Appointments(ctx context.Context) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint64, patch AppointmentPatch) (model.Appointment, error)

	CreatePayment(ctx context.Context, in NewPayment) (model.Payment, error)
	Payment(ctx context.Context, id uint64) (model.Payment, error)
	PaymentsByAppointment(ctx context.Context, appointmentID uint64) ([]model.Payment, error)
	UpdatePayment(ctx context.Context, id uint64, patch PaymentPatch) (model.Payment, error)

	// CompletePayment records a completed payment carrying the gateway
	// reference ref and, in the same atomic step, marks the referenced
	// appointment paid with PaymentID set to ref. Either both writes
	// happen or neither does.
	CompletePayment(ctx context.Context, in NewPayment, ref string) (model.Payment, model.Appointment, error)

	Close() error
}
