// Package validate checks inbound request payloads before they reach the
// store. Validators are batch-style: every violated constraint is
// collected and reported in a single message instead of stopping at the
// first failure.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/asoline/lawncare-booking/internal/model"
	"github.com/asoline/lawncare-booking/internal/store"
)

// minPhoneLen is the minimum accepted phone number length in characters.
const minPhoneLen = 10

// Errors aggregates field-level violations for one payload.
type Errors struct {
	Violations []string
}

// Error joins all violations into one human-readable message.
func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *Errors) add(format string, args ...interface{}) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// err returns the collected violations as an error, or nil when the
// payload passed every check.
func (e *Errors) err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ContactMessage checks a contact form submission.
func ContactMessage(in store.NewContactMessage) error {
	var e Errors
	requireString(&e, "name", in.Name)
	requireEmail(&e, "email", in.Email)
	requirePhone(&e, "phone", in.Phone)
	requireString(&e, "service", in.Service)
	requireString(&e, "message", in.Message)
	return e.err()
}

// Appointment checks a booking request.
func Appointment(in store.NewAppointment) error {
	var e Errors
	requireString(&e, "customerName", in.CustomerName)
	requireEmail(&e, "customerEmail", in.CustomerEmail)
	requirePhone(&e, "customerPhone", in.CustomerPhone)
	requireString(&e, "serviceType", in.ServiceType)
	requireString(&e, "serviceAddress", in.ServiceAddress)
	requireString(&e, "scheduledDate", in.ScheduledDate)
	requireString(&e, "scheduledTime", in.ScheduledTime)
	return e.err()
}

// AppointmentPatch checks a partial appointment update. Only the four
// mutable fields exist on the patch type; enum fields must carry a
// known value when present.
func AppointmentPatch(patch store.AppointmentPatch) error {
	var e Errors
	if patch.Status != nil {
		requireOneOf(&e, "status", *patch.Status,
			model.AppointmentScheduled, model.AppointmentCompleted, model.AppointmentCancelled)
	}
	if patch.PaymentStatus != nil {
		requireOneOf(&e, "paymentStatus", *patch.PaymentStatus,
			model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusRefunded)
	}
	return e.err()
}

// Payment checks a payment creation request.
func Payment(in store.NewPayment) error {
	var e Errors
	if in.AppointmentID == 0 {
		e.add("appointmentId is required")
	}
	if in.AmountCents < 0 {
		e.add("amount must be a non-negative integer number of cents")
	}
	if in.Status != "" {
		requireOneOf(&e, "status", in.Status,
			model.PaymentPending, model.PaymentCompleted, model.PaymentFailed, model.PaymentRefunded)
	}
	return e.err()
}

// PaymentPatch checks a partial payment update.
func PaymentPatch(patch store.PaymentPatch) error {
	var e Errors
	if patch.Status != nil {
		requireOneOf(&e, "status", *patch.Status,
			model.PaymentPending, model.PaymentCompleted, model.PaymentFailed, model.PaymentRefunded)
	}
	return e.err()
}

// Credentials checks a register or login request.
func Credentials(username, password string) error {
	var e Errors
	requireString(&e, "username", username)
	if password == "" {
		e.add("password is required")
	}
	return e.err()
}

func requireString(e *Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		e.add("%s is required", field)
	}
}

func requireEmail(e *Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		e.add("%s is required", field)
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		e.add("%s must be a valid email address", field)
	}
}

func requirePhone(e *Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		e.add("%s is required", field)
		return
	}
	if len(strings.TrimSpace(v)) < minPhoneLen {
		e.add("%s must be at least %d characters", field, minPhoneLen)
	}
}

func requireOneOf(e *Errors, field, v string, allowed ...string) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	e.add("%s must be one of %s", field, strings.Join(allowed, ", "))
}
