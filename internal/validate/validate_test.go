package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoline/lawncare-booking/internal/store"
)

func strptr(s string) *string { return &s }

func validContact() store.NewContactMessage {
	return store.NewContactMessage{
		Name: "Dana Reed", Email: "dana@example.com", Phone: "5155550134",
		Service: "lawn-care", Message: "Weekly mowing quote please",
	}
}

func TestContactMessage_Valid(t *testing.T) {
	assert.NoError(t, ContactMessage(validContact()))
}

func TestContactMessage_MissingEmailCitesField(t *testing.T) {
	in := validContact()
	in.Email = ""
	err := ContactMessage(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestContactMessage_CollectsAllViolations(t *testing.T) {
	err := ContactMessage(store.NewContactMessage{Phone: "123"})
	require.Error(t, err)

	verr, ok := err.(*Errors)
	require.True(t, ok)
	// name, email, short phone, service, message all reported at once
	assert.Len(t, verr.Violations, 5)
}

func TestContactMessage_BadEmailFormat(t *testing.T) {
	in := validContact()
	in.Email = "not-an-email"
	err := ContactMessage(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
}

func TestContactMessage_ShortPhone(t *testing.T) {
	in := validContact()
	in.Phone = "515555"
	err := ContactMessage(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 10 characters")
}

func TestAppointment_RequiresAllFields(t *testing.T) {
	err := Appointment(store.NewAppointment{})
	require.Error(t, err)
	for _, field := range []string{"customerName", "customerEmail", "customerPhone", "serviceType", "serviceAddress", "scheduledDate", "scheduledTime"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestAppointmentPatch_EnumMembership(t *testing.T) {
	assert.NoError(t, AppointmentPatch(store.AppointmentPatch{Status: strptr("completed")}))
	assert.NoError(t, AppointmentPatch(store.AppointmentPatch{PaymentStatus: strptr("refunded")}))
	assert.NoError(t, AppointmentPatch(store.AppointmentPatch{}))

	err := AppointmentPatch(store.AppointmentPatch{Status: strptr("done")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of")

	err = AppointmentPatch(store.AppointmentPatch{PaymentStatus: strptr("unpaid")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paymentStatus must be one of")
}

func TestPayment_NegativeAmountRejected(t *testing.T) {
	err := Payment(store.NewPayment{AppointmentID: 1, AmountCents: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestPayment_RequiresAppointment(t *testing.T) {
	err := Payment(store.NewPayment{AmountCents: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appointmentId is required")
}

func TestPayment_StatusEnum(t *testing.T) {
	assert.NoError(t, Payment(store.NewPayment{AppointmentID: 1, AmountCents: 100, Status: "completed"}))
	assert.Error(t, Payment(store.NewPayment{AppointmentID: 1, AmountCents: 100, Status: "settled"}))
}

func TestCredentials(t *testing.T) {
	assert.NoError(t, Credentials("dana", "hunter22"))

	err := Credentials("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "password is required")
}
