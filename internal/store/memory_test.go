package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoline/lawncare-booking/internal/model"
)

func strptr(s string) *string { return &s }

func TestCreateContactMessage_AssignsIncreasingIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.CreateContactMessage(ctx, NewContactMessage{
		Name: "Dana Reed", Email: "dana@example.com", Phone: "5155550134",
		Service: "lawn-care", Message: "Weekly mowing quote please",
	})
	require.NoError(t, err)
	second, err := s.CreateContactMessage(ctx, NewContactMessage{
		Name: "Lee Park", Email: "lee@example.com", Phone: "5155550178",
		Service: "snow-removal", Address: strptr("12 Elm St"), Message: "Driveway clearing",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
	// submitted fields come back verbatim
	assert.Equal(t, "Dana Reed", first.Name)
	assert.Equal(t, "dana@example.com", first.Email)
	assert.Equal(t, "Weekly mowing quote please", first.Message)
	// address normalizes to null when absent, survives when present
	assert.Nil(t, first.Address)
	require.NotNil(t, second.Address)
	assert.Equal(t, "12 Elm St", *second.Address)
}

func TestContactMessages_InsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.CreateContactMessage(ctx, NewContactMessage{
			Name: name, Email: name + "@example.com", Phone: "5155550100",
			Service: "lawn-care", Message: "hi",
		})
		require.NoError(t, err)
	}
	list, err := s.ContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[2].Name)
}

func TestCreateAppointment_ForcesLifecycleFields(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.CreateAppointment(context.Background(), NewAppointment{
		CustomerName: "Dana Reed", CustomerEmail: "dana@example.com",
		CustomerPhone: "5155550134", ServiceType: "lawn-care",
		ServiceAddress: "9 Oak Ave", ScheduledDate: "2026-04-12", ScheduledTime: "09:00",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentScheduled, a.Status)
	assert.Equal(t, model.PaymentStatusPending, a.PaymentStatus)
	assert.Nil(t, a.PaymentID)
	assert.Nil(t, a.Notes)
}

func TestUpdateAppointment_PatchRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a, err := s.CreateAppointment(ctx, NewAppointment{
		CustomerName: "Dana Reed", CustomerEmail: "dana@example.com",
		CustomerPhone: "5155550134", ServiceType: "lawn-care",
		ServiceAddress: "9 Oak Ave", ScheduledDate: "2026-04-12", ScheduledTime: "09:00",
	})
	require.NoError(t, err)

	_, err = s.UpdateAppointment(ctx, a.ID, AppointmentPatch{Notes: strptr("bring the big mower")})
	require.NoError(t, err)

	got, err := s.Appointment(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "bring the big mower", *got.Notes)
	// everything else unchanged
	assert.Equal(t, a.CustomerName, got.CustomerName)
	assert.Equal(t, a.Status, got.Status)
	assert.Equal(t, a.PaymentStatus, got.PaymentStatus)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
}

func TestAppointments_ListIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.CreateAppointment(ctx, NewAppointment{
			CustomerName: "c", CustomerEmail: "c@example.com", CustomerPhone: "5155550100",
			ServiceType: "lawn-care", ServiceAddress: "x", ScheduledDate: "2026-04-12", ScheduledTime: "09:00",
		})
		require.NoError(t, err)
	}
	first, err := s.Appointments(ctx)
	require.NoError(t, err)
	second, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAppointment_UnknownIDIsNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Appointment(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateAppointment(context.Background(), 999999, AppointmentPatch{Notes: strptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePayment_Defaults(t *testing.T) {
	s := NewMemoryStore()
	p, err := s.CreatePayment(context.Background(), NewPayment{AppointmentID: 1, AmountCents: 5000})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, model.DefaultCurrency, p.Currency)
	assert.Nil(t, p.SquarePaymentID)
}

func TestCompletePayment_CascadesAppointment(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a, err := s.CreateAppointment(ctx, NewAppointment{
		CustomerName: "Dana Reed", CustomerEmail: "dana@example.com",
		CustomerPhone: "5155550134", ServiceType: "lawn-care",
		ServiceAddress: "9 Oak Ave", ScheduledDate: "2026-04-12", ScheduledTime: "09:00",
	})
	require.NoError(t, err)

	p, updated, err := s.CompletePayment(ctx, NewPayment{AppointmentID: a.ID, AmountCents: 5000}, "sq_abc123")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCompleted, p.Status)
	assert.Equal(t, int64(5000), p.AmountCents)
	require.NotNil(t, p.SquarePaymentID)
	assert.Equal(t, "sq_abc123", *p.SquarePaymentID)

	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentID)
	assert.Equal(t, "sq_abc123", *updated.PaymentID)

	// cascade is visible through a fresh read as well
	got, err := s.Appointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
}

func TestCompletePayment_MissingAppointmentWritesNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _, err := s.CompletePayment(ctx, NewPayment{AppointmentID: 42, AmountCents: 100}, "sq_x")
	assert.ErrorIs(t, err, ErrNotFound)

	// no orphan payment was created
	list, err := s.PaymentsByAppointment(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaymentsByAppointment_FiltersByForeignKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.CreatePayment(ctx, NewPayment{AppointmentID: 1, AmountCents: 100})
	require.NoError(t, err)
	_, err = s.CreatePayment(ctx, NewPayment{AppointmentID: 2, AmountCents: 200})
	require.NoError(t, err)
	_, err = s.CreatePayment(ctx, NewPayment{AppointmentID: 1, AmountCents: 300})
	require.NoError(t, err)

	list, err := s.PaymentsByAppointment(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(100), list[0].AmountCents)
	assert.Equal(t, int64(300), list[1].AmountCents)
}

func TestCreateUser_DuplicateUsernameRejected(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.CreateUser(ctx, NewUser{Username: "dana", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, NewUser{Username: "Dana", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserByUsername(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, NewUser{Username: "dana", PasswordHash: "x", IsAdmin: true})
	require.NoError(t, err)

	got, err := s.UserByUsername(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsAdmin)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePayment_Patch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p, err := s.CreatePayment(ctx, NewPayment{AppointmentID: 1, AmountCents: 100})
	require.NoError(t, err)

	refunded := model.PaymentRefunded
	got, err := s.UpdatePayment(ctx, p.ID, PaymentPatch{Status: &refunded})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, got.Status)
	assert.Equal(t, p.AmountCents, got.AmountCents)
}
