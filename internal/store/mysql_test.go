package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoline/lawncare-booking/internal/model"
)

func newMockStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLStore(db), mock
}

func appointmentRows(id uint64, paymentStatus string, paymentID interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_name", "customer_email", "customer_phone", "service_type",
		"service_address", "scheduled_date", "scheduled_time", "status", "notes",
		"created_at", "payment_status", "payment_id",
	}).AddRow(id, "Dana Reed", "dana@example.com", "5155550134", "lawn-care",
		"9 Oak Ave", "2026-04-12", "09:00", model.AppointmentScheduled, nil,
		time.Now().UTC(), paymentStatus, paymentID)
}

func paymentRows(id, appointmentID uint64, ref interface{}, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "appointment_id", "square_payment_id", "amount_cents", "currency", "status", "created_at",
	}).AddRow(id, appointmentID, ref, 5000, "USD", status, time.Now().UTC())
}

func TestMySQLCompletePayment_SingleTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM appointments WHERE id=\\? FOR UPDATE").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("UPDATE appointments SET payment_status=\\?, payment_id=\\? WHERE id=\\?").
		WithArgs(model.PaymentStatusPaid, "sq_ref", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM payments WHERE id=\\?").
		WillReturnRows(paymentRows(9, 5, "sq_ref", model.PaymentCompleted))
	mock.ExpectQuery("FROM appointments WHERE id=\\?").
		WillReturnRows(appointmentRows(5, model.PaymentStatusPaid, "sq_ref"))
	mock.ExpectCommit()

	p, a, err := s.CompletePayment(context.Background(), NewPayment{AppointmentID: 5, AmountCents: 5000}, "sq_ref")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.Status)
	assert.Equal(t, model.PaymentStatusPaid, a.PaymentStatus)
	require.NotNil(t, a.PaymentID)
	assert.Equal(t, "sq_ref", *a.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCompletePayment_MissingAppointmentRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM appointments WHERE id=\\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := s.CompletePayment(context.Background(), NewPayment{AppointmentID: 42, AmountCents: 100}, "sq_ref")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCreateUser_DuplicateMapsToSentinel(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'dana' for key 'users.username'"))

	_, err := s.CreateUser(context.Background(), NewUser{Username: "dana", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAppointment_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM appointments WHERE id=\\?").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Appointment(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLUpdateAppointment_BuildsSetClauseFromPatch(t *testing.T) {
	s, mock := newMockStore(t)

	notes := "bring the big mower"
	mock.ExpectExec("UPDATE appointments SET notes=\\? WHERE id=\\?").
		WithArgs(notes, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM appointments WHERE id=\\?").
		WillReturnRows(appointmentRows(5, model.PaymentStatusPending, nil))

	a, err := s.UpdateAppointment(context.Background(), 5, AppointmentPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLContactMessages_NullableAddress(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "service", "address", "message", "created_at",
	}).
		AddRow(1, "Dana", "dana@example.com", "5155550134", "lawn-care", nil, "hi", time.Now().UTC()).
		AddRow(2, "Lee", "lee@example.com", "5155550178", "snow-removal", "12 Elm St", "hello", time.Now().UTC())
	mock.ExpectQuery("FROM contact_messages ORDER BY id").WillReturnRows(rows)

	list, err := s.ContactMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].Address)
	require.NotNil(t, list[1].Address)
	assert.Equal(t, "12 Elm St", *list[1].Address)
}
