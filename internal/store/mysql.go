package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/asoline/lawncare-booking/internal/model"
)

// MySQLStore backs the repository with MySQL. SQL follows the
// database/sql package directly; every statement takes the caller's
// context. CompletePayment runs inside a transaction so the payment
// insert and the appointment cascade commit together or not at all.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore wraps an open database handle.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// EnsureSchema creates the four entity tables when they do not exist
// yet. Intended for development setups; production deployments manage
// the schema separately.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(190) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_admin TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS contact_messages (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(64) NOT NULL,
			service VARCHAR(128) NOT NULL,
			address VARCHAR(255) NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(64) NOT NULL,
			service_type VARCHAR(128) NOT NULL,
			service_address VARCHAR(255) NOT NULL,
			scheduled_date VARCHAR(32) NOT NULL,
			scheduled_time VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'scheduled',
			notes TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
			payment_id VARCHAR(128) NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			appointment_id BIGINT UNSIGNED NOT NULL,
			square_payment_id VARCHAR(128) NULL,
			amount_cents BIGINT NOT NULL,
			currency VARCHAR(8) NOT NULL DEFAULT 'USD',
			status VARCHAR(16) NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_payments_appointment (appointment_id)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts a user and reads the row back so defaults and the
// creation timestamp come from the database.
func (s *MySQLStore) CreateUser(ctx context.Context, in NewUser) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, is_admin) VALUES (?,?,?)",
		username, in.PasswordHash, in.IsAdmin)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return s.User(ctx, uint64(id))
}

// User fetches a user by id.
func (s *MySQLStore) User(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id=? LIMIT 1", id))
}

// UserByUsername fetches a user by username.
func (s *MySQLStore) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// CreateContactMessage inserts a contact form submission.
func (s *MySQLStore) CreateContactMessage(ctx context.Context, in NewContactMessage) (model.ContactMessage, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, phone, service, address, message) VALUES (?,?,?,?,?,?)",
		in.Name, in.Email, in.Phone, in.Service, in.Address, in.Message)
	if err != nil {
		return model.ContactMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, err
	}
	return scanContactMessage(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, phone, service, address, message, created_at FROM contact_messages WHERE id=?", id))
}

// ContactMessages returns all submissions ordered by id.
func (s *MySQLStore) ContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, phone, service, address, message, created_at FROM contact_messages ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		var address sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Service, &address, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Address = nullableString(address)
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateAppointment inserts a booking. The insert never carries
// lifecycle columns, so the schema defaults (scheduled/pending/null)
// always win over anything the client sent.
func (s *MySQLStore) CreateAppointment(ctx context.Context, in NewAppointment) (model.Appointment, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments
			(customer_name, customer_email, customer_phone, service_type, service_address, scheduled_date, scheduled_time, notes)
		 VALUES (?,?,?,?,?,?,?,?)`,
		in.CustomerName, in.CustomerEmail, in.CustomerPhone, in.ServiceType,
		in.ServiceAddress, in.ScheduledDate, in.ScheduledTime, in.Notes)
	if err != nil {
		return model.Appointment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Appointment{}, err
	}
	return s.Appointment(ctx, uint64(id))
}

const appointmentColumns = `id, customer_name, customer_email, customer_phone, service_type, service_address,
	scheduled_date, scheduled_time, status, notes, created_at, payment_status, payment_id`

// Appointment fetches a booking by id.
func (s *MySQLStore) Appointment(ctx context.Context, id uint64) (model.Appointment, error) {
	return scanAppointment(s.db.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? LIMIT 1", id))
}

// Appointments returns all bookings ordered by id.
func (s *MySQLStore) Appointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+appointmentColumns+" FROM appointments ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAppointment applies the patch with a dynamic SET clause built
// only from present fields, then reads the row back.
func (s *MySQLStore) UpdateAppointment(ctx context.Context, id uint64, patch AppointmentPatch) (model.Appointment, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if patch.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *patch.Status)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, *patch.Notes)
	}
	if patch.PaymentStatus != nil {
		sets = append(sets, "payment_status=?")
		args = append(args, *patch.PaymentStatus)
	}
	if patch.PaymentID != nil {
		sets = append(sets, "payment_id=?")
		args = append(args, *patch.PaymentID)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.ExecContext(ctx,
			"UPDATE appointments SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
		if err != nil {
			return model.Appointment{}, err
		}
		// RowsAffected is 0 both for a missing row and for a no-op
		// update, so existence is settled by the read-back below.
		_, _ = res.RowsAffected()
	}
	return s.Appointment(ctx, id)
}

// CreatePayment inserts a payment record with creation defaults.
func (s *MySQLStore) CreatePayment(ctx context.Context, in NewPayment) (model.Payment, error) {
	applyPaymentDefaults(&in)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (appointment_id, square_payment_id, amount_cents, currency, status) VALUES (?,?,?,?,?)",
		in.AppointmentID, in.SquarePaymentID, in.AmountCents, in.Currency, in.Status)
	if err != nil {
		return model.Payment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Payment{}, err
	}
	return s.Payment(ctx, uint64(id))
}

const paymentColumns = "id, appointment_id, square_payment_id, amount_cents, currency, status, created_at"

// Payment fetches a payment by id.
func (s *MySQLStore) Payment(ctx context.Context, id uint64) (model.Payment, error) {
	return scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id=? LIMIT 1", id))
}

// PaymentsByAppointment returns all payments for one appointment.
func (s *MySQLStore) PaymentsByAppointment(ctx context.Context, appointmentID uint64) ([]model.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE appointment_id=? ORDER BY id", appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePayment applies the patch and reads the row back.
func (s *MySQLStore) UpdatePayment(ctx context.Context, id uint64, patch PaymentPatch) (model.Payment, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if patch.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *patch.Status)
	}
	if patch.SquarePaymentID != nil {
		sets = append(sets, "square_payment_id=?")
		args = append(args, *patch.SquarePaymentID)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := s.db.ExecContext(ctx,
			"UPDATE payments SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.Payment{}, err
		}
	}
	return s.Payment(ctx, id)
}

// CompletePayment inserts the completed payment and flips the
// appointment to paid inside one transaction. A missing appointment
// rolls everything back and surfaces ErrNotFound.
func (s *MySQLStore) CompletePayment(ctx context.Context, in NewPayment, ref string) (model.Payment, model.Appointment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM appointments WHERE id=? FOR UPDATE", in.AppointmentID).Scan(&exists)
	if err == sql.ErrNoRows {
		return model.Payment{}, model.Appointment{}, ErrNotFound
	}
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}

	in.Status = model.PaymentCompleted
	in.SquarePaymentID = &ref
	applyPaymentDefaults(&in)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO payments (appointment_id, square_payment_id, amount_cents, currency, status) VALUES (?,?,?,?,?)",
		in.AppointmentID, in.SquarePaymentID, in.AmountCents, in.Currency, in.Status)
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}
	paymentID, err := res.LastInsertId()
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE appointments SET payment_status=?, payment_id=? WHERE id=?",
		model.PaymentStatusPaid, ref, in.AppointmentID); err != nil {
		return model.Payment{}, model.Appointment{}, err
	}

	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id=?", paymentID))
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}
	a, err := scanAppointment(tx.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=?", in.AppointmentID))
	if err != nil {
		return model.Payment{}, model.Appointment{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Payment{}, model.Appointment{}, err
	}
	committed = true
	return p, a, nil
}

// Close closes the underlying database handle.
func (s *MySQLStore) Close() error { return s.db.Close() }

func applyPaymentDefaults(in *NewPayment) {
	if in.Currency == "" {
		in.Currency = model.DefaultCurrency
	}
	if in.Status == "" {
		in.Status = model.PaymentPending
	}
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func scanContactMessage(row rowScanner) (model.ContactMessage, error) {
	var m model.ContactMessage
	var address sql.NullString
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Service, &address, &m.Message, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return model.ContactMessage{}, ErrNotFound
	}
	if err != nil {
		return model.ContactMessage{}, err
	}
	m.Address = nullableString(address)
	return m, nil
}

func scanAppointment(row rowScanner) (model.Appointment, error) {
	a, err := scanAppointmentRow(row)
	if err == sql.ErrNoRows {
		return model.Appointment{}, ErrNotFound
	}
	return a, err
}

func scanAppointmentRow(row rowScanner) (model.Appointment, error) {
	var a model.Appointment
	var notes, paymentID sql.NullString
	err := row.Scan(&a.ID, &a.CustomerName, &a.CustomerEmail, &a.CustomerPhone,
		&a.ServiceType, &a.ServiceAddress, &a.ScheduledDate, &a.ScheduledTime,
		&a.Status, &notes, &a.CreatedAt, &a.PaymentStatus, &paymentID)
	if err != nil {
		return model.Appointment{}, err
	}
	a.Notes = nullableString(notes)
	a.PaymentID = nullableString(paymentID)
	return a, nil
}

func scanPayment(row rowScanner) (model.Payment, error) {
	p, err := scanPaymentRow(row)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

func scanPaymentRow(row rowScanner) (model.Payment, error) {
	var p model.Payment
	var squareID sql.NullString
	err := row.Scan(&p.ID, &p.AppointmentID, &squareID, &p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	p.SquarePaymentID = nullableString(squareID)
	return p, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
