package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/asoline/lawncare-booking/internal/model"
)

// MemoryStore keeps all entities in maps guarded by a single mutex.
// Identifier counters and map writes therefore move together, and the
// two writes of CompletePayment happen under one critical section.
// Everything is lost on process exit; it exists for development and for
// single-process deployments that do not need durability.
type MemoryStore struct {
	mu sync.Mutex

	users        map[uint64]model.User
	messages     map[uint64]model.ContactMessage
	appointments map[uint64]model.Appointment
	payments     map[uint64]model.Payment

	// insertion order per kind, so list operations return entities in
	// the order they were created
	messageOrder     []uint64
	appointmentOrder []uint64
	paymentOrder     []uint64

	nextUserID        uint64
	nextMessageID     uint64
	nextAppointmentID uint64
	nextPaymentID     uint64
}

// NewMemoryStore returns an empty store with all counters starting at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:             make(map[uint64]model.User),
		messages:          make(map[uint64]model.ContactMessage),
		appointments:      make(map[uint64]model.Appointment),
		payments:          make(map[uint64]model.Payment),
		nextUserID:        1,
		nextMessageID:     1,
		nextAppointmentID: 1,
		nextPaymentID:     1,
	}
}

// CreateUser inserts a new user. Usernames are compared
// case-insensitively and duplicates are rejected with ErrUsernameExists.
func (s *MemoryStore) CreateUser(_ context.Context, in NewUser) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(strings.TrimSpace(in.Username))
	for _, u := range s.users {
		if strings.ToLower(u.Username) == name {
			return model.User{}, ErrUsernameExists
		}
	}

	u := model.User{
		ID:           s.nextUserID,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: in.PasswordHash,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	return u, nil
}

// User fetches a user by id.
func (s *MemoryStore) User(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// UserByUsername fetches a user by username (case-insensitive).
func (s *MemoryStore) UserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.ToLower(strings.TrimSpace(username))
	for _, u := range s.users {
		if strings.ToLower(u.Username) == name {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// CreateContactMessage inserts a contact form submission. A missing
// address stays null.
func (s *MemoryStore) CreateContactMessage(_ context.Context, in NewContactMessage) (model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := model.ContactMessage{
		ID:        s.nextMessageID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Address:   copyString(in.Address),
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	s.nextMessageID++
	s.messages[m.ID] = m
	s.messageOrder = append(s.messageOrder, m.ID)
	return m, nil
}

// ContactMessages returns all submissions in insertion order.
func (s *MemoryStore) ContactMessages(_ context.Context) ([]model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ContactMessage, 0, len(s.messageOrder))
	for _, id := range s.messageOrder {
		out = append(out, s.messages[id])
	}
	return out, nil
}

// CreateAppointment inserts a booking. Status, payment status and
// payment id are forced to their initial values here regardless of
// anything the caller sent over the wire.
func (s *MemoryStore) CreateAppointment(_ context.Context, in NewAppointment) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := model.Appointment{
		ID:             s.nextAppointmentID,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		ServiceType:    in.ServiceType,
		ServiceAddress: in.ServiceAddress,
		ScheduledDate:  in.ScheduledDate,
		ScheduledTime:  in.ScheduledTime,
		Status:         model.AppointmentScheduled,
		Notes:          copyString(in.Notes),
		CreatedAt:      time.Now().UTC(),
		PaymentStatus:  model.PaymentStatusPending,
		PaymentID:      nil,
	}
	s.nextAppointmentID++
	s.appointments[a.ID] = a
	s.appointmentOrder = append(s.appointmentOrder, a.ID)
	return a, nil
}

// Appointment fetches a booking by id.
func (s *MemoryStore) Appointment(_ context.Context, id uint64) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return a, nil
}

// Appointments returns all bookings in insertion order.
func (s *MemoryStore) Appointments(_ context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Appointment, 0, len(s.appointmentOrder))
	for _, id := range s.appointmentOrder {
		out = append(out, s.appointments[id])
	}
	return out, nil
}

// UpdateAppointment merges the patch into the stored record. Only the
// fields present in the patch change; everything else is immutable.
func (s *MemoryStore) UpdateAppointment(_ context.Context, id uint64, patch AppointmentPatch) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	applyAppointmentPatch(&a, patch)
	s.appointments[id] = a
	return a, nil
}

// CreatePayment inserts a payment record, defaulting status to pending
// and currency to USD when absent.
func (s *MemoryStore) CreatePayment(_ context.Context, in NewPayment) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.insertPaymentLocked(in)
	return p, nil
}

// Payment fetches a payment by id.
func (s *MemoryStore) Payment(_ context.Context, id uint64) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return model.Payment{}, ErrNotFound
	}
	return p, nil
}

// PaymentsByAppointment returns every payment referencing the given
// appointment, in insertion order.
func (s *MemoryStore) PaymentsByAppointment(_ context.Context, appointmentID uint64) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Payment, 0)
	for _, id := range s.paymentOrder {
		if p := s.payments[id]; p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdatePayment merges the patch into the stored record.
func (s *MemoryStore) UpdatePayment(_ context.Context, id uint64, patch PaymentPatch) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return model.Payment{}, ErrNotFound
	}
	applyPaymentPatch(&p, patch)
	s.payments[id] = p
	return p, nil
}

// CompletePayment performs both lifecycle writes under one lock: the
// payment is created as completed with the gateway reference, and the
// appointment flips to paid with PaymentID set to the same reference.
// The appointment is checked first so a missing id creates nothing.
func (s *MemoryStore) CompletePayment(_ context.Context, in NewPayment, ref string) (model.Payment, model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[in.AppointmentID]
	if !ok {
		return model.Payment{}, model.Appointment{}, ErrNotFound
	}

	in.Status = model.PaymentCompleted
	in.SquarePaymentID = &ref
	p := s.insertPaymentLocked(in)

	a.PaymentStatus = model.PaymentStatusPaid
	a.PaymentID = &ref
	s.appointments[a.ID] = a
	return p, a, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

// insertPaymentLocked assigns the next payment id and applies creation
// defaults. The caller must hold s.mu.
func (s *MemoryStore) insertPaymentLocked(in NewPayment) model.Payment {
	p := model.Payment{
		ID:              s.nextPaymentID,
		AppointmentID:   in.AppointmentID,
		SquarePaymentID: copyString(in.SquarePaymentID),
		AmountCents:     in.AmountCents,
		Currency:        in.Currency,
		Status:          in.Status,
		CreatedAt:       time.Now().UTC(),
	}
	if p.Currency == "" {
		p.Currency = model.DefaultCurrency
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}
	s.nextPaymentID++
	s.payments[p.ID] = p
	s.paymentOrder = append(s.paymentOrder, p.ID)
	return p
}

func applyAppointmentPatch(a *model.Appointment, patch AppointmentPatch) {
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = copyString(patch.Notes)
	}
	if patch.PaymentStatus != nil {
		a.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentID != nil {
		a.PaymentID = copyString(patch.PaymentID)
	}
}

func applyPaymentPatch(p *model.Payment, patch PaymentPatch) {
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.SquarePaymentID != nil {
		p.SquarePaymentID = copyString(patch.SquarePaymentID)
	}
}

// copyString clones an optional string so stored records never alias
// caller-owned memory.
func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
