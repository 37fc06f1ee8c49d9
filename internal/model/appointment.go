package model

import "time"

// Appointment status values. New appointments always start out
// scheduled; the other two states are reached only through admin
// updates.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment payment status values. The transition to paid happens
// only as a side effect of a completed payment referencing the
// appointment, never directly from client input.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Appointment is a scheduled service visit booked by a customer.
//
// Fields:
//  ID             – primary key identifier.
//  CustomerName   – name of the customer.
//  CustomerEmail  – customer's email address.
//  CustomerPhone  – customer's phone number.
//  ServiceType    – which service was booked.
//  ServiceAddress – property address where the work happens.
//  ScheduledDate  – date of the visit (as submitted, e.g. "2026-04-12").
//  ScheduledTime  – time slot of the visit (as submitted, e.g. "09:00").
//  Status         – scheduled | completed | cancelled.
//  Notes          – optional admin notes (nullable).
//  CreatedAt      – timestamp of booking (UTC).
//  PaymentStatus  – pending | paid | refunded.
//  PaymentID      – external payment reference once paid (nullable).
type Appointment struct {
	ID             uint64    `json:"id"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	CustomerPhone  string    `json:"customerPhone"`
	ServiceType    string    `json:"serviceType"`
	ServiceAddress string    `json:"serviceAddress"`
	ScheduledDate  string    `json:"scheduledDate"`
	ScheduledTime  string    `json:"scheduledTime"`
	Status         string    `json:"status"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	PaymentStatus  string    `json:"paymentStatus"`
	PaymentID      *string   `json:"paymentId"`
}
