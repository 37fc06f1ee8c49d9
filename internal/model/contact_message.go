package model

import "time"

// ContactMessage is a submission from the public contact form.
// Messages are immutable once stored; there is no update or delete
// path for them anywhere in the API.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – sender's name.
//  Email     – sender's email address.
//  Phone     – sender's phone number.
//  Service   – service the sender is asking about (e.g. "lawn-care").
//  Address   – property address, when the sender provided one (nullable).
//  Message   – free-form message body.
//  CreatedAt – timestamp of submission (UTC).
type ContactMessage struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Address   *string   `json:"address"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
