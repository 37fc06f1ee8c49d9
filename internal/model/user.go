package model

import "time"

// User represents an account that can sign in to the booking API.
// Passwords are stored only as bcrypt hashes; the hash is never
// serialized back to clients.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – whether the account may use admin endpoints.
//  CreatedAt    – timestamp of creation (UTC).
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
