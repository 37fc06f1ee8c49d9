// Package store error sentinels shared by both implementations. Handlers
// compare against these with errors.Is to choose an HTTP status, so the
// MySQL store must map driver errors onto them rather than leak them.
package store

import "errors"

// ErrNotFound is returned when an entity lookup or update references an
// id that does not exist. Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned by CreateUser when the username is
// already taken. Handlers translate it into a 409.
var ErrUsernameExists = errors.New("username already exists")
