// Package repository implements data access over MySQL. Methods with a
// Tx suffix run inside a caller-provided transaction; the caller owns
// commit and rollback. The sentinel values below allow higher layers
// such as handlers to distinguish between failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a resource owned by someone else, while
// ErrConflict signals that an operation cannot proceed due to existing
// dependent records (e.g. deleting a room with reservations).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot be performed because
// of conflicting state, such as attempting to delete a room that
// still has reservations or an element allocated to a room. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
