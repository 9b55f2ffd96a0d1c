// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an equivalent pending
// trade request already exists.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// reserved for a different actor: mutating a skill they do not own,
// accepting a request against someone else's skill, or cancelling a
// request they did not create. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert cannot proceed because an
// equivalent row already exists, such as a second pending trade
// request for the same (requester, skill) pair. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when a status transition's precondition
// is unmet, e.g. accepting a request that is no longer pending. The
// check and the update happen as one conditional write, so a lost
// race between two actors surfaces as this error on the losing side.
var ErrInvalidState = errors.New("invalid state")

// ErrSkillNotFound is returned when a skill cannot be located in the DB.
var ErrSkillNotFound = errors.New("skill not found")

// ErrTradeNotFound is returned when a trade request cannot be located in the DB.
var ErrTradeNotFound = errors.New("trade request not found")

// ErrUserNotFound is returned when a user cannot be located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned on registration when the email address
// is already taken.
var ErrEmailExists = errors.New("email already exists")
