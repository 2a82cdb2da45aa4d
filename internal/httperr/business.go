package httperr

import (
	"errors"
	"fmt"
	"time"
)

// ===============================
// Business (invalid state)
// ===============================

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ===============================
// Validation
// ===============================

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

func ErrValidation(code, message string) error {
	return ValidationError{Code: code, Message: message}
}

// ===============================
// Conflict
// ===============================

// Conflict names one existing booking a request collided with.
type Conflict struct {
	BookingID uint      `json:"booking_id"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type ConflictError struct {
	Conflicts []Conflict
}

func (e ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "time_conflict"
	}
	c := e.Conflicts[0]
	msg := fmt.Sprintf(
		"time_conflict: %s is booked %s - %s",
		c.RoomName,
		c.StartTime.Format(time.RFC3339),
		c.EndTime.Format(time.RFC3339),
	)
	if n := len(e.Conflicts) - 1; n > 0 {
		msg += fmt.Sprintf(" (+%d more)", n)
	}
	return msg
}

// ===============================
// Authorization / not found
// ===============================

type AuthorizationError struct {
	Code string
}

func (e AuthorizationError) Error() string {
	return e.Code
}

func ErrForbidden(code string) error {
	return AuthorizationError{Code: code}
}

type NotFoundError struct {
	Code string
}

func (e NotFoundError) Error() string {
	return e.Code
}

func ErrNotFound(code string) error {
	return NotFoundError{Code: code}
}

// ===============================
// Persistence
// ===============================

// PersistenceError wraps store failures. Only Op reaches clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err unless it is already one of the typed errors
// above, which pass through untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		be BusinessError
		ve ValidationError
		ce ConflictError
		ae AuthorizationError
		ne NotFoundError
		pe PersistenceError
	)
	switch {
	case errors.As(err, &be), errors.As(err, &ve), errors.As(err, &ce),
		errors.As(err, &ae), errors.As(err, &ne), errors.As(err, &pe):
		return err
	}
	return PersistenceError{Op: op, Err: err}
}
