package services

import "errors"

// Domain errors surfaced to handlers, which map them onto HTTP statuses
// and response bodies. Anything else that bubbles out of a service is a
// store failure and becomes a generic server error.
var (
	ErrEmailTaken            = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorUnavailable     = errors.New("doctor not found or not approved")
	ErrDoctorProfileNotFound = errors.New("doctor profile not found")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrSlotConflict          = errors.New("time slot is already booked")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrNoFields              = errors.New("no update fields provided")
)
