package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDatesUnavailable  = errors.New("property is not available for the selected dates")
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrAlreadyReviewed   = errors.New("property already reviewed by this user")
	ErrOwnProperty       = errors.New("you cannot book your own property")
)
