package services

import "errors"

var (
	ErrBadCreds           = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("admin role required")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUnknownProduct     = errors.New("product not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// ValidationError names the form field that failed and why.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
