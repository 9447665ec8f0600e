package service

import "errors"

// Service-level error taxonomy. All validation errors are raised before any
// persistence happens; the API layer maps each sentinel to an HTTP status in
// one place.
var (
	ErrInvalidField       = errors.New("invalid field value")
	ErrDuplicateEntry     = errors.New("duplicate entry in submission")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyRemoved     = errors.New("already removed")
	ErrNotSubscribed      = errors.New("not subscribed")
	ErrSelfFollow         = errors.New("self subscription is forbidden")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyCart          = errors.New("shopping cart is empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
