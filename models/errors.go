package models

import "errors"

// Sentinel errors shared across repositories, services and handlers. Lookup
// failures and validation failures abort the operation before any writes.
var (
	ErrComplaintNotFound     = errors.New("complaint not found")
	ErrDepartmentNotFound    = errors.New("department not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrServiceNotFound       = errors.New("city service not found")
	ErrEmptyComment          = errors.New("comment must not be empty")
	ErrInvalidStatus         = errors.New("invalid complaint status")
	ErrMissingRequiredFields = errors.New("title, description and location are required")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)
