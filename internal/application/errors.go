package application

import (
	"errors"

	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = helpers.ErrInvalidToken
	ErrUserNotFound         = errors.New("user not found")
	ErrNotFound             = errors.New("resource not found")
	ErrOwnership            = errors.New("resource not owned by user")
	ErrDuplicateSchedule    = errors.New("an active schedule already exists for this medicine at that time and frequency")
	ErrDuplicateProfileName = errors.New("profile name already in use")
	ErrInvalidOperation     = errors.New("invalid operation")
	ErrValidation           = errors.New("validation failed")
	ErrAuthRequired         = errors.New("authentication required")
	ErrUnavailable          = errors.New("service unavailable")
)
