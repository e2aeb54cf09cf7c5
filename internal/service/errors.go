package service

import "errors"

// Domain errors returned by the services. Repository sentinels
// (repository.ErrNotFound, ErrDuplicate, ErrReferenced) pass through unchanged.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReviewLinkInvalid  = errors.New("review link is unknown, inactive or expired")
	ErrRSVPTargetRequired = errors.New("an RSVP needs exactly one class or event")
	ErrDuplicateRSVP      = errors.New("already signed up with this email")
	ErrDateInPast         = errors.New("date is in the past")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrClassUnavailable   = errors.New("class or event is not available")
	ErrProtectedRole      = errors.New("the owner role cannot be changed")
	ErrRoleInUse          = errors.New("role is assigned to staff accounts")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrPasswordRequired   = errors.New("password is required for new accounts")
)

// FieldError is a business-rule failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }
