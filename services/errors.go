package services

import "errors"

// Shared errors used across services and HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed                  = errors.New("validation failed")
	ErrPasswordTooShort                  = errors.New("password is too short")
	ErrInvalidCredentials                = errors.New("invalid email or password")
	ErrTournamentInvalidDateRange        = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentNotActive               = errors.New("tournament is not active")
	ErrTournamentHasNoMatches            = errors.New("tournament has no matches")
	ErrBookingInPast                     = errors.New("booking must start in the future")
	ErrBookingInvalidTimeRange           = errors.New("booking end must be after start")
	ErrBookingSlotTaken                  = errors.New("court is already booked for this time slot")
	ErrBookingNotConfirmed               = errors.New("booking is not in a confirmable state")
	ErrPaymentNotCompleted               = errors.New("payment has not been completed")
	ErrPaymentAlreadyTransferred         = errors.New("payment already has a transfer recorded")
	ErrClubHasNoProviderAccount          = errors.New("club has no connected payment provider account")

	// Conflicts
	ErrClubNameTaken = errors.New("club name is already taken")

	// Auth
	ErrAuthEmailTaken     = errors.New("email is already taken")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found context
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrCourtNotFound      = errors.New("court not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPaymentNotFound    = errors.New("payment not found")
)
