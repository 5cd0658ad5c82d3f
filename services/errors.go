package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in the handlers.
var (
	// Not-found conditions
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrThreadNotFound     = errors.New("message thread not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidWinner           = errors.New("winner must be one of the match teams")
	ErrTeamRemoved             = errors.New("team has been removed from the tournament")
	ErrTeamNotInTournament     = errors.New("team does not belong to this tournament")
	ErrSameTeamMatch           = errors.New("a match requires two distinct teams")
	ErrTournamentFrozen        = errors.New("tournament is frozen")
	ErrUnsupportedFormat       = errors.New("unsupported tournament format")
	ErrMatchesAlreadyGenerated = errors.New("tournament matches have already been generated")
	ErrMatchAlreadyCompleted   = errors.New("match has already been completed")
	ErrEmptyMessage            = errors.New("message must contain text or an image")
)
