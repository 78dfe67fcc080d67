package engine

import "errors"

// Round matcher errors
var (
	ErrInsufficientParticipants = errors.New("at least two participants are required")
	ErrNoEligiblePairs          = errors.New("no unique pairs left for a new round")
	ErrRoundNotComplete         = errors.New("current round is not completed yet")
)

// Match state machine errors
var (
	ErrAlreadyCompleted        = errors.New("match is already finished")
	ErrUnauthorizedParticipant = errors.New("participant is not part of this match")
	ErrInvalidTransition       = errors.New("invalid match status transition")
)
