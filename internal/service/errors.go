package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// Event service specific errors
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrMaxRoundsReached = errors.New("event has reached its maximum number of rounds")
)

// Participant service specific errors
var (
	ErrParticipantNotFound = errors.New("participant not found")
)

// Match service specific errors
var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrConcurrentUpdate = errors.New("match was modified concurrently, please retry")
)
