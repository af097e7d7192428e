package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSelfComparison     = errors.New("cannot score a user against themself")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotDiscoverable    = errors.New("discovery is disabled for this user")
	ErrBuddyNotFound      = errors.New("buddy not found")
	ErrBuddyAlreadyExists = errors.New("buddy already exists")
	ErrCannotBuddySelf    = errors.New("cannot buddy with yourself")
	ErrNotReceiver        = errors.New("only the receiver can update buddy status")
	ErrNotParticipant     = errors.New("not a participant of this buddy")
	ErrInvalidStatus      = errors.New("invalid buddy status")
	ErrInvalidTransition  = errors.New("buddy request is no longer pending")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	ErrInvalidToken = errors.New("invalid token")
)
