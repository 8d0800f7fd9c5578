package store

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoChanges          = errors.New("no fields to update")
	ErrDuplicate          = errors.New("duplicate record")
	ErrEndBeforeStart     = errors.New("end precedes start")
	ErrNotParticipant     = errors.New("not a chat participant")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
