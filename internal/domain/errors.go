package domain

import "errors"

var (
	// ErrNotAuthenticated means no session exists at all; the caller never
	// signed in or explicitly signed out.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the access token was rejected and the refresh
	// flow failed too; the session has been cleared and a new login is needed.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidScore = errors.New("score must be between 0 and 5")
	ErrUserNotFound = errors.New("user not found")
	ErrNoSession    = errors.New("no saved session")
)
