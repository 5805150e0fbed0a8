package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	// Store-level failures during lookup collapse into this error so callers
	// always fail closed into an anonymous session.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session's sliding expiration has elapsed.
	ErrExpired = errors.New("session has expired")
	// ErrTokenGeneration is returned when identifier generation fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrSaveSession is returned when persisting a session fails. On the
	// login path this must surface as a login failure.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when deleting a session fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrRotateSession is returned when re-keying a session fails.
	ErrRotateSession = errors.New("failed to rotate session id")
	// ErrDataVersion is returned when stored session data carries an
	// unknown schema version.
	ErrDataVersion = errors.New("unsupported session data version")
)
