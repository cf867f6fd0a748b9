package domain

import "errors"

// Error categories. Every error returned by the core either is one of these or
// unwraps to one, which is what the HTTP layer maps to a status code.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a categorised error with a message that is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid returns a validation error carrying msg.
func Invalid(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

// Forbidden returns an authorisation error carrying msg.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Msg: msg}
}

var (
	ErrUserNotFound         = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrQuestionNotFound     = &Error{Kind: ErrNotFound, Msg: "question not found"}
	ErrAnswerNotFound       = &Error{Kind: ErrNotFound, Msg: "answer not found"}
	ErrCommentNotFound      = &Error{Kind: ErrNotFound, Msg: "comment not found"}
	ErrNotificationNotFound = &Error{Kind: ErrNotFound, Msg: "notification not found"}

	ErrUserExists      = &Error{Kind: ErrConflict, Msg: "username or email already exists"}
	ErrDuplicateVote   = &Error{Kind: ErrConflict, Msg: "you have already voted this way"}
	ErrInvalidVoteType = &Error{Kind: ErrValidation, Msg: "invalid vote type"}

	ErrInvalidCredentials = &Error{Kind: ErrUnauthenticated, Msg: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: ErrUnauthenticated, Msg: "invalid token"}
)

// ErrVoteRace is returned by the store when a compare-and-set vote update
// found the voter's recorded direction changed underneath it.
var ErrVoteRace = errors.New("vote changed concurrently")
