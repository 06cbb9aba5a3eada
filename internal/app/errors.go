// Package app holds the application services and business logic.
package app

import "errors"

var (
	// ErrValidation indicates missing or malformed required input.
	ErrValidation = errors.New("missing or invalid required fields")
	// ErrInvalidID indicates a syntactically invalid record identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner indicates that the caller does not own the record.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrEmailTaken indicates that another user already holds the email.
	ErrEmailTaken = errors.New("a user already exists with that email")
	// ErrUsernameTaken indicates that another user already holds the username.
	ErrUsernameTaken = errors.New("a user already exists with that username")
	// ErrInvalidCredentials indicates that the email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenExpired indicates an expired auth token.
	ErrTokenExpired = errors.New("authorization has expired")
	// ErrTokenInvalid indicates a malformed or forged auth token.
	ErrTokenInvalid = errors.New("invalid authorization token")
	// ErrMediaUpload indicates that the hosted media service rejected an upload.
	ErrMediaUpload = errors.New("media upload failed")
)
