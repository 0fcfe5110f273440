package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token is malformed or its signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token's nbf or iat lies in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType indicates a validly signed token of another type.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrEmptySubject indicates GenerateToken was called without a subject.
	ErrEmptySubject = errors.New("token subject is empty")
)
