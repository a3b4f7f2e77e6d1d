package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrInvalidRefreshToken indicates the refresh token is invalid
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidResetToken indicates the password reset token is invalid
	ErrInvalidResetToken = errors.New("invalid password reset token")

	// ErrExpiredResetToken indicates the password reset token has expired
	ErrExpiredResetToken = errors.New("password reset token has expired")

	// ErrWrongTokenType indicates a token was used in the wrong context,
	// e.g. a refresh token presented as an access token.
	ErrWrongTokenType = errors.New("wrong token type")
)
