package social

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Stable machine-readable codes carried on every error response.
const (
	TextCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	TextCodeInactiveProfile      = "INACTIVE_PROFILE"
	TextCodeBanned               = "BANNED"
	TextCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeRefreshRequired      = "REFRESH_TOKEN_REQUIRED"
	TextCodeInvalidOrExpiredCode = "INVALID_OR_EXPIRED_CODE"
	TextCodeNotBanned            = "NOT_BANNED"
	TextCodeAlreadyBanned        = "ALREADY_BANNED"
	TextCodeForbidden            = "FORBIDDEN"
)

// ErrInvalidCredentials is returned when the identifier or password is wrong.
// The message is constant-shaped: callers learn nothing about which of the
// two was incorrect, or whether the account exists at all.
var ErrInvalidCredentials = errors.New("Incorrect email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrInactiveProfile is returned once credentials verify but the account has
// not completed email verification.
var ErrInactiveProfile = errors.New("Your profile is not activated", errors.CategoryAuthz).
	WithTextCode(TextCodeInactiveProfile).
	WithCode(errors.CodeForbidden)

// ErrBanned is returned for any credentialed operation against a banned
// account, including refresh with an otherwise valid token.
var ErrBanned = errors.New("You are banned", errors.CategoryAuthz).
	WithTextCode(TextCodeBanned).
	WithCode(errors.CodeForbidden)

// ErrNotAuthenticated covers absent, invalid, or expired credentials.
var ErrNotAuthenticated = errors.New("You are not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrRefreshTokenRequired is the validation error for an empty refresh payload.
var ErrRefreshTokenRequired = errors.New("Refresh token is required", errors.CategoryValidation).
	WithTextCode(TextCodeRefreshRequired).
	WithCode(errors.CodeBadRequest)

// ErrInvalidOrExpiredCode is returned when a verification code cannot be
// found, either because it never existed or because it aged out and was
// purged. Attached to the `code` field.
var ErrInvalidOrExpiredCode = errors.New("Invalid or expired verification code", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidOrExpiredCode).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "code"})

// ErrNotBanned is returned when unbanning a login with no active ban.
var ErrNotBanned = errors.New("Invalid login or user is not banned", errors.CategoryNotFound).
	WithTextCode(TextCodeNotBanned).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is the canonical expired token error.
var ErrTokenExpired = errors.New("Authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the canonical malformed token error.
var ErrTokenMalformed = errors.New("Invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput)

// ErrMismatchedHashAndPassword mirrors bcrypt's mismatch error.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation reports whether the persistence layer rejected a write
// because of a unique constraint. Both sqlite and postgres phrase this
// differently, and go-repository-bun passes the driver error through.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
