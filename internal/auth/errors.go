package auth

import "errors"

// Typed failures for the login and token paths. Handlers collapse the token
// failures into one generic response so callers cannot probe which check
// rejected them; tests assert on the specific cause.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMalformedToken     = errors.New("malformed token")
	ErrExpired            = errors.New("token outside its validity window")
	ErrInvalidIssuer      = errors.New("token issuer mismatch")
	ErrInvalidAudience    = errors.New("token audience mismatch")
	ErrInvalidSignature   = errors.New("token signature mismatch")
	ErrInvalidToken       = errors.New("invalid token")
)
