// Package auth issues admin sessions and holds the session seen by one request.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no valid session")
	ErrRefreshRevoked     = errors.New("refresh token revoked")
	ErrClosed             = errors.New("session holder closed")
)

type Authenticator interface {
	GenerateTokens(subject, email string) (Tokens, error)
	ValidateAccessToken(token string) (*jwt.Token, error)
	ValidateRefreshToken(token string) (*jwt.Token, error)
}
