package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized: el token no es válido o expiró.
var ErrUnauthorized = errors.New("unauthorized")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
