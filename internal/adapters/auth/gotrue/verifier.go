package gotrue

import (
	"context"
	"fmt"

	"github.com/maxi-cmyk/poop-tracker/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier contra GoTrue.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}

	claims, err := v.client.User(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("gotrue verify failed: %w", err)
	}
	return claims, nil
}
