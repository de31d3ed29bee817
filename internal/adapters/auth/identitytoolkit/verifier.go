package identitytoolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nyanpass/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verify valida el id token consultando accounts:lookup.
// Cuesta un round-trip por request; alcanza para el volumen de una app personal.
func (c *Client) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if c == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	u, err := c.Lookup(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if strings.TrimSpace(u.ID) == "" {
		return auth.Claims{}, errors.New("identity toolkit user missing localId")
	}
	return auth.Claims{UserID: u.ID, Email: u.Email}, nil
}
