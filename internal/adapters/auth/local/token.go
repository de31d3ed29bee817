package local

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nyanpass/internal/ports/auth"
)

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *Provider) issue(u auth.User) (auth.Credential, error) {
	now := p.now()
	exp := now.Add(p.cfg.TokenTTL)
	claims := tokenClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return auth.Credential{}, auth.NewError(auth.CodeInternal, err)
	}
	return auth.Credential{User: u, IDToken: signed, ExpiresAt: exp}, nil
}

func (p *Provider) parse(raw string) (*tokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, auth.NewError(auth.CodeInvalidIDToken, errors.New("empty token"))
	}
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(p.cfg.Secret), nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, auth.NewError(auth.CodeInvalidIDToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, auth.NewError(auth.CodeInvalidIDToken, errors.New("incomplete claims"))
	}
	return claims, nil
}

// Verify valida firma y vencimiento, y rechaza tokens revocados por SignOut.
func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	claims, err := p.parse(token)
	if err != nil {
		return auth.Claims{}, err
	}
	n, err := p.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
	if err != nil {
		return auth.Claims{}, auth.NewError(auth.CodeInternal, err)
	}
	if n > 0 {
		return auth.Claims{}, auth.NewError(auth.CodeInvalidIDToken, errors.New("token revoked"))
	}
	return auth.Claims{UserID: claims.Subject, Email: claims.Email}, nil
}
