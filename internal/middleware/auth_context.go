package middleware

import (
	"context"
	"net/http"
	"strings"

	"nyanpass/internal/ports/auth"
)

// DebugUserHeader solo se lee cuando no hay proveedor de identidad configurado.
const DebugUserHeader = "X-Debug-User-ID"

type identityKey struct{}

// identity es lo que AuthContext deja en el contexto. token puede venir sin
// claims cuando la verificación falló: logout y perfil lo necesitan igual.
type identity struct {
	claims   auth.Claims
	verified bool
	token    string
}

// AuthContext resuelve quién hace el request y nunca corta la cadena: sin
// identidad los servicios devuelven ErrNoIdentity y el handler responde 401.
// Con verifier nil (modo dev) la identidad sale de DebugUserHeader.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id identity
			if verifier == nil {
				id = devIdentity(r)
			} else {
				id = verifiedIdentity(r, verifier)
			}
			if id == (identity{}) {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
		})
	}
}

func devIdentity(r *http.Request) identity {
	uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
	if uid == "" {
		return identity{}
	}
	return identity{claims: auth.Claims{UserID: uid}, verified: true}
}

func verifiedIdentity(r *http.Request, verifier auth.AuthVerifier) identity {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return identity{}
	}
	id := identity{token: token}
	if claims, err := verifier.Verify(r.Context(), token); err == nil {
		id.claims, id.verified = claims, true
	}
	return id
}

func fromContext(ctx context.Context) identity {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id
}

// Claims devuelve las claims verificadas del request.
func Claims(ctx context.Context) (auth.Claims, bool) {
	id := fromContext(ctx)
	return id.claims, id.verified
}

// UserID devuelve "" si el request no trae identidad.
func UserID(ctx context.Context) string {
	c, ok := Claims(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.UserID)
}

// IDToken es el Bearer token tal cual llegó, verificado o no.
func IDToken(ctx context.Context) string {
	return fromContext(ctx).token
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
